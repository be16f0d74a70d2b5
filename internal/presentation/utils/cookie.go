package utils

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	CookieNameParticipantID = "participant_id"
	HeaderParticipantID     = "X-Participant-ID"
	QueryParticipantID      = "participantId"

	participantCookieTTL = 30 * 24 * time.Hour
)

func FormatRoomPath(code string) string {
	return fmt.Sprintf("/api/rooms/%s", url.PathEscape(code))
}

// ParticipantID resolves the caller's claimed identity. An explicit header
// wins, then the request body, then the query string, then the room cookie.
func ParticipantID(r *http.Request, fromBody string) string {
	if id := strings.TrimSpace(r.Header.Get(HeaderParticipantID)); id != "" {
		return id
	}
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get(QueryParticipantID)); id != "" {
		return id
	}
	return GetParticipantIDFromCookie(r)
}

func GetParticipantIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieNameParticipantID)
	if err != nil {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func SetParticipantCookie(w http.ResponseWriter, code, participantID string) {
	setParticipantCookie(w, FormatRoomPath(code), participantID, time.Now().Add(participantCookieTTL))
}

func ClearParticipantCookie(w http.ResponseWriter, code string) {
	setParticipantCookie(w, FormatRoomPath(code), "", time.Now().Add(-24*time.Hour))
}

func setParticipantCookie(w http.ResponseWriter, path, participantID string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieNameParticipantID,
		Value:    base64.StdEncoding.EncodeToString([]byte(participantID)),
		Path:     path,
		HttpOnly: true,
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
		Secure:   true,
	})
}
