package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantID_Precedence(t *testing.T) {
	rec := httptest.NewRecorder()
	SetParticipantCookie(rec, "lobby", "from-cookie")
	cookie := rec.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodPost, "/api/rooms/lobby/poll?participantId=from-query", nil)
	r.AddCookie(cookie)
	assert.Equal(t, "from-query", ParticipantID(r, ""))
	assert.Equal(t, "from-body", ParticipantID(r, "from-body"))

	r.Header.Set(HeaderParticipantID, "from-header")
	assert.Equal(t, "from-header", ParticipantID(r, "from-body"))

	bare := httptest.NewRequest(http.MethodPost, "/api/rooms/lobby/poll", nil)
	bare.AddCookie(cookie)
	assert.Equal(t, "from-cookie", ParticipantID(bare, "  "))
}

func TestSetParticipantCookie_ScopedToRoom(t *testing.T) {
	rec := httptest.NewRecorder()
	SetParticipantCookie(rec, "my room", "abc")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "/api/rooms/my%20room", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
}

func TestGetParticipantIDFromCookie_Garbage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieNameParticipantID, Value: "%%%"})
	assert.Empty(t, GetParticipantIDFromCookie(r))
}
