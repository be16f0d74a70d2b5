package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/configs"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/hilthontt/burnroom/internal/infrastructure/metrics"
	"github.com/hilthontt/burnroom/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/burnroom/internal/infrastructure/repository"
	"github.com/hilthontt/burnroom/internal/infrastructure/ws"
	auditHandler "github.com/hilthontt/burnroom/internal/presentation/handler/audit"
	healthHandler "github.com/hilthontt/burnroom/internal/presentation/handler/health"
	messagesHandler "github.com/hilthontt/burnroom/internal/presentation/handler/messages"
	presenceHandler "github.com/hilthontt/burnroom/internal/presentation/handler/presence"
	roomHandler "github.com/hilthontt/burnroom/internal/presentation/handler/rooms"
	"github.com/hilthontt/burnroom/internal/presentation/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	service chat.Service
}

func newTestServer(t *testing.T, limiter ratelimiter.Limiter) *testServer {
	t.Helper()
	return newAuditedTestServer(t, limiter, nil)
}

// newAuditedTestServer records room events into auditRepo and serves them
// back through the audit route. A nil auditRepo leaves the route unmounted.
func newAuditedTestServer(t *testing.T, limiter ratelimiter.Limiter, auditRepo domain.RoomAuditRepository) *testServer {
	t.Helper()

	logger := logging.NewNop()
	hub := ws.NewHub(logger, nil)
	notifiers := chat.Notifiers{hub}
	var auditH *auditHandler.Handler
	if auditRepo != nil {
		notifiers = append(notifiers, chat.NewAuditNotifier(auditRepo, logger))
		auditH = auditHandler.NewHandler(auditRepo, logger)
	}
	svc := chat.NewService(chat.Options{
		Registry:        repository.NewRoomRegistry(10, domain.DefaultPolicy()),
		Notifier:        notifiers,
		Logger:          logger,
		DefaultSettings: domain.DefaultRoomSettings(),
	})

	app := NewApplication(
		configs.Config{HTTP: configs.HTTPConfig{AllowedOrigins: []string{"*"}}},
		roomHandler.NewHandler(svc, ws.NewGateway(hub, svc, logger), logger),
		healthHandler.NewHandler(svc.Stats),
		messagesHandler.NewHandler(svc, logger),
		presenceHandler.NewHandler(svc, logger),
		auditH,
		logger,
		limiter,
		metrics.New(svc.Stats),
	)

	return &testServer{handler: app.Mount(), service: svc}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type joinResponse struct {
	Participant  domain.ParticipantView   `json:"participant"`
	Rejoined     bool                     `json:"rejoined"`
	Participants []domain.ParticipantView `json:"participants"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *testServer) join(t *testing.T, code, name string) domain.ParticipantView {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/rooms/"+code+"/join", map[string]any{"displayName": name}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[joinResponse](t, rec).Participant
}

func TestJoinRoom_SetsCookieAndRejoins(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/rooms/lobby/join", map[string]any{"displayName": "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	first := decode[joinResponse](t, rec)
	assert.False(t, first.Rejoined)
	assert.Equal(t, "alice", first.Participant.DisplayName)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.CookieNameParticipantID, cookies[0].Name)
	assert.Equal(t, "/api/rooms/lobby", cookies[0].Path)

	rec = s.do(t, http.MethodPost, "/api/rooms/lobby/join", map[string]any{"displayName": "alice"},
		http.Header{utils.HeaderParticipantID: {first.Participant.ID}})
	require.Equal(t, http.StatusOK, rec.Code)

	second := decode[joinResponse](t, rec)
	assert.True(t, second.Rejoined)
	assert.Equal(t, first.Participant.ID, second.Participant.ID)
	assert.Len(t, second.Participants, 1)
}

func TestJoinRoom_Failures(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/rooms/ab/join", map[string]any{"displayName": "alice"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_room_code", decode[errorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/rooms/private/join", map[string]any{
		"displayName": "owner",
		"settings":    map[string]any{"maxUsers": 1, "allowAnonymous": false},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/rooms/private/join", map[string]any{"displayName": "guest"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "room_full", decode[errorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/rooms/lobby/join", map[string]any{"unknown": true}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinRoom_PartialSettingsKeepAnonymousAccess(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/rooms/abc/join", map[string]any{
		"settings": map[string]any{"maxUsers": 5},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/rooms/abc", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[domain.RoomInfo](t, rec)
	assert.Equal(t, 5, info.MaxUsers)
	assert.True(t, info.Settings.AllowAnonymous)
	assert.Equal(t, domain.DefaultHistoryDurationHours, info.Settings.HistoryDurationHours)
}

type memoryAudit struct {
	mu   sync.Mutex
	logs []domain.RoomAuditLog
	err  error
}

func (m *memoryAudit) Log(_ context.Context, log *domain.RoomAuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memoryAudit) GetByRoomCode(_ context.Context, roomCode string, limit int) ([]domain.RoomAuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.RoomAuditLog
	for i := len(m.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.logs[i].RoomCode == roomCode {
			out = append(out, m.logs[i])
		}
	}
	return out, nil
}

func (m *memoryAudit) EnsureIndexes(context.Context) error { return nil }

type auditResponse struct {
	RoomCode string                `json:"roomCode"`
	Entries  []domain.RoomAuditLog `json:"entries"`
}

func TestAuditLog_ListsRoomLifecycle(t *testing.T) {
	s := newAuditedTestServer(t, nil, &memoryAudit{})
	s.join(t, "trail", "alice")
	s.join(t, "trail", "bob")
	s.join(t, "other", "carol")

	rec := s.do(t, http.MethodGet, "/api/rooms/trail/audit", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[auditResponse](t, rec)
	assert.Equal(t, "trail", got.RoomCode)
	require.Len(t, got.Entries, 3)
	assert.Equal(t, domain.EventParticipantJoined, got.Entries[0].EventType)
	assert.Equal(t, domain.EventRoomCreated, got.Entries[2].EventType)

	rec = s.do(t, http.MethodGet, "/api/rooms/trail/audit?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[auditResponse](t, rec).Entries, 1)

	rec = s.do(t, http.MethodGet, "/api/rooms/nobody/audit", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decode[auditResponse](t, rec).Entries)
}

func TestAuditLog_Failures(t *testing.T) {
	for _, limit := range []string{"0", "501", "ten"} {
		s := newAuditedTestServer(t, nil, &memoryAudit{})
		rec := s.do(t, http.MethodGet, "/api/rooms/trail/audit?limit="+limit, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
		assert.Equal(t, "bad_request", decode[errorResponse](t, rec).Code)
	}

	s := newAuditedTestServer(t, nil, &memoryAudit{err: assert.AnError})
	rec := s.do(t, http.MethodGet, "/api/rooms/trail/audit", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Without an audit store the route is not mounted.
	s = newTestServer(t, nil)
	rec = s.do(t, http.MethodGet, "/api/rooms/trail/audit", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBurnAfterReading_OverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.join(t, "burn", "alice")
	bob := s.join(t, "burn", "bob")

	rec := s.do(t, http.MethodPost, "/api/rooms/burn/messages", map[string]any{
		"participantId": alice.ID,
		"text":          "read me once",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decode[domain.MessageView](t, rec)
	assert.Equal(t, 1, sent.ViewCount)
	assert.Equal(t, 2, sent.TotalParticipants)

	// A GET peek does not count as a view.
	rec = s.do(t, http.MethodGet, "/api/rooms/burn/poll?participantId="+bob.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	peek := decode[domain.RoomState](t, rec)
	require.Len(t, peek.Messages, 1)
	assert.False(t, peek.Messages[0].IsExpired)

	rec = s.do(t, http.MethodPost, "/api/rooms/burn/poll", map[string]any{"participantId": bob.ID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[domain.RoomState](t, rec)
	require.Len(t, state.Messages, 1)
	assert.True(t, state.Messages[0].IsExpired)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, state.Messages[0].ViewedBy)
}

func TestSendMessage_Failures(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.join(t, "lobby", "alice")

	rec := s.do(t, http.MethodPost, "/api/rooms/lobby/messages", map[string]any{"participantId": alice.ID, "text": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_or_too_long", decode[errorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/rooms/lobby/messages", map[string]any{"participantId": "ghost", "text": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "participant_not_found", decode[errorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/rooms/nowhere/messages", map[string]any{"participantId": alice.ID, "text": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "room_not_found", decode[errorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/rooms/lobby/messages", map[string]any{"text": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPoll_StrictPolicy(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/rooms/nowhere/poll", map[string]any{}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/rooms/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeartbeatTypingLeave(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.join(t, "lobby", "alice")
	header := http.Header{utils.HeaderParticipantID: {alice.ID}}

	rec := s.do(t, http.MethodPost, "/api/rooms/lobby/heartbeat", nil, header)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/rooms/lobby/typing", map[string]any{"isTyping": true}, header)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/rooms/lobby/poll", nil, header)
	state := decode[domain.RoomState](t, rec)
	require.Len(t, state.Participants, 1)
	assert.True(t, state.Participants[0].IsTyping)

	rec = s.do(t, http.MethodPost, "/api/rooms/lobby/leave", nil, header)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/rooms/lobby/heartbeat", nil, header)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "participant_not_found", decode[errorResponse](t, rec).Code)
}

func TestRoomInfo(t *testing.T) {
	s := newTestServer(t, nil)
	s.join(t, "lobby", "alice")

	rec := s.do(t, http.MethodGet, "/api/rooms/lobby", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	info := decode[domain.RoomInfo](t, rec)
	assert.Equal(t, "lobby", info.Code)
	assert.Equal(t, 1, info.ParticipantCount)
	assert.Equal(t, domain.DefaultMaxUsers, info.MaxUsers)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	s.join(t, "lobby", "alice")

	rec := s.do(t, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status       string `json:"status"`
		Rooms        int    `json:"rooms"`
		Participants int    `json:"participants"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Rooms)
	assert.Equal(t, 1, health.Participants)

	rec = s.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/rooms/{code}/join"`)
}

func TestRateLimiter(t *testing.T) {
	limiter := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: 1,
		MaxBurst:         1,
		Clock:            func() time.Time { return time.Unix(1_700_000_000, 0) },
	})
	s := newTestServer(t, limiter)

	rec := s.do(t, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = s.do(t, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decode[errorResponse](t, rec).Code)
}

func TestCors_Preflight(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodOptions, "/api/rooms/lobby/join", nil, http.Header{"Origin": {"https://example.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-Participant-ID"))
}
