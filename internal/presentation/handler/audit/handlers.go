package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/json"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Handler struct {
	repo   domain.RoomAuditRepository
	logger logging.Logger
}

func NewHandler(repo domain.RoomAuditRepository, logger logging.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// GetAuditLogHandler godoc
// @Summary      Get a room's audit trail
// @Description  Lists recorded lifecycle events (created, joined, left, rejected, deleted) for a room code. Records outlive the room until their TTL passes. Message content is never recorded.
// @Tags         rooms
// @Produce      json
// @Param        code  path  string true  "Room code"
// @Param        limit query int    false "Maximum entries, 1 to 500 (default 50)"
// @Success      200 {object} auditLogResponse "Audit entries"
// @Failure      400 {object} json.ErrorResponse "bad_request"
// @Router       /rooms/{code}/audit [get]
func (h *Handler) GetAuditLogHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			json.WriteBadRequestError(w, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	code := chi.URLParam(r, "code")
	entries, err := h.repo.GetByRoomCode(r.Context(), code, limit)
	if err != nil {
		json.WriteInternalError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []domain.RoomAuditLog{}
	}

	json.Write(w, http.StatusOK, auditLogResponse{RoomCode: code, Entries: entries})
}
