package presence

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/json"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/hilthontt/burnroom/internal/presentation/utils"
)

type Handler struct {
	service chat.Service
	logger  logging.Logger
}

func NewHandler(service chat.Service, logger logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// PollHandler godoc
// @Summary      Poll room state
// @Description  Returns the authoritative room snapshot. The viewer is marked active and every message it receives counts as viewed.
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        code    path string      true  "Room code"
// @Param        request body pollRequest false "Viewer"
// @Success      200 {object} domain.RoomState "Room snapshot"
// @Failure      404 {object} json.ErrorResponse "room_not_found"
// @Router       /rooms/{code}/poll [post]
func (h *Handler) PollHandler(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	h.poll(w, r, utils.ParticipantID(r, req.ParticipantID), true)
}

// PeekHandler godoc
// @Summary      Peek at room state
// @Description  Same snapshot as the POST variant without acknowledging any message
// @Tags         presence
// @Produce      json
// @Param        code          path  string true  "Room code"
// @Param        participantId query string false "Viewer to keep active"
// @Success      200 {object} domain.RoomState "Room snapshot"
// @Failure      404 {object} json.ErrorResponse "room_not_found"
// @Router       /rooms/{code}/poll [get]
func (h *Handler) PeekHandler(w http.ResponseWriter, r *http.Request) {
	h.poll(w, r, utils.ParticipantID(r, ""), false)
}

func (h *Handler) poll(w http.ResponseWriter, r *http.Request, participantID string, ack bool) {
	state, err := h.service.PollRoomState(r.Context(), chi.URLParam(r, "code"), participantID, ack)
	if err != nil {
		json.WriteDomainError(w, h.logger, err)
		return
	}

	json.Write(w, http.StatusOK, state)
}

// HeartbeatHandler godoc
// @Summary      Heartbeat
// @Description  Refreshes the participant's last-seen time
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        code    path string           true  "Room code"
// @Param        request body heartbeatRequest false "Participant"
// @Success      200 {object} okResponse
// @Failure      404 {object} json.ErrorResponse "room_not_found, participant_not_found"
// @Router       /rooms/{code}/heartbeat [post]
func (h *Handler) HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	participantID := utils.ParticipantID(r, req.ParticipantID)
	if participantID == "" {
		json.WriteDomainError(w, h.logger, domain.ErrParticipantNotFound)
		return
	}

	if err := h.service.Heartbeat(r.Context(), chi.URLParam(r, "code"), participantID); err != nil {
		json.WriteDomainError(w, h.logger, err)
		return
	}

	json.Write(w, http.StatusOK, okResponse{OK: true})
}

// TypingHandler godoc
// @Summary      Set typing indicator
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        code    path string        true "Room code"
// @Param        request body typingRequest true "Typing state"
// @Success      200 {object} okResponse
// @Failure      404 {object} json.ErrorResponse "room_not_found, participant_not_found"
// @Router       /rooms/{code}/typing [post]
func (h *Handler) TypingHandler(w http.ResponseWriter, r *http.Request) {
	var req typingRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	participantID := utils.ParticipantID(r, req.ParticipantID)
	if participantID == "" {
		json.WriteDomainError(w, h.logger, domain.ErrParticipantNotFound)
		return
	}

	if err := h.service.SetTyping(r.Context(), chi.URLParam(r, "code"), participantID, req.IsTyping); err != nil {
		json.WriteDomainError(w, h.logger, err)
		return
	}

	json.Write(w, http.StatusOK, okResponse{OK: true})
}
