package rooms

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/json"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/hilthontt/burnroom/internal/infrastructure/ws"
	"github.com/hilthontt/burnroom/internal/presentation/utils"
)

type Handler struct {
	service chat.Service
	gateway *ws.Gateway
	logger  logging.Logger
}

func NewHandler(service chat.Service, gateway *ws.Gateway, logger logging.Logger) *Handler {
	return &Handler{
		service: service,
		gateway: gateway,
		logger:  logger,
	}
}

// JoinRoomHandler godoc
// @Summary      Join a room
// @Description  Joins the room with the given code, creating it on first use. A returning participant that presents its id resumes the same identity.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code    path string          true  "Room code"
// @Param        request body joinRoomRequest false "Join parameters"
// @Success      200 {object} joinRoomResponse "Joined"
// @Failure      400 {object} json.ErrorResponse "invalid_room_code, invalid_display_name"
// @Failure      403 {object} json.ErrorResponse "display_name_required"
// @Failure      409 {object} json.ErrorResponse "room_full"
// @Failure      503 {object} json.ErrorResponse "too_many_rooms"
// @Router       /rooms/{code}/join [post]
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req joinRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	result, err := h.service.JoinRoom(r.Context(), chat.JoinInput{
		Code:          code,
		DisplayName:   req.DisplayName,
		ParticipantID: utils.ParticipantID(r, req.ParticipantID),
		Settings:      req.Settings,
	})
	if err != nil {
		json.WriteDomainError(w, h.logger, err)
		return
	}

	utils.SetParticipantCookie(w, result.State.Code, result.Participant.ID)

	json.Write(w, http.StatusOK, joinRoomResponse{
		Participant:  result.Participant,
		Rejoined:     result.Rejoined,
		Settings:     result.State.Settings,
		Participants: result.State.Participants,
		Messages:     result.State.Messages,
		CreatedAt:    result.State.CreatedAt,
		ServerTime:   result.State.ServerTime,
	})
}

// GetRoomHandler godoc
// @Summary      Get room information
// @Description  Returns the room's settings and live participant count without joining it
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} domain.RoomInfo "Room information"
// @Failure      404 {object} json.ErrorResponse "room_not_found"
// @Router       /rooms/{code} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.RoomInfo(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		json.WriteDomainError(w, h.logger, err)
		return
	}

	json.Write(w, http.StatusOK, info)
}

// LeaveRoomHandler godoc
// @Summary      Leave a room
// @Description  Removes the participant immediately instead of waiting for presence to lapse
// @Tags         rooms
// @Accept       json
// @Param        code    path string           true  "Room code"
// @Param        request body leaveRoomRequest false "Participant leaving"
// @Success      204 "Left the room"
// @Failure      404 {object} json.ErrorResponse "room_not_found, participant_not_found"
// @Router       /rooms/{code}/leave [post]
func (h *Handler) LeaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req leaveRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	participantID := utils.ParticipantID(r, req.ParticipantID)
	if participantID == "" {
		json.WriteDomainError(w, h.logger, domain.ErrParticipantNotFound)
		return
	}

	if err := h.service.Leave(r.Context(), code, participantID); err != nil {
		json.WriteDomainError(w, h.logger, err)
		return
	}

	utils.ClearParticipantCookie(w, code)
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeHandler godoc
// @Summary      Subscribe to room events
// @Description  Upgrades to a WebSocket. The first frame is a room.state snapshot, followed by room events. Clients may send message.send, typing, heartbeat, ack and leave frames.
// @Tags         rooms
// @Param        code          path  string true  "Room code"
// @Param        participantId query string false "Participant id when no header or cookie carries it"
// @Success      101 "Switching Protocols"
// @Failure      404 {object} json.ErrorResponse "room_not_found, participant_not_found"
// @Router       /rooms/{code}/ws [get]
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	participantID := utils.ParticipantID(r, "")
	if participantID == "" {
		json.WriteDomainError(w, h.logger, domain.ErrParticipantNotFound)
		return
	}

	h.gateway.Serve(w, r, chi.URLParam(r, "code"), participantID)
}
