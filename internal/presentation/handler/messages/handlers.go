package messages

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

// SendMessageHandler godoc
// @Summary      Send a message
// @Description  Posts a message that is destroyed once every active participant has seen it
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        code    path string             true "Room code"
// @Param        request body sendMessageRequest true "Message"
// @Success      201 {object} domain.MessageView "Message stored"
// @Failure      400 {object} json.ErrorResponse "empty_or_too_long"
// @Failure      404 {object} json.ErrorResponse "room_not_found, participant_not_found"
// @Router       /rooms/{code}/messages [post]
func (h *Handler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	participantID := utils.ParticipantID(r, req.ParticipantID)
	if participantID == "" {
		json.WriteDomainError(w, h.logger, domain.ErrParticipantNotFound)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), chi.URLParam(r, "code"), participantID, req.Text)
	if err != nil {
		json.WriteDomainError(w, h.logger, err)
		return
	}

	json.Write(w, http.StatusCreated, msg)
}
