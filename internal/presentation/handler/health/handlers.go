package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/infrastructure/json"
)

type StatsFunc func(ctx context.Context) chat.Stats

type Handler struct {
	stats     StatsFunc
	startTime time.Time
	healthy   atomic.Bool
}

func NewHandler(stats StatsFunc) *Handler {
	h := &Handler{
		stats:     stats,
		startTime: time.Now(),
	}
	h.healthy.Store(true)
	return h
}

// SetHealthy flips the reported status. Shutdown marks the service unhealthy.
func (h *Handler) SetHealthy(ok bool) {
	h.healthy.Store(ok)
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, its uptime and how many rooms and participants are live
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Service is unhealthy"
// @Router       /health [get]
// @Router       /healthz [get]
// @Router       /ready [get]
// @Router       /live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.stats != nil {
		stats := h.stats(r.Context())
		resp.Rooms = stats.Rooms
		resp.Participants = stats.Participants
	}

	if !h.healthy.Load() {
		resp.Status = "unhealthy"
		json.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	json.Write(w, http.StatusOK, resp)
}
