package sdk

import (
	"context"
	"net/http"
)

type HealthService struct {
	Options []RequestOption
}

type HealthCheckResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Uptime       string `json:"uptime"`
	Rooms        int    `json:"rooms"`
	Participants int    `json:"participants"`
}

// Check returns an *APIError with status 503 while the server drains.
func (h *HealthService) Check(ctx context.Context, opts ...RequestOption) (*HealthCheckResponse, error) {
	res := &HealthCheckResponse{}
	opts = append(h.Options[:len(h.Options):len(h.Options)], opts...)
	if err := execute(ctx, http.MethodGet, "/api/health", nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}
