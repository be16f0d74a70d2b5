package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	BaseURLEnvKey  = "BURNROOM_BASE_URL"

	headerParticipantID = "X-Participant-ID"
)

type Client struct {
	Options  []RequestOption
	Room     *RoomService
	Message  *MessageService
	Presence *PresenceService
	Health   *HealthService
}

func DefaultClientOptions() []RequestOption {
	var defaults []RequestOption
	if o, ok := os.LookupEnv(BaseURLEnvKey); ok {
		defaults = append(defaults, WithBaseURL(o))
	}
	return defaults
}

func NewClient(opts ...RequestOption) *Client {
	opts = append(DefaultClientOptions(), opts...)

	return &Client{
		Options:  opts,
		Room:     &RoomService{opts},
		Message:  &MessageService{opts},
		Presence: &PresenceService{opts},
		Health:   &HealthService{opts},
	}
}

func roomPath(code string, parts ...string) string {
	p := "/api/rooms/" + url.PathEscape(code)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// execute sends body as JSON and decodes a 2xx response into res when res is non-nil.
func execute(ctx context.Context, method, path string, body, res any, opts []RequestOption) error {
	cfg := newRequestConfig(opts)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cfg.participantID != "" {
		req.Header.Set(headerParticipantID, cfg.participantID)
	}
	for k, vv := range cfg.headers {
		req.Header.Del(k)
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	send := cfg.httpClient.Do
	for _, mw := range slices.Backward(cfg.middlewares) {
		next := send
		send = func(r *http.Request) (*http.Response, error) {
			return mw(r, next)
		}
	}

	resp, err := send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if res == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(res)
}
