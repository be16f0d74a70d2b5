package sdk

import (
	"log"
	"net/http"
	"net/http/httputil"
	"regexp"
	"strings"
	"time"
)

type MiddlewareNext = func(*http.Request) (*http.Response, error)
type Middleware = func(*http.Request, MiddlewareNext) (*http.Response, error)

type requestConfig struct {
	baseURL       string
	httpClient    *http.Client
	participantID string
	middlewares   []Middleware
	headers       http.Header
}

type RequestOption func(*requestConfig)

func newRequestConfig(opts []RequestOption) *requestConfig {
	cfg := &requestConfig{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		headers:    http.Header{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithBaseURL(base string) RequestOption {
	return func(c *requestConfig) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

func WithHTTPClient(client *http.Client) RequestOption {
	return func(c *requestConfig) {
		c.httpClient = client
	}
}

// WithParticipantID sends id as the caller's identity on every request.
func WithParticipantID(id string) RequestOption {
	return func(c *requestConfig) {
		c.participantID = id
	}
}

func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		c.headers.Set(key, value)
	}
}

func WithMiddleware(middlewares ...Middleware) RequestOption {
	return func(c *requestConfig) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

var sensitiveHeaderRegex = regexp.MustCompile(`(?im)^(Authorization|Cookie|Set-Cookie|X-Participant-Id): .+`)

func redactSensitiveHeaders(s string) string {
	return sensitiveHeaderRegex.ReplaceAllString(s, "$1: [REDACTED]")
}

func WithDebugLog(logger *log.Logger) RequestOption {
	if logger == nil {
		logger = log.Default()
	}

	return WithMiddleware(func(r *http.Request, next MiddlewareNext) (*http.Response, error) {
		if dump, err := httputil.DumpRequestOut(r, true); err == nil {
			logger.Printf("REQUEST:\n%s\n", redactSensitiveHeaders(string(dump)))
		}

		resp, err := next(r)

		if resp != nil {
			if dump, err := httputil.DumpResponse(resp, true); err == nil {
				logger.Printf("RESPONSE:\n%s\n", redactSensitiveHeaders(string(dump)))
			}
		}

		if err != nil {
			logger.Printf("REQUEST ERROR: %v", err)
		}

		return resp, err
	})
}
