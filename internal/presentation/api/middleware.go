package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/hilthontt/burnroom/internal/infrastructure/json"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
)

// statusOf is the status the wrapped handler produced. A successful upgrade
// hijacks the connection without WriteHeader and reports 101.
func statusOf(ww middleware.WrapResponseWriter, r *http.Request) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	if websocket.IsWebSocketUpgrade(r) {
		return http.StatusSwitchingProtocols
	}
	return http.StatusOK
}

func (app *Application) rateLimiterMiddleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(app.ratelimiter.GetMaxBurst())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sourceKey := app.ratelimiter.GetSourceKey(r)
		w.Header().Set("X-RateLimit-Limit", limit)

		if !app.ratelimiter.Allow(ctx, sourceKey) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			app.logger.Warn(logging.General, logging.RateLimiting, "rate limit exceeded", map[logging.ExtraKey]any{
				"Source":       sourceKey,
				logging.Path:   r.URL.Path,
				logging.Method: r.Method,
			})
			json.WriteRateLimitError(w, 1)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(app.ratelimiter.Remaining(ctx, sourceKey)))
		next.ServeHTTP(w, r)
	})
}

func (app *Application) originAllowed(origin string) bool {
	allowed := app.config.HTTP.AllowedOrigins
	return len(allowed) == 0 || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

func (app *Application) enableCors(next http.Handler) http.Handler {
	headers := strings.Join(app.config.HTTP.AllowedHeaders, ", ")
	if headers == "" {
		headers = "Content-Type, Authorization, X-Request-ID, X-Participant-ID"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case origin == "":
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case app.originAllowed(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", headers)
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// allow preflight requests from the browser API
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := statusOf(ww, r)
		extra := map[logging.ExtraKey]any{
			logging.Method:     r.Method,
			logging.Path:       r.URL.Path,
			logging.StatusCode: status,
			logging.Latency:    time.Since(start).Milliseconds(),
			logging.ClientIp:   r.RemoteAddr,
			"RequestId":        middleware.GetReqID(r.Context()),
			"Bytes":            ww.BytesWritten(),
		}

		switch {
		case status >= http.StatusInternalServerError:
			app.logger.Error(logging.RequestResponse, logging.ExternalService, "request failed", extra)
		case status >= http.StatusBadRequest:
			app.logger.Warn(logging.RequestResponse, logging.ExternalService, "request rejected", extra)
		default:
			app.logger.Info(logging.RequestResponse, logging.ExternalService, "request completed", extra)
		}
	})
}

func (app *Application) prometheusMiddleware(next http.Handler) http.Handler {
	if app.metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Room codes stay out of the label set.
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		app.metrics.ObserveRequest(r.Method, route, statusOf(ww, r), time.Since(start))
	})
}
