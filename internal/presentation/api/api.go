package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hilthontt/burnroom/internal/infrastructure/configs"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/hilthontt/burnroom/internal/infrastructure/metrics"
	"github.com/hilthontt/burnroom/internal/infrastructure/ratelimiter"
	auditHandler "github.com/hilthontt/burnroom/internal/presentation/handler/audit"
	healthHandler "github.com/hilthontt/burnroom/internal/presentation/handler/health"
	messagesHandler "github.com/hilthontt/burnroom/internal/presentation/handler/messages"
	presenceHandler "github.com/hilthontt/burnroom/internal/presentation/handler/presence"
	roomHandler "github.com/hilthontt/burnroom/internal/presentation/handler/rooms"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/hilthontt/burnroom/docs"
)

const (
	shutdownTimeout       = 5 * time.Second
	defaultRequestTimeout = 60 * time.Second
)

type Application struct {
	config          configs.Config
	roomHandler     *roomHandler.Handler
	healthHandler   *healthHandler.Handler
	messagesHandler *messagesHandler.Handler
	presenceHandler *presenceHandler.Handler
	auditHandler    *auditHandler.Handler
	logger          logging.Logger
	ratelimiter     ratelimiter.Limiter
	metrics         *metrics.Metrics
}

func NewApplication(
	config configs.Config,
	roomHandler *roomHandler.Handler,
	healthHandler *healthHandler.Handler,
	messagesHandler *messagesHandler.Handler,
	presenceHandler *presenceHandler.Handler,
	auditHandler *auditHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
	metrics *metrics.Metrics,
) *Application {
	return &Application{
		config:          config,
		roomHandler:     roomHandler,
		healthHandler:   healthHandler,
		messagesHandler: messagesHandler,
		presenceHandler: presenceHandler,
		auditHandler:    auditHandler,
		logger:          logger,
		ratelimiter:     ratelimiter,
		metrics:         metrics,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(app.prometheusMiddleware)
	r.Use(app.enableCors)

	if app.ratelimiter != nil {
		r.Use(app.rateLimiterMiddleware)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms/{code}", func(r chi.Router) {
			// The socket outlives any request deadline.
			r.Get("/ws", app.roomHandler.SubscribeHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(app.requestTimeout()))

				r.Get("/", app.roomHandler.GetRoomHandler)
				r.Post("/join", app.roomHandler.JoinRoomHandler)
				r.Post("/leave", app.roomHandler.LeaveRoomHandler)

				r.Post("/messages", app.messagesHandler.SendMessageHandler)

				r.Post("/poll", app.presenceHandler.PollHandler)
				r.Get("/poll", app.presenceHandler.PeekHandler)
				r.Post("/heartbeat", app.presenceHandler.HeartbeatHandler)
				r.Post("/typing", app.presenceHandler.TypingHandler)

				// Only mounted when an audit store is configured.
				if app.auditHandler != nil {
					r.Get("/audit", app.auditHandler.GetAuditLogHandler)
				}
			})
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	if app.metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return otelhttp.NewHandler(r, "burnroom.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func (app *Application) requestTimeout() time.Duration {
	if app.config.HTTP.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return app.config.HTTP.RequestTimeout
}

// Run serves mux until ctx is cancelled, then shuts the server down gracefully.
func (app *Application) Run(ctx context.Context, mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		app.healthHandler.SetHealthy(false)
		app.logger.Info(logging.General, logging.Shutdown, "server is shutting down", map[logging.ExtraKey]any{
			"addr": srv.Addr,
		})

		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
