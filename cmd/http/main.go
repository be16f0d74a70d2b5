package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/configs"
	"github.com/hilthontt/burnroom/internal/infrastructure/events"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/hilthontt/burnroom/internal/infrastructure/messaging"
	"github.com/hilthontt/burnroom/internal/infrastructure/metrics"
	"github.com/hilthontt/burnroom/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/burnroom/internal/infrastructure/reaper"
	"github.com/hilthontt/burnroom/internal/infrastructure/repository"
	"github.com/hilthontt/burnroom/internal/infrastructure/tracing"
	"github.com/hilthontt/burnroom/internal/infrastructure/ws"
	"github.com/hilthontt/burnroom/internal/persistence/db"
	persistence "github.com/hilthontt/burnroom/internal/persistence/repository"
	"github.com/hilthontt/burnroom/internal/presentation/api"
	"github.com/hilthontt/burnroom/internal/presentation/handler/audit"
	"github.com/hilthontt/burnroom/internal/presentation/handler/health"
	"github.com/hilthontt/burnroom/internal/presentation/handler/messages"
	"github.com/hilthontt/burnroom/internal/presentation/handler/presence"
	"github.com/hilthontt/burnroom/internal/presentation/handler/rooms"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName = "burnroom-api"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "burnroom: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	cfg, err := configs.Load(configs.DetermineConfigPath(args))
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		FilePath: cfg.Logger.FilePath,
		Encoding: cfg.Logger.Encoding,
		Level:    cfg.Logger.Level,
		Logger:   cfg.Logger.Logger,
	})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Everything opened below is closed here, in reverse order, with errors combined.
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	tracerCfg := tracing.NewDefaultConfig(serviceName)
	tracerCfg.Exporter = cfg.Tracing.Exporter
	tracerCfg.Endpoint = cfg.Tracing.Endpoint
	tracerCfg.Environment = cfg.Tracing.Environment
	tracerCfg.SampleRatio = cfg.Tracing.SampleRatio
	if cfg.Tracing.ServiceName != "" {
		tracerCfg.ServiceName = cfg.Tracing.ServiceName
	}

	shutdownTracer, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize the tracer: %w", err)
	}
	closers = append(closers, func() error { return shutdownTracer(context.Background()) })

	policy := domain.Policy{
		InactiveAfter:        cfg.Presence.InactiveAfter,
		AwayAfter:            cfg.Presence.AwayAfter,
		ExpiryGrace:          cfg.Expiry.Grace,
		MaxMessageLength:     cfg.Messages.MaxLength,
		MaxDisplayNameLength: cfg.Presence.MaxDisplayNameLength,
		MinCodeLength:        cfg.Rooms.MinCodeLength,
		MaxCodeLength:        cfg.Rooms.MaxCodeLength,
	}.WithDefaults()

	registry := repository.NewRoomRegistry(cfg.Rooms.Capacity, policy)

	// Gauges read the service lazily, so it can be assigned after metrics exist.
	var service chat.Service
	m := metrics.New(func(ctx context.Context) chat.Stats {
		return service.Stats(ctx)
	})

	hub := ws.NewHub(logger, m)
	notifiers := chat.Notifiers{hub, m}

	var auditRepo domain.RoomAuditRepository
	if cfg.MongoDB.Enabled {
		mongo, err := db.Connect(ctx, db.MongoConfig{
			URI:      cfg.MongoDB.URI,
			Database: cfg.MongoDB.Database,
		}, logger)
		if err != nil {
			return err
		}
		closers = append(closers, func() error { return mongo.Close(context.Background()) })

		auditRepo = persistence.NewRoomAuditLogRepository(mongo.Database, cfg.MongoDB.AuditTTL)

		indexCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.OpTimeout)
		err = auditRepo.EnsureIndexes(indexCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to create audit indexes: %w", err)
		}
	}

	var (
		rabbitmq  *messaging.RabbitMQ
		publisher *events.RoomPublisher
	)
	if cfg.RabbitMQ.Enabled {
		rabbitmq, err = messaging.NewRabbitMQ(cfg.RabbitMQ.URI)
		if err != nil {
			return err
		}
		closers = append(closers, func() error {
			rabbitmq.Close()
			return nil
		})

		logger.Info(logging.RabbitMQ, logging.Startup, "connected to rabbitmq", nil)
		publisher = events.NewRoomPublisher(rabbitmq, logger)
		notifiers = append(notifiers, publisher)
	} else if auditRepo != nil {
		notifiers = append(notifiers, chat.NewAuditNotifier(auditRepo, logger))
	}

	service = chat.NewService(chat.Options{
		Registry:  registry,
		Notifier:  notifiers,
		Scheduler: chat.RealScheduler(),
		Logger:    logger,
		Tracer:    tracing.GetTracer(serviceName),
		DefaultSettings: domain.RoomSettings{
			HistoryDurationHours: cfg.Rooms.HistoryDurationHours,
			MaxUsers:             cfg.Rooms.MaxUsers,
			AllowAnonymous:       cfg.Rooms.AllowAnonymous,
		},
		IdleTimeout: cfg.Rooms.IdleTimeout,
	})

	var limiter ratelimiter.Limiter
	if cfg.RateLimiter.Enabled {
		var store ratelimiter.BucketStore
		if cfg.RateLimiter.RedisAddr != "" {
			store, err = ratelimiter.NewRedis(ctx, cfg.RateLimiter.RedisAddr, cfg.RateLimiter.RedisPassword, cfg.RateLimiter.RedisDB)
			if err != nil {
				return err
			}
		}

		limiter = ratelimiter.New(ratelimiter.Options{
			MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
			MaxBurst:         cfg.RateLimiter.MaxBurst,
			Store:            store,
			StoreTTL:         cfg.RateLimiter.CacheTTL,
			SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
		})
		closers = append(closers, limiter.Close)
	}

	var auditH *audit.Handler
	if auditRepo != nil {
		auditH = audit.NewHandler(auditRepo, logger)
	}

	app := api.NewApplication(
		*cfg,
		rooms.NewHandler(service, ws.NewGateway(hub, service, logger), logger),
		health.NewHandler(service.Stats),
		messages.NewHandler(service, logger),
		presence.NewHandler(service, logger),
		auditH,
		logger,
		limiter,
		m,
	)

	sweeper := reaper.New(service, m, logger, cfg.Expiry.SweepInterval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return sweeper.Start(gctx) })
	g.Go(func() error { return app.Run(gctx, app.Mount()) })
	if publisher != nil {
		g.Go(func() error { return publisher.Run(gctx) })
	}

	if rabbitmq != nil && auditRepo != nil {
		consumer := events.NewRoomConsumer(rabbitmq, auditRepo, logger)
		if err := consumer.Listen(gctx); err != nil {
			stop()
			return multierr.Append(err, g.Wait())
		}
	}

	return g.Wait()
}
