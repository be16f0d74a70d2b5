package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	RoomAuditLogsCollection = "room_audit_logs"

	DefaultDatabase       = "burnroom"
	DefaultConnectTimeout = 20 * time.Second
	disconnectTimeout     = 10 * time.Second
)

var ErrMissingURI = errors.New("mongodb uri is required")

type MongoConfig struct {
	URI            string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
}

func (c MongoConfig) withDefaults() MongoConfig {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.AppName == "" {
		c.AppName = "burnroom"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	return c
}

// Mongo is a connected client bound to the audit database.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect dials and pings the primary. The client is disconnected again if
// the ping fails.
func Connect(ctx context.Context, cfg MongoConfig, logger logging.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, ErrMissingURI
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(cfg.AppName).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info(logging.MongoDB, logging.Startup, "connected to mongodb", map[logging.ExtraKey]any{
		"Database": cfg.Database,
	})

	return &Mongo{Client: client, Database: client.Database(cfg.Database)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, disconnectTimeout)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
