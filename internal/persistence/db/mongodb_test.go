package db

import (
	"context"
	"testing"
	"time"

	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
)

func TestConnect_RequiresURI(t *testing.T) {
	m, err := Connect(context.Background(), MongoConfig{}, logging.NewNop())
	assert.ErrorIs(t, err, ErrMissingURI)
	assert.Nil(t, m)
}

func TestMongoConfig_Defaults(t *testing.T) {
	cfg := MongoConfig{URI: "mongodb://localhost:27017"}.withDefaults()
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, "burnroom", cfg.AppName)
	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)

	cfg = MongoConfig{Database: "audit", ConnectTimeout: time.Second}.withDefaults()
	assert.Equal(t, "audit", cfg.Database)
	assert.Equal(t, time.Second, cfg.ConnectTimeout)
}

func TestMongo_CloseNil(t *testing.T) {
	var m *Mongo
	assert.NoError(t, m.Close(context.Background()))
}
