package repository

import (
	"context"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultAuditTTL = 90 * 24 * time.Hour

type roomAuditLogRepository struct {
	db  *mongo.Database
	ttl time.Duration
}

// NewRoomAuditLogRepository stores audit logs in MongoDB. Entries expire
// after ttl through a TTL index created by EnsureIndexes.
func NewRoomAuditLogRepository(database *mongo.Database, ttl time.Duration) domain.RoomAuditRepository {
	if ttl <= 0 {
		ttl = DefaultAuditTTL
	}
	return &roomAuditLogRepository{
		db:  database,
		ttl: ttl,
	}
}

func (r *roomAuditLogRepository) GetByRoomCode(ctx context.Context, roomCode string, limit int) ([]domain.RoomAuditLog, error) {
	filter := bson.M{"room_code": roomCode}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	return r.find(ctx, filter, opts)
}

func (r *roomAuditLogRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.RoomAuditLog, error) {
	collection := r.db.Collection(db.RoomAuditLogsCollection)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.RoomAuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *roomAuditLogRepository) Log(ctx context.Context, log *domain.RoomAuditLog) error {
	collection := r.db.Collection(db.RoomAuditLogsCollection)

	_, err := collection.InsertOne(ctx, log)
	return err
}

func (r *roomAuditLogRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.RoomAuditLogsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_code", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(r.ttl.Seconds())),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
