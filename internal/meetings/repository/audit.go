package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unimeet/pkg/config"
	"unimeet/pkg/model"
)

const (
	AuditCollection = "AuditTrail"
)

type AuditRepository interface {
	Append(ctx context.Context, entry *model.AuditEntry) error
	FindByMeeting(ctx context.Context, meetingID string) ([]*model.AuditEntry, error)
}

type mongoAuditRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAuditRepository(cfg *config.Config) AuditRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAuditRepository{
		cfg:        cfg,
		collection: db.Collection(AuditCollection),
	}
}

func (r *mongoAuditRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Append writes one immutable trail entry. Entries are never updated or
// deleted; the collection has no update path at all.
func (r *mongoAuditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAuditRepository) FindByMeeting(ctx context.Context, meetingID string) ([]*model.AuditEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"meeting_id": meetingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.AuditEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	return entries, nil
}
