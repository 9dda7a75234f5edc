package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	meetingserrors "unimeet/internal/meetings/errors"
	"unimeet/pkg/config"
	"unimeet/pkg/model"
)

const (
	HoldsCollection = "Holds"
)

type HoldRepository interface {
	Acquire(ctx context.Context, hold *model.Hold) error
	FindByID(ctx context.Context, id string) (*model.Hold, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, representativeID string, now time.Time) (int64, error)
	FindByRepresentativeAndWindow(ctx context.Context, representativeID string, start, end time.Time, now time.Time) ([]*model.Hold, error)
}

type mongoHoldRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHoldRepository(cfg *config.Config) HoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldRepository{
		cfg:        cfg,
		collection: db.Collection(HoldsCollection),
	}
}

func (r *mongoHoldRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Acquire upserts a hold keyed by (representative, start time, holder). The
// unique index on (representative_id, start_time) makes the upsert fail with
// a duplicate key error when a different holder owns the slot; the same
// holder re-acquiring simply refreshes expires_at.
func (r *mongoHoldRepository) Acquire(ctx context.Context, hold *model.Hold) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"representative_id": hold.RepresentativeID,
		"start_time":        hold.StartTime,
		"holder_id":         hold.HolderID,
	}
	update := bson.M{
		"$set": bson.M{
			"expires_at": hold.ExpiresAt,
		},
		"$setOnInsert": bson.M{
			"_id":               hold.ID,
			"representative_id": hold.RepresentativeID,
			"start_time":        hold.StartTime,
			"holder_id":         hold.HolderID,
			"created_at":        hold.CreatedAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return meetingserrors.ErrHoldConflict
		}
		return fmt.Errorf("failed to acquire hold: %w", err)
	}
	return nil
}

func (r *mongoHoldRepository) FindByID(ctx context.Context, id string) (*model.Hold, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var hold model.Hold
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&hold)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, meetingserrors.ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to find hold: %w", err)
	}

	return &hold, nil
}

func (r *mongoHoldRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete hold: %w", err)
	}
	if result.DeletedCount == 0 {
		return meetingserrors.ErrHoldNotFound
	}
	return nil
}

// DeleteExpired sweeps lapsed holds for one representative. Expiry is lazy:
// the sweep runs before hold acquisition and slot evaluation rather than on
// a background timer.
func (r *mongoHoldRepository) DeleteExpired(ctx context.Context, representativeID string, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"representative_id": representativeID,
		"expires_at":        bson.M{"$lte": now},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired holds: %w", err)
	}
	return result.DeletedCount, nil
}

// FindByRepresentativeAndWindow returns the unexpired holds whose start time
// falls inside [start, end).
func (r *mongoHoldRepository) FindByRepresentativeAndWindow(ctx context.Context, representativeID string, start, end time.Time, now time.Time) ([]*model.Hold, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"representative_id": representativeID,
		"start_time":        bson.M{"$gte": start, "$lt": end},
		"expires_at":        bson.M{"$gt": now},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find holds: %w", err)
	}
	defer cursor.Close(ctx)

	var holds []*model.Hold
	if err = cursor.All(ctx, &holds); err != nil {
		return nil, fmt.Errorf("failed to decode holds: %w", err)
	}

	return holds, nil
}
