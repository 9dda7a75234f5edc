package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availabilityerrors "unimeet/internal/availability/errors"
	"unimeet/pkg/config"
	"unimeet/pkg/model"
)

const (
	AvailabilityCollection = "AvailabilityRules"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, rule *model.AvailabilityRule) error
	FindByID(ctx context.Context, id string) (*model.AvailabilityRule, error)
	Update(ctx context.Context, id string, rule *model.AvailabilityRule) error
	Delete(ctx context.Context, id string) error
	FindByRepresentative(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error)
	FindByInstitution(ctx context.Context, institutionID string) ([]*model.AvailabilityRule, error)
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(AvailabilityCollection),
	}
}

func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAvailabilityRepository) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	rule.CreatedAt = now
	rule.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to create availability rule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rule.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	var rule model.AvailabilityRule
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availabilityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability rule: %w", err)
	}

	return &rule, nil
}

func (r *mongoAvailabilityRepository) Update(ctx context.Context, id string, rule *model.AvailabilityRule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	rule.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{"$set": bson.M{
		"weekday":             rule.Weekday,
		"start_of_day":        rule.StartOfDay,
		"end_of_day":          rule.EndOfDay,
		"durations_min":       rule.DurationsMin,
		"buffer_min":          rule.BufferMin,
		"min_lead_time_hours": rule.MinLeadTimeHours,
		"daily_cap":           rule.DailyCap,
		"degree_levels":       rule.DegreeLevels,
		"countries":           rule.Countries,
		"blackout_dates":      rule.BlackoutDates,
		"auto_confirm":        rule.AutoConfirm,
		"active":              rule.Active,
		"updated_at":          rule.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update availability rule: %w", err)
	}
	if result.MatchedCount == 0 {
		return availabilityerrors.ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete availability rule: %w", err)
	}
	if result.DeletedCount == 0 {
		return availabilityerrors.ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindByRepresentative(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error) {
	return r.findBy(ctx, bson.M{"representative_id": representativeID, "active": true})
}

func (r *mongoAvailabilityRepository) FindByInstitution(ctx context.Context, institutionID string) ([]*model.AvailabilityRule, error) {
	return r.findBy(ctx, bson.M{"institution_id": institutionID, "active": true})
}

func (r *mongoAvailabilityRepository) findBy(ctx context.Context, filter bson.M) ([]*model.AvailabilityRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "representative_id", Value: 1},
		{Key: "weekday", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []*model.AvailabilityRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode availability rules: %w", err)
	}

	return rules, nil
}
