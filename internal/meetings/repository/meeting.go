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

	meetingserrors "unimeet/internal/meetings/errors"
	"unimeet/pkg/config"
	mongotx "unimeet/pkg/db/mongo"
	"unimeet/pkg/model"
)

const (
	MeetingsCollection = "Meetings"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	FindByID(ctx context.Context, id string) (*model.Meeting, error)
	Update(ctx context.Context, id string, meeting *model.Meeting) (*mongo.UpdateResult, error)
	FindOverlapping(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error)
	FindByRepresentativeAndWindow(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error)
	CountActiveOnDay(ctx context.Context, representativeID string, dayStart, dayEnd time.Time) (int64, error)
	FindByStudent(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Meeting, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	FindByRepresentative(ctx context.Context, representativeID string, limit int, offset int64) ([]*model.Meeting, error)
	CountByRepresentative(ctx context.Context, representativeID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoMeetingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoMeetingRepository(cfg *config.Config) MeetingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMeetingRepository{
		cfg:        cfg,
		collection: db.Collection(MeetingsCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoMeetingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, meeting)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		meeting.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", meetingserrors.ErrInvalidID, id)
	}

	var meeting model.Meeting
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&meeting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, meetingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	return &meeting, nil
}

func (r *mongoMeetingRepository) Update(ctx context.Context, id string, meeting *model.Meeting) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", meetingserrors.ErrInvalidID, id)
	}

	meeting.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	// Proposal fields are cleared with $unset when the proposal has been
	// consumed, so "cleared" and "absent" are the same state.
	set := bson.M{
		"status":       meeting.Status,
		"start_time":   meeting.StartTime,
		"end_time":     meeting.EndTime,
		"duration_min": meeting.DurationMin,
		"updated_at":   meeting.UpdatedAt,
	}
	unset := bson.M{}

	if meeting.ProposedStartTime != nil {
		set["proposed_by_role"] = meeting.ProposedByRole
		set["proposed_start_time"] = meeting.ProposedStartTime
		set["reschedule_reason"] = meeting.RescheduleReason
	} else {
		unset["proposed_by_role"] = ""
		unset["proposed_start_time"] = ""
		unset["reschedule_reason"] = ""
	}
	if meeting.MeetingLink != "" {
		set["meeting_link"] = meeting.MeetingLink
	}
	if meeting.MeetingProvider != "" {
		set["meeting_provider"] = meeting.MeetingProvider
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, meetingserrors.ErrNotFound
	}

	return result, nil
}

// FindOverlapping returns active-status meetings whose [start_time, end_time)
// interval overlaps [start, end) for one representative. This is the query
// behind the double-booking invariant.
func (r *mongoMeetingRepository) FindOverlapping(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"representative_id": representativeID,
		"status":            bson.M{"$in": model.ActiveStatuses()},
		"start_time":        bson.M{"$lt": end},
		"end_time":          bson.M{"$gt": start},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping meetings: %w", err)
	}
	defer cursor.Close(ctx)

	var meetings []*model.Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	return meetings, nil
}

// FindByRepresentativeAndWindow returns all meetings for a representative
// inside a window regardless of status; the slot generator filters statuses
// itself.
func (r *mongoMeetingRepository) FindByRepresentativeAndWindow(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"representative_id": representativeID,
		"start_time":        bson.M{"$lt": end},
		"end_time":          bson.M{"$gt": start},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings in window: %w", err)
	}
	defer cursor.Close(ctx)

	var meetings []*model.Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	return meetings, nil
}

func (r *mongoMeetingRepository) CountActiveOnDay(ctx context.Context, representativeID string, dayStart, dayEnd time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"representative_id": representativeID,
		"status":            bson.M{"$in": model.ActiveStatuses()},
		"start_time":        bson.M{"$gte": dayStart, "$lt": dayEnd},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count meetings on day: %w", err)
	}
	return count, nil
}

func (r *mongoMeetingRepository) FindByStudent(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Meeting, error) {
	return r.findBy(ctx, bson.M{"student_id": studentID}, limit, offset)
}

func (r *mongoMeetingRepository) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	return r.countBy(ctx, bson.M{"student_id": studentID})
}

func (r *mongoMeetingRepository) FindByRepresentative(ctx context.Context, representativeID string, limit int, offset int64) ([]*model.Meeting, error) {
	return r.findBy(ctx, bson.M{"representative_id": representativeID}, limit, offset)
}

func (r *mongoMeetingRepository) CountByRepresentative(ctx context.Context, representativeID string) (int64, error) {
	return r.countBy(ctx, bson.M{"representative_id": representativeID})
}

func (r *mongoMeetingRepository) findBy(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Meeting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings: %w", err)
	}
	defer cursor.Close(ctx)

	var meetings []*model.Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	return meetings, nil
}

func (r *mongoMeetingRepository) countBy(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	return count, nil
}

func (r *mongoMeetingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
