package service

import (
	"context"
	"errors"
	"time"

	availabilityrepo "unimeet/internal/availability/repository"
	meetingserrors "unimeet/internal/meetings/errors"
	"unimeet/internal/meetings/notifier"
	"unimeet/internal/meetings/repository"
	"unimeet/internal/meetings/validator"
	"unimeet/pkg/clock"
	"unimeet/pkg/config"
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

type MeetingService interface {
	GetSlots(ctx context.Context, query SlotQuery) ([]model.CandidateSlot, error)

	AcquireHold(ctx context.Context, req *model.HoldRequest) (*model.Hold, error)
	ReleaseHold(ctx context.Context, holdID, holderID string) error

	Book(ctx context.Context, req *model.BookingRequest) (*model.Meeting, error)

	Transition(ctx context.Context, meetingID string, req *model.TransitionRequest) (*model.Meeting, error)
	ProposeReschedule(ctx context.Context, meetingID string, req *model.RescheduleRequest) (*model.Meeting, error)
	SendReminder(ctx context.Context, meetingID string) error

	Get(ctx context.Context, id string) (*model.Meeting, error)
	ListByStudent(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Meeting, int64, error)
	ListByRepresentative(ctx context.Context, representativeID string, limit int, offset int64) ([]*model.Meeting, int64, error)
	AuditTrail(ctx context.Context, meetingID string) ([]*model.AuditEntry, error)
}

// SlotQuery describes one slot-discovery request: all bookable start times on
// a calendar date, for one duration. Exactly one of RepresentativeID and
// InstitutionID must be set; an institution query spans every representative
// with an active rule there.
type SlotQuery struct {
	RepresentativeID string
	InstitutionID    string
	Date             time.Time
	DurationMin      int
	DegreeLevel      string
	Country          string
}

type meetingService struct {
	meetings     repository.MeetingRepository
	holds        repository.HoldRepository
	audit        repository.AuditRepository
	availability availabilityrepo.AvailabilityRepository
	validator    *validator.MeetingValidator
	notifier     notifier.Notifier
	clock        clock.Clock
	holdTTL      time.Duration
	logger       *logger.Logger
}

func NewMeetingService(
	cfg *config.Config,
	meetings repository.MeetingRepository,
	holds repository.HoldRepository,
	audit repository.AuditRepository,
	availability availabilityrepo.AvailabilityRepository,
	n notifier.Notifier,
	clk clock.Clock,
) MeetingService {
	return &meetingService{
		meetings:     meetings,
		holds:        holds,
		audit:        audit,
		availability: availability,
		validator:    validator.NewMeetingValidator(cfg.Log),
		notifier:     n,
		clock:        clk,
		holdTTL:      cfg.HoldTTL,
		logger:       cfg.Log,
	}
}

// appendAudit writes a trail entry and logs on failure. Audit writes outside
// a transaction never fail the caller's operation.
func (s *meetingService) appendAudit(ctx context.Context, entry *model.AuditEntry) {
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to append audit entry",
			"action", entry.Action,
			"meeting_id", entry.MeetingID,
			"error", err,
		)
	}
}

// activeRules loads the representative's availability rules used by slot
// generation and booking admission.
func (s *meetingService) activeRules(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error) {
	rules, err := s.availability.FindByRepresentative(ctx, representativeID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load availability rules", err)
	}
	return rules, nil
}

func (s *meetingService) mapMeetingRepoError(err error, id string) error {
	switch {
	case errors.Is(err, meetingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Meeting", id)
	case errors.Is(err, meetingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid meeting ID format")
	default:
		return apperrors.Internal("Meeting repository operation failed", err)
	}
}
