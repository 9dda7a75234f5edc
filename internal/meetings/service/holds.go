package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	meetingserrors "unimeet/internal/meetings/errors"
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/model"
)

// AcquireHold places a short-lived reservation on one slot. Expired holds on
// the same representative are swept first, so a lapsed hold never blocks a
// new claimant. Re-acquiring an own live hold refreshes its TTL.
func (s *meetingService) AcquireHold(ctx context.Context, req *model.HoldRequest) (*model.Hold, error) {
	now := s.clock.Now()

	if err := s.validator.ValidateHold(req, now); err != nil {
		return nil, apperrors.Validation("Hold request validation failed", map[string]any{"errors": err.Error()})
	}

	if _, err := s.holds.DeleteExpired(ctx, req.RepresentativeID, now); err != nil {
		return nil, apperrors.Internal("Failed to sweep expired holds", err)
	}

	// A slot whose start instant falls inside a committed meeting cannot be
	// held at all. The hold carries no duration, so only the instant is
	// checked; the full window is re-verified at booking time.
	overlapping, err := s.meetings.FindOverlapping(ctx, req.RepresentativeID, req.StartTime, req.StartTime.Add(time.Minute))
	if err != nil {
		return nil, apperrors.Internal("Failed to check committed meetings", err)
	}
	if len(overlapping) > 0 {
		return nil, apperrors.SlotTaken("This slot is already booked")
	}

	hold := &model.Hold{
		ID:               uuid.New().String(),
		RepresentativeID: req.RepresentativeID,
		StartTime:        req.StartTime.UTC(),
		HolderID:         req.HolderID,
		ExpiresAt:        now.Add(s.holdTTL),
		CreatedAt:        now,
	}

	if err := s.holds.Acquire(ctx, hold); err != nil {
		if errors.Is(err, meetingserrors.ErrHoldConflict) {
			return nil, apperrors.HeldByOther("This slot is currently held by another student")
		}
		return nil, apperrors.Internal("Failed to acquire hold", err)
	}

	s.appendAudit(ctx, &model.AuditEntry{
		HoldID:  hold.ID,
		Action:  model.AuditHoldAcquired,
		ActorID: req.HolderID,
		Metadata: map[string]any{
			"representative_id": hold.RepresentativeID,
			"start_time":        hold.StartTime,
			"expires_at":        hold.ExpiresAt,
		},
		CreatedAt: now,
	})

	s.logger.Info("Hold acquired",
		"hold_id", hold.ID,
		"representative_id", hold.RepresentativeID,
		"holder_id", hold.HolderID,
		"expires_at", hold.ExpiresAt,
	)
	return hold, nil
}

// ReleaseHold removes a hold early. Only the holder may release; releasing
// an already-expired or missing hold is not an error for the holder, the
// outcome is the same.
func (s *meetingService) ReleaseHold(ctx context.Context, holdID, holderID string) error {
	hold, err := s.holds.FindByID(ctx, holdID)
	if err != nil {
		if errors.Is(err, meetingserrors.ErrHoldNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to find hold", err)
	}

	if hold.HolderID != holderID {
		return apperrors.Forbidden("Only the holder may release this hold")
	}

	if err := s.holds.Delete(ctx, holdID); err != nil && !errors.Is(err, meetingserrors.ErrHoldNotFound) {
		return apperrors.Internal("Failed to release hold", err)
	}

	s.appendAudit(ctx, &model.AuditEntry{
		HoldID:  holdID,
		Action:  model.AuditHoldReleased,
		ActorID: holderID,
		Metadata: map[string]any{
			"representative_id": hold.RepresentativeID,
			"start_time":        hold.StartTime,
		},
		CreatedAt: s.clock.Now(),
	})

	s.logger.Info("Hold released", "hold_id", holdID, "holder_id", holderID)
	return nil
}
