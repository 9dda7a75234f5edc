package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	meetingserrors "unimeet/internal/meetings/errors"
	"unimeet/internal/meetings/slotgen"
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/model"
	"unimeet/pkg/sanitizer"
)

// Book creates a meeting for one (student, representative, slot) request.
//
// Admission runs outside the transaction: the request must match an active
// availability rule, honor its lead time and daily cap, and not collide with
// a live hold owned by someone else. The double-booking re-check and the
// meeting insert then run inside one transaction, so two concurrent requests
// for the same slot cannot both commit.
func (s *meetingService) Book(ctx context.Context, req *model.BookingRequest) (*model.Meeting, error) {
	now := s.clock.Now()

	if err := s.validator.ValidateBooking(req, now); err != nil {
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{"errors": err.Error()})
	}

	req.Purpose = sanitizer.SanitizeFreeText(req.Purpose)

	rules, err := s.activeRules(ctx, req.RepresentativeID)
	if err != nil {
		return nil, err
	}

	rule := slotgen.MatchRule(rules, req.StartTime, req.DurationMin)
	if rule == nil {
		return nil, apperrors.NoRepresentative("No availability covers the requested time")
	}

	leadHorizon := now.Add(time.Duration(rule.MinLeadTimeHours) * time.Hour)
	if req.StartTime.Before(leadHorizon) {
		return nil, apperrors.Validation("Requested time violates the minimum lead time", map[string]any{
			"min_lead_time_hours": rule.MinLeadTimeHours,
		})
	}

	if err := s.checkHold(ctx, req, now); err != nil {
		return nil, err
	}

	if err := s.checkDailyCap(ctx, req, rule); err != nil {
		return nil, err
	}

	start := req.StartTime.UTC()
	end := start.Add(time.Duration(req.DurationMin) * time.Minute)

	status := model.StatusPending
	if rule.AutoConfirm {
		status = model.StatusConfirmed
	}

	meeting := &model.Meeting{
		Code:             generateMeetingCode(),
		StudentID:        req.StudentID,
		RepresentativeID: req.RepresentativeID,
		InstitutionID:    rule.InstitutionID,
		Purpose:          req.Purpose,
		StartTime:        start,
		EndTime:          end,
		DurationMin:      req.DurationMin,
		Status:           status,
	}

	err = s.meetings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.meetings.FindOverlapping(sessCtx, req.RepresentativeID, start, end)
		if err != nil {
			return apperrors.Internal("Failed to verify slot availability", err)
		}
		if len(overlapping) > 0 {
			return apperrors.SlotTaken("This slot was booked by someone else")
		}

		if err := s.meetings.Create(sessCtx, meeting); err != nil {
			return apperrors.Internal("Failed to create meeting", err)
		}

		if err := s.audit.Append(sessCtx, &model.AuditEntry{
			MeetingID: meeting.ID,
			Action:    model.AuditCreated,
			NewStatus: meeting.Status,
			ActorID:   req.StudentID,
			Metadata: map[string]any{
				"representative_id": meeting.RepresentativeID,
				"start_time":        meeting.StartTime,
				"duration_min":      meeting.DurationMin,
			},
			CreatedAt: now,
		}); err != nil {
			return apperrors.Internal("Failed to record booking audit entry", err)
		}

		// The consumed hold dies with the booking in the same transaction.
		if req.HoldID != "" {
			if err := s.holds.Delete(sessCtx, req.HoldID); err != nil && !errors.Is(err, meetingserrors.ErrHoldNotFound) {
				return apperrors.Internal("Failed to consume hold", err)
			}
		}

		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Booking transaction failed", err)
	}

	s.notifier.MeetingCreated(ctx, meeting)
	if meeting.Status == model.StatusConfirmed {
		s.notifier.MeetingConfirmed(ctx, meeting)
	}

	s.logger.Info("Meeting booked",
		"meeting_id", meeting.ID,
		"code", meeting.Code,
		"student_id", meeting.StudentID,
		"representative_id", meeting.RepresentativeID,
		"status", meeting.Status,
	)
	return meeting, nil
}

// checkHold enforces hold semantics ahead of booking. A live hold owned by
// another student blocks the request; the caller's own hold (or an expired
// or missing one) does not.
func (s *meetingService) checkHold(ctx context.Context, req *model.BookingRequest, now time.Time) error {
	if req.HoldID != "" {
		hold, err := s.holds.FindByID(ctx, req.HoldID)
		switch {
		case errors.Is(err, meetingserrors.ErrHoldNotFound):
			// Expired and swept, or never existed. Booking proceeds on a
			// first-come basis.
		case err != nil:
			return apperrors.Internal("Failed to verify hold", err)
		case hold.Expired(now):
			// A lapsed hold grants nothing but blocks nothing either.
		case hold.HolderID != req.StudentID:
			return apperrors.Forbidden("Hold belongs to another student")
		case hold.RepresentativeID != req.RepresentativeID || !hold.StartTime.Equal(req.StartTime.UTC()):
			return apperrors.InvalidInput("Hold does not match the requested slot")
		}
	}

	holds, err := s.holds.FindByRepresentativeAndWindow(ctx, req.RepresentativeID, req.StartTime.UTC(), req.StartTime.UTC().Add(time.Minute), now)
	if err != nil {
		return apperrors.Internal("Failed to check live holds", err)
	}
	for _, h := range holds {
		if h.HolderID != req.StudentID {
			return apperrors.HeldByOther("This slot is currently held by another student")
		}
	}
	return nil
}

func (s *meetingService) checkDailyCap(ctx context.Context, req *model.BookingRequest, rule *model.AvailabilityRule) error {
	if rule.DailyCap <= 0 {
		return nil
	}

	start := req.StartTime.UTC()
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	count, err := s.meetings.CountActiveOnDay(ctx, req.RepresentativeID, dayStart, dayEnd)
	if err != nil {
		return apperrors.Internal("Failed to check daily cap", err)
	}
	if count >= int64(rule.DailyCap) {
		return apperrors.Conflict("The representative has reached the daily meeting cap")
	}
	return nil
}

// generateMeetingCode returns a short human-readable reference like
// "MTG-5F3A9C2B01DE".
func generateMeetingCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "MTG-" + id[:12]
}
