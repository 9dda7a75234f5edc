package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"unimeet/internal/meetings/lifecycle"
	"unimeet/internal/meetings/notifier"
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/model"
	"unimeet/pkg/sanitizer"
)

// Transition moves a meeting to a new status. The lifecycle table decides
// legality, the actor's role decides permission, and the status change plus
// its audit entry commit in one transaction. Confirming a reschedule
// proposal also adopts the proposed time and clears the proposal fields.
func (s *meetingService) Transition(ctx context.Context, meetingID string, req *model.TransitionRequest) (*model.Meeting, error) {
	if err := s.validator.ValidateTransition(req); err != nil {
		return nil, apperrors.Validation("Transition request validation failed", map[string]any{"errors": err.Error()})
	}

	var updated *model.Meeting

	err := s.meetings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		meeting, err := s.meetings.FindByID(sessCtx, meetingID)
		if err != nil {
			return s.mapMeetingRepoError(err, meetingID)
		}

		if err := lifecycle.Guard(meeting.Status, req.TargetStatus); err != nil {
			return err
		}
		if err := lifecycle.Authorize(meeting, req.ActorID, req.ActorRole, req.TargetStatus); err != nil {
			return err
		}

		oldStatus := meeting.Status
		meeting.Status = req.TargetStatus

		// Confirming a proposal consumes it: the meeting moves to the
		// proposed time and the proposal fields go away. The old time
		// survives only in the audit trail.
		if oldStatus == model.StatusRescheduleProposed && req.TargetStatus == model.StatusConfirmed && meeting.ProposedStartTime != nil {
			duration := time.Duration(meeting.DurationMin) * time.Minute
			meeting.StartTime = meeting.ProposedStartTime.UTC()
			meeting.EndTime = meeting.StartTime.Add(duration)
			meeting.ProposedByRole = ""
			meeting.ProposedStartTime = nil
			meeting.RescheduleReason = ""
		}

		// Confirmation is where the representative attaches the call
		// details, if any.
		if req.TargetStatus == model.StatusConfirmed {
			if link, ok := req.Metadata["meeting_link"].(string); ok && link != "" {
				meeting.MeetingLink = sanitizer.NormalizeURL(link)
			}
			if provider, ok := req.Metadata["meeting_provider"].(string); ok && provider != "" {
				meeting.MeetingProvider = sanitizer.SanitizeLabel(provider)
			}
		}

		if _, err := s.meetings.Update(sessCtx, meetingID, meeting); err != nil {
			return s.mapMeetingRepoError(err, meetingID)
		}

		if err := s.audit.Append(sessCtx, &model.AuditEntry{
			MeetingID: meetingID,
			Action:    model.AuditStatusChanged,
			OldStatus: oldStatus,
			NewStatus: meeting.Status,
			ActorID:   req.ActorID,
			Metadata:  req.Metadata,
			CreatedAt: s.clock.Now(),
		}); err != nil {
			return apperrors.Internal("Failed to record transition audit entry", err)
		}

		updated = meeting
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Transition transaction failed", err)
	}

	notifier.ForStatus(ctx, s.notifier, updated)

	s.logger.Info("Meeting transitioned",
		"meeting_id", meetingID,
		"target_status", updated.Status,
		"actor_id", req.ActorID,
	)
	return updated, nil
}

// ProposeReschedule records a new proposed start time on a pending or
// confirmed meeting and moves it to reschedule_proposed. The original slot
// stays occupied until the proposal is resolved.
func (s *meetingService) ProposeReschedule(ctx context.Context, meetingID string, req *model.RescheduleRequest) (*model.Meeting, error) {
	now := s.clock.Now()

	if err := s.validator.ValidateReschedule(req, now); err != nil {
		return nil, apperrors.Validation("Reschedule request validation failed", map[string]any{"errors": err.Error()})
	}

	req.Reason = sanitizer.SanitizeFreeText(req.Reason)

	var updated *model.Meeting

	err := s.meetings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		meeting, err := s.meetings.FindByID(sessCtx, meetingID)
		if err != nil {
			return s.mapMeetingRepoError(err, meetingID)
		}

		if !lifecycle.CanPropose(meeting.Status) {
			return apperrors.InvalidTransition(string(meeting.Status), string(model.StatusRescheduleProposed))
		}
		if err := lifecycle.AuthorizeReschedule(meeting, req.ActorID, req.ActorRole); err != nil {
			return err
		}

		proposed := req.NewStartTime.UTC()
		proposedEnd := proposed.Add(time.Duration(meeting.DurationMin) * time.Minute)

		overlapping, err := s.meetings.FindOverlapping(sessCtx, meeting.RepresentativeID, proposed, proposedEnd)
		if err != nil {
			return apperrors.Internal("Failed to verify proposed slot", err)
		}
		for _, m := range overlapping {
			if m.ID != meeting.ID {
				return apperrors.SlotTaken("The proposed time overlaps another meeting")
			}
		}

		oldStatus := meeting.Status
		meeting.Status = model.StatusRescheduleProposed
		meeting.ProposedByRole = req.ActorRole
		meeting.ProposedStartTime = &proposed
		meeting.RescheduleReason = req.Reason

		if _, err := s.meetings.Update(sessCtx, meetingID, meeting); err != nil {
			return s.mapMeetingRepoError(err, meetingID)
		}

		if err := s.audit.Append(sessCtx, &model.AuditEntry{
			MeetingID: meetingID,
			Action:    model.AuditRescheduleProposed,
			OldStatus: oldStatus,
			NewStatus: meeting.Status,
			ActorID:   req.ActorID,
			Metadata: map[string]any{
				"proposed_start_time": proposed,
				"reason":              req.Reason,
			},
			CreatedAt: now,
		}); err != nil {
			return apperrors.Internal("Failed to record reschedule audit entry", err)
		}

		updated = meeting
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Reschedule transaction failed", err)
	}

	s.notifier.RescheduleProposed(ctx, updated)

	s.logger.Info("Reschedule proposed",
		"meeting_id", meetingID,
		"proposed_start_time", req.NewStartTime,
		"actor_id", req.ActorID,
	)
	return updated, nil
}

// SendReminder emits a reminder event for an upcoming confirmed meeting.
// Scheduling is external; this is the delivery endpoint a cron job calls.
func (s *meetingService) SendReminder(ctx context.Context, meetingID string) error {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return s.mapMeetingRepoError(err, meetingID)
	}

	if meeting.Status != model.StatusConfirmed {
		return apperrors.Conflict("Reminders are only sent for confirmed meetings")
	}

	s.notifier.ReminderDue(ctx, meeting)

	s.appendAudit(ctx, &model.AuditEntry{
		MeetingID: meetingID,
		Action:    model.AuditReminderSent,
		ActorID:   "system",
		CreatedAt: s.clock.Now(),
	})

	s.logger.Info("Reminder sent", "meeting_id", meetingID, "start_time", meeting.StartTime)
	return nil
}
