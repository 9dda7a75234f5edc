package service

import (
	"context"

	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/model"
)

func (s *meetingService) Get(ctx context.Context, id string) (*model.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapMeetingRepoError(err, id)
	}
	return meeting, nil
}

func (s *meetingService) ListByStudent(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Meeting, int64, error) {
	type countResult struct {
		count int64
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		count, err := s.meetings.CountByStudent(ctx, studentID)
		countCh <- countResult{count, err}
	}()

	meetings, err := s.meetings.FindByStudent(ctx, studentID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list meetings", err)
	}

	cr := <-countCh
	if cr.err != nil {
		return nil, 0, apperrors.Internal("Failed to count meetings", cr.err)
	}

	return meetings, cr.count, nil
}

func (s *meetingService) ListByRepresentative(ctx context.Context, representativeID string, limit int, offset int64) ([]*model.Meeting, int64, error) {
	type countResult struct {
		count int64
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		count, err := s.meetings.CountByRepresentative(ctx, representativeID)
		countCh <- countResult{count, err}
	}()

	meetings, err := s.meetings.FindByRepresentative(ctx, representativeID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list meetings", err)
	}

	cr := <-countCh
	if cr.err != nil {
		return nil, 0, apperrors.Internal("Failed to count meetings", cr.err)
	}

	return meetings, cr.count, nil
}

// AuditTrail returns a meeting's trail oldest first. The meeting must exist;
// an empty trail for a real meeting cannot happen because creation itself is
// audited.
func (s *meetingService) AuditTrail(ctx context.Context, meetingID string) ([]*model.AuditEntry, error) {
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		return nil, s.mapMeetingRepoError(err, meetingID)
	}

	entries, err := s.audit.FindByMeeting(ctx, meetingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load audit trail", err)
	}
	return entries, nil
}
