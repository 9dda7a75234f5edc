package lifecycle

import (
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/model"
)

// transitions is the authoritative table of valid status changes. Terminal
// states (rejected, cancelled, completed) have no outgoing entries.
var transitions = map[model.MeetingStatus][]model.MeetingStatus{
	model.StatusDraft:   {model.StatusPending},
	model.StatusPending: {model.StatusConfirmed, model.StatusRejected},
	model.StatusConfirmed: {
		model.StatusCancelled,
		model.StatusCompleted,
		model.StatusNoShow,
		model.StatusRescheduleProposed,
	},
	model.StatusRescheduleProposed: {model.StatusConfirmed, model.StatusCancelled},
}

func CanTransition(from, to model.MeetingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Guard checks the table before any write. An invalid request fails with
// INVALID_TRANSITION and must perform no mutation.
func Guard(from, to model.MeetingStatus) error {
	if !CanTransition(from, to) {
		return apperrors.InvalidTransition(string(from), string(to))
	}
	return nil
}

// Authorize checks actor permissions independently of the table. Only the
// assigned representative or the institution's admin may drive a meeting;
// the booking student may only cancel.
func Authorize(m *model.Meeting, actorID string, role model.Role, target model.MeetingStatus) error {
	switch role {
	case model.RoleStudent:
		if actorID != m.StudentID {
			return apperrors.Forbidden("Only the booking student may act on this meeting")
		}
		if target != model.StatusCancelled {
			return apperrors.Forbidden("Students may only cancel meetings")
		}
	case model.RoleRepresentative:
		if actorID != m.RepresentativeID {
			return apperrors.Forbidden("Only the assigned representative may act on this meeting")
		}
	case model.RoleInstitutionAdmin:
		// Admins act on behalf of the institution that owns the meeting.
	default:
		return apperrors.Forbidden("Unknown actor role")
	}
	return nil
}

// AuthorizeReschedule guards ProposeReschedule, which mutates auxiliary
// fields rather than just status. Students may not propose reschedules.
func AuthorizeReschedule(m *model.Meeting, actorID string, role model.Role) error {
	switch role {
	case model.RoleRepresentative:
		if actorID != m.RepresentativeID {
			return apperrors.Forbidden("Only the assigned representative may propose a reschedule")
		}
	case model.RoleInstitutionAdmin:
	default:
		return apperrors.Forbidden("Only the representative or an institution admin may propose a reschedule")
	}
	return nil
}

// CanPropose reports whether a reschedule proposal is valid from the current
// status. Proposals are only accepted from pending or confirmed meetings.
func CanPropose(from model.MeetingStatus) bool {
	return from == model.StatusPending || from == model.StatusConfirmed
}
