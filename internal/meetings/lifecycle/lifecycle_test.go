package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/model"
)

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from    model.MeetingStatus
		to      model.MeetingStatus
		allowed bool
	}{
		{model.StatusDraft, model.StatusPending, true},
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusNoShow, true},
		{model.StatusConfirmed, model.StatusRescheduleProposed, true},
		{model.StatusRescheduleProposed, model.StatusConfirmed, true},
		{model.StatusRescheduleProposed, model.StatusCancelled, true},

		{model.StatusDraft, model.StatusConfirmed, false},
		{model.StatusPending, model.StatusCompleted, false},
		{model.StatusPending, model.StatusCancelled, false},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusRescheduleProposed, model.StatusRejected, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransition_TerminalStatesHaveNoExits(t *testing.T) {
	terminal := []model.MeetingStatus{
		model.StatusRejected,
		model.StatusCancelled,
		model.StatusCompleted,
	}
	all := []model.MeetingStatus{
		model.StatusDraft,
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusRescheduleProposed,
		model.StatusRejected,
		model.StatusCancelled,
		model.StatusCompleted,
		model.StatusNoShow,
	}

	for _, from := range terminal {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s must be blocked", from, to)
		}
	}
}

func TestGuard_ReturnsInvalidTransition(t *testing.T) {
	err := Guard(model.StatusCompleted, model.StatusConfirmed)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))

	assert.NoError(t, Guard(model.StatusPending, model.StatusConfirmed))
}

func TestAuthorize_RoleRules(t *testing.T) {
	m := &model.Meeting{
		StudentID:        "65a000000000000000000001",
		RepresentativeID: "65a000000000000000000002",
	}

	// Students may only cancel their own meeting.
	assert.NoError(t, Authorize(m, m.StudentID, model.RoleStudent, model.StatusCancelled))
	assert.Error(t, Authorize(m, m.StudentID, model.RoleStudent, model.StatusConfirmed))
	assert.Error(t, Authorize(m, "65a000000000000000000009", model.RoleStudent, model.StatusCancelled))

	// Only the assigned representative may act.
	assert.NoError(t, Authorize(m, m.RepresentativeID, model.RoleRepresentative, model.StatusConfirmed))
	assert.Error(t, Authorize(m, "65a000000000000000000009", model.RoleRepresentative, model.StatusConfirmed))

	// Admins may drive any transition.
	assert.NoError(t, Authorize(m, "65a000000000000000000009", model.RoleInstitutionAdmin, model.StatusRejected))

	assert.Error(t, Authorize(m, m.StudentID, model.Role("visitor"), model.StatusCancelled))
}

func TestAuthorizeReschedule(t *testing.T) {
	m := &model.Meeting{
		StudentID:        "65a000000000000000000001",
		RepresentativeID: "65a000000000000000000002",
	}

	assert.NoError(t, AuthorizeReschedule(m, m.RepresentativeID, model.RoleRepresentative))
	assert.NoError(t, AuthorizeReschedule(m, "65a000000000000000000009", model.RoleInstitutionAdmin))
	assert.Error(t, AuthorizeReschedule(m, m.StudentID, model.RoleStudent))
	assert.Error(t, AuthorizeReschedule(m, "65a000000000000000000009", model.RoleRepresentative))
}

func TestCanPropose(t *testing.T) {
	assert.True(t, CanPropose(model.StatusPending))
	assert.True(t, CanPropose(model.StatusConfirmed))
	assert.False(t, CanPropose(model.StatusCancelled))
	assert.False(t, CanPropose(model.StatusRescheduleProposed))
}
