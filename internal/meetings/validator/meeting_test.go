package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

var now = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func newValidator() *MeetingValidator {
	return NewMeetingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	}))
}

func validBookingRequest() *model.BookingRequest {
	return &model.BookingRequest{
		StudentID:        "65a000000000000000000001",
		RepresentativeID: "65a000000000000000000002",
		StartTime:        now.Add(48 * time.Hour),
		DurationMin:      30,
		Purpose:          "Questions about the exchange program",
	}
}

func TestValidateBooking_Valid(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.ValidateBooking(validBookingRequest(), now))
}

func TestValidateBooking_PastStartTime(t *testing.T) {
	v := newValidator()
	req := validBookingRequest()
	req.StartTime = now.Add(-time.Hour)

	err := v.ValidateBooking(req, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_time cannot be in the past")
}

func TestValidateBooking_BadIDs(t *testing.T) {
	v := newValidator()

	req := validBookingRequest()
	req.StudentID = "not-an-object-id"
	assert.Error(t, v.ValidateBooking(req, now))

	req = validBookingRequest()
	req.RepresentativeID = ""
	assert.Error(t, v.ValidateBooking(req, now))

	req = validBookingRequest()
	req.HoldID = "not-a-uuid"
	assert.Error(t, v.ValidateBooking(req, now))
}

func TestValidateBooking_DurationBounds(t *testing.T) {
	v := newValidator()

	req := validBookingRequest()
	req.DurationMin = 3
	assert.Error(t, v.ValidateBooking(req, now))

	req = validBookingRequest()
	req.DurationMin = 481
	assert.Error(t, v.ValidateBooking(req, now))
}

func TestValidateTransition(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateTransition(&model.TransitionRequest{
		ActorID:      "65a000000000000000000002",
		ActorRole:    model.RoleRepresentative,
		TargetStatus: model.StatusConfirmed,
	}))

	assert.Error(t, v.ValidateTransition(&model.TransitionRequest{
		ActorID:      "65a000000000000000000002",
		ActorRole:    "ghost",
		TargetStatus: model.StatusConfirmed,
	}))

	assert.Error(t, v.ValidateTransition(&model.TransitionRequest{
		ActorID:      "65a000000000000000000002",
		ActorRole:    model.RoleRepresentative,
		TargetStatus: "archived",
	}))
}

func TestValidateReschedule_PastTime(t *testing.T) {
	v := newValidator()

	err := v.ValidateReschedule(&model.RescheduleRequest{
		ActorID:      "65a000000000000000000002",
		ActorRole:    model.RoleRepresentative,
		NewStartTime: now.Add(-time.Hour),
		Reason:       "moving earlier",
	}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new_start_time cannot be in the past")
}

func TestValidateHold(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateHold(&model.HoldRequest{
		RepresentativeID: "65a000000000000000000002",
		StartTime:        now.Add(time.Hour),
		HolderID:         "65a000000000000000000001",
	}, now))

	assert.Error(t, v.ValidateHold(&model.HoldRequest{
		RepresentativeID: "65a000000000000000000002",
		StartTime:        now.Add(-time.Hour),
		HolderID:         "65a000000000000000000001",
	}, now))
}
