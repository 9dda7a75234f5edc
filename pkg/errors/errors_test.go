package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	appErr := Internal("Failed to create meeting", cause)

	assert.Equal(t, "INTERNAL_ERROR: Failed to create meeting (caused by: connection refused)", appErr.Error())
	assert.Equal(t, cause, stderrors.Unwrap(appErr))

	plain := Conflict("daily cap reached")
	assert.Equal(t, "CONFLICT: daily cap reached", plain.Error())
}

func TestConstructors_CodesAndStatuses(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NotFound("meeting"), CodeNotFound, http.StatusNotFound},
		{InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest},
		{Forbidden("not your meeting"), CodeForbidden, http.StatusForbidden},
		{Conflict("daily cap reached"), CodeConflict, http.StatusConflict},
		{SlotTaken("slot is already booked"), CodeSlotTaken, http.StatusConflict},
		{HeldByOther("slot is held by another student"), CodeHeldByOther, http.StatusConflict},
		{NoRepresentative("no availability rule covers this time"), CodeNoRepresentative, http.StatusUnprocessableEntity},
		{Unavailable("mongodb"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.StatusCode())
	}
}

func TestInvalidTransition_Details(t *testing.T) {
	err := InvalidTransition("completed", "confirmed")

	assert.Equal(t, CodeInvalidTransition, err.Code)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
	assert.Equal(t, "completed", err.Details["from"])
	assert.Equal(t, "confirmed", err.Details["to"])
	assert.Contains(t, err.Message, "completed")
	assert.Contains(t, err.Message, "confirmed")
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(SlotTaken("taken"), CodeSlotTaken))
	assert.False(t, IsCode(SlotTaken("taken"), CodeHeldByOther))
	assert.False(t, IsCode(stderrors.New("plain"), CodeSlotTaken))
	assert.False(t, IsCode(nil, CodeSlotTaken))
}

func TestAsAppError(t *testing.T) {
	original := NotFoundWithID("meeting", "65a000000000000000000050")
	assert.Same(t, original, AsAppError(original))

	wrapped := AsAppError(stderrors.New("boom"))
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, wrapped.HTTPStatus)
}

func TestWithDetails(t *testing.T) {
	err := Conflict("daily cap reached").WithDetails(map[string]any{"daily_cap": 8})
	assert.Equal(t, 8, err.Details["daily_cap"])
}
