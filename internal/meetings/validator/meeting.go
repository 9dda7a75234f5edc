package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type MeetingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewMeetingValidator(log *logger.Logger) *MeetingValidator {
	v := validator.New()

	log.Info("Meeting validator initialized successfully")

	return &MeetingValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateBooking checks a booking request before it reaches the engine.
// Past start times are rejected here so the engine only ever deals with
// future slots.
func (v *MeetingValidator) ValidateBooking(req *model.BookingRequest, now time.Time) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if req.StartTime.Before(now) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start_time cannot be in the past",
			},
		}
	}

	return nil
}

func (v *MeetingValidator) ValidateTransition(req *model.TransitionRequest) error {
	return v.validateStruct(req)
}

func (v *MeetingValidator) ValidateReschedule(req *model.RescheduleRequest, now time.Time) error {
	if err := v.validateStruct(req); err != nil {
		return err
	}

	if req.NewStartTime.Before(now) {
		return ValidationErrors{
			ValidationError{
				Field:   "NewStartTime",
				Message: "new_start_time cannot be in the past",
			},
		}
	}

	return nil
}

func (v *MeetingValidator) ValidateHold(req *model.HoldRequest, now time.Time) error {
	if err := v.validateStruct(req); err != nil {
		return err
	}

	if req.StartTime.Before(now) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start_time cannot be in the past",
			},
		}
	}

	return nil
}

func (v *MeetingValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *MeetingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUIDv4", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
