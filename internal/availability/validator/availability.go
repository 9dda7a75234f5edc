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

type AvailabilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("day_time", validateDayTime); err != nil {
		log.Fatal("Failed to register 'day_time' validator", "error", err)
	}

	log.Info("Availability validator initialized successfully")

	return &AvailabilityValidator{
		validate: v,
		logger:   log,
	}
}

func validateDayTime(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	// time.Parse accepts "9:00"; the field must be exactly HH:MM.
	if len(value) != 5 {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

func (v *AvailabilityValidator) Validate(rule *model.AvailabilityRule) error {
	if err := v.validate.Struct(rule); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	start, errStart := time.Parse("15:04", rule.StartOfDay)
	end, errEnd := time.Parse("15:04", rule.EndOfDay)
	if errStart == nil && errEnd == nil && !end.After(start) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndOfDay",
				Message: "end_of_day must be after start_of_day",
			},
		}
	}

	return nil
}

func (v *AvailabilityValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "day_time":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "iso3166_1_alpha2":
			message = fmt.Sprintf("%s must contain valid ISO 3166-1 alpha-2 country codes", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must contain dates in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
