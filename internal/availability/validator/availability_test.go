package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

func newValidator() *AvailabilityValidator {
	return NewAvailabilityValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	}))
}

func validRule() *model.AvailabilityRule {
	return &model.AvailabilityRule{
		RepresentativeID: "65a000000000000000000002",
		InstitutionID:    "65a000000000000000000003",
		Weekday:          model.Monday,
		StartOfDay:       "09:00",
		EndOfDay:         "17:00",
		DurationsMin:     []int{15, 30, 45},
		BufferMin:        10,
		MinLeadTimeHours: 24,
		DailyCap:         8,
		DegreeLevels:     []string{"bachelor", "master"},
		Countries:        []string{"DE", "FR"},
		BlackoutDates:    []string{"2026-12-24", "2026-12-25"},
		Active:           true,
	}
}

func TestValidate_ValidRule(t *testing.T) {
	assert.NoError(t, newValidator().Validate(validRule()))
}

func TestValidate_DayTimeFormat(t *testing.T) {
	v := newValidator()

	for _, bad := range []string{"9:00", "25:00", "09:60", "0900", "morning", ""} {
		rule := validRule()
		rule.StartOfDay = bad
		assert.Error(t, v.Validate(rule), "start_of_day %q should fail", bad)
	}
}

func TestValidate_EndMustFollowStart(t *testing.T) {
	v := newValidator()

	rule := validRule()
	rule.StartOfDay = "17:00"
	rule.EndOfDay = "09:00"
	err := v.Validate(rule)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_of_day must be after start_of_day")

	rule = validRule()
	rule.StartOfDay = "09:00"
	rule.EndOfDay = "09:00"
	assert.Error(t, v.Validate(rule))
}

func TestValidate_DurationMenu(t *testing.T) {
	v := newValidator()

	rule := validRule()
	rule.DurationsMin = nil
	assert.Error(t, v.Validate(rule))

	rule = validRule()
	rule.DurationsMin = []int{3}
	assert.Error(t, v.Validate(rule))
}

func TestValidate_EligibilityFilters(t *testing.T) {
	v := newValidator()

	rule := validRule()
	rule.DegreeLevels = []string{"diploma"}
	assert.Error(t, v.Validate(rule))

	rule = validRule()
	rule.Countries = []string{"Germany"}
	assert.Error(t, v.Validate(rule))

	rule = validRule()
	rule.BlackoutDates = []string{"24.12.2026"}
	assert.Error(t, v.Validate(rule))
}

func TestValidate_Weekday(t *testing.T) {
	v := newValidator()

	rule := validRule()
	rule.Weekday = "Funday"
	assert.Error(t, v.Validate(rule))
}
