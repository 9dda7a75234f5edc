package model

import (
	"slices"
	"time"
)

type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// WeekdayOf maps a calendar date to its Weekday value.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday().String())
}

// BlackoutDateLayout is the calendar-date format used for blackout entries.
const BlackoutDateLayout = "2006-01-02"

// AvailabilityRule is one representative's recurring weekly availability for
// a single weekday. A representative has at most one rule per weekday; a day
// switched off is deleted rather than retained, so the slot generator only
// ever sees active rules.
type AvailabilityRule struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RepresentativeID string    `json:"representative_id" bson:"representative_id" validate:"required,mongodb"`
	InstitutionID    string    `json:"institution_id" bson:"institution_id" validate:"required,mongodb"`
	Weekday          Weekday   `json:"weekday" bson:"weekday" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartOfDay       string    `json:"start_of_day" bson:"start_of_day" validate:"required,day_time"`
	EndOfDay         string    `json:"end_of_day" bson:"end_of_day" validate:"required,day_time"`
	DurationsMin     []int     `json:"durations_min" bson:"durations_min" validate:"required,min=1,max=10,dive,min=5,max=480"`
	BufferMin        int       `json:"buffer_min" bson:"buffer_min" validate:"min=0,max=240"`
	MinLeadTimeHours int       `json:"min_lead_time_hours" bson:"min_lead_time_hours" validate:"min=0,max=720"`
	DailyCap         int       `json:"daily_cap" bson:"daily_cap" validate:"min=0,max=100"`
	DegreeLevels     []string  `json:"degree_levels,omitempty" bson:"degree_levels,omitempty" validate:"omitempty,dive,oneof=bachelor master phd"`
	Countries        []string  `json:"countries,omitempty" bson:"countries,omitempty" validate:"omitempty,dive,iso3166_1_alpha2"`
	BlackoutDates    []string  `json:"blackout_dates,omitempty" bson:"blackout_dates,omitempty" validate:"omitempty,dive,datetime=2006-01-02"`
	AutoConfirm      bool      `json:"auto_confirm" bson:"auto_confirm"`
	Active           bool      `json:"active" bson:"active"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

func (r *AvailabilityRule) AllowsDuration(durationMin int) bool {
	return slices.Contains(r.DurationsMin, durationMin)
}

func (r *AvailabilityRule) IsBlackout(date time.Time) bool {
	return slices.Contains(r.BlackoutDates, date.Format(BlackoutDateLayout))
}

// AdmitsStudent applies the rule's eligibility filters. Empty filter sets
// admit everyone.
func (r *AvailabilityRule) AdmitsStudent(degreeLevel, country string) bool {
	if len(r.DegreeLevels) > 0 && degreeLevel != "" && !slices.Contains(r.DegreeLevels, degreeLevel) {
		return false
	}
	if len(r.Countries) > 0 && country != "" && !slices.Contains(r.Countries, country) {
		return false
	}
	return true
}

// Window resolves the rule's time-of-day bounds onto a calendar date. The
// returned times are in the same location as date.
func (r *AvailabilityRule) Window(date time.Time) (time.Time, time.Time) {
	start := atTimeOfDay(date, r.StartOfDay)
	end := atTimeOfDay(date, r.EndOfDay)
	return start, end
}

func atTimeOfDay(date time.Time, hhmm string) time.Time {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location())
}
