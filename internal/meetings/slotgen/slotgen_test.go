package slotgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimeet/pkg/model"
)

const (
	repA = "65a000000000000000000002"
	repB = "65a000000000000000000005"
)

// 2026-01-05 is a Monday.
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func rule(rep string) *model.AvailabilityRule {
	return &model.AvailabilityRule{
		RepresentativeID: rep,
		InstitutionID:    "65a000000000000000000003",
		Weekday:          model.Monday,
		StartOfDay:       "09:00",
		EndOfDay:         "10:00",
		DurationsMin:     []int{30},
		Active:           true,
	}
}

func committedMeeting(rep string, start time.Time, durationMin int, status model.MeetingStatus) *model.Meeting {
	return &model.Meeting{
		RepresentativeID: rep,
		StartTime:        start,
		EndTime:          start.Add(time.Duration(durationMin) * time.Minute),
		DurationMin:      durationMin,
		Status:           status,
	}
}

func starts(slots []model.CandidateSlot) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime
	}
	return out
}

func TestGenerate_WalksWindowInDurationSteps(t *testing.T) {
	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{rule(repA)},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
	})

	assert.Equal(t, []time.Time{
		monday.Add(9 * time.Hour),
		monday.Add(9*time.Hour + 30*time.Minute),
	}, starts(slots))
}

func TestGenerate_CommittedMeetingRemovesSlot(t *testing.T) {
	meeting := committedMeeting(repA, monday.Add(9*time.Hour), 30, model.StatusConfirmed)

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{rule(repA)},
		Date:        monday,
		DurationMin: 30,
		Meetings:    []*model.Meeting{meeting},
		Now:         monday,
	})

	assert.Equal(t, []time.Time{monday.Add(9*time.Hour + 30*time.Minute)}, starts(slots))
}

func TestGenerate_TerminalMeetingFreesSlot(t *testing.T) {
	meeting := committedMeeting(repA, monday.Add(9*time.Hour), 30, model.StatusCancelled)

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{rule(repA)},
		Date:        monday,
		DurationMin: 30,
		Meetings:    []*model.Meeting{meeting},
		Now:         monday,
	})

	assert.Len(t, slots, 2)
}

func TestGenerate_BufferWidensStep(t *testing.T) {
	r := rule(repA)
	r.EndOfDay = "11:00"
	r.BufferMin = 15

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{r},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
	})

	// Steps of 45 minutes: 09:00, 09:45, 10:30.
	assert.Equal(t, []time.Time{
		monday.Add(9 * time.Hour),
		monday.Add(9*time.Hour + 45*time.Minute),
		monday.Add(10*time.Hour + 30*time.Minute),
	}, starts(slots))
}

func TestGenerate_LeadTimeHidesNearSlots(t *testing.T) {
	r := rule(repA)
	r.MinLeadTimeHours = 10

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{r},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
	})

	// Horizon at 10:00 hides 09:00 and 09:30.
	assert.Empty(t, slots)
}

func TestGenerate_DailyCapSuppressesRule(t *testing.T) {
	r := rule(repA)
	r.DailyCap = 1
	meeting := committedMeeting(repA, monday.Add(12*time.Hour), 30, model.StatusPending)

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{r},
		Date:        monday,
		DurationMin: 30,
		Meetings:    []*model.Meeting{meeting},
		Now:         monday,
	})

	assert.Empty(t, slots)
}

func TestGenerate_BlackoutDateYieldsNothing(t *testing.T) {
	r := rule(repA)
	r.BlackoutDates = []string{"2026-01-05"}

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{r},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
	})

	assert.Empty(t, slots)
}

func TestGenerate_WrongWeekdayOrDurationSkipsRule(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)

	assert.Empty(t, Generate(Input{
		Rules:       []*model.AvailabilityRule{rule(repA)},
		Date:        tuesday,
		DurationMin: 30,
		Now:         monday,
	}))

	assert.Empty(t, Generate(Input{
		Rules:       []*model.AvailabilityRule{rule(repA)},
		Date:        monday,
		DurationMin: 45,
		Now:         monday,
	}))
}

func TestGenerate_EligibilityFiltersRules(t *testing.T) {
	r := rule(repA)
	r.DegreeLevels = []string{"phd"}

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{r},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
		Eligibility: &Eligibility{DegreeLevel: "bachelor"},
	})
	assert.Empty(t, slots)

	slots = Generate(Input{
		Rules:       []*model.AvailabilityRule{r},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
		Eligibility: &Eligibility{DegreeLevel: "phd"},
	})
	assert.Len(t, slots, 2)
}

func TestGenerate_DeduplicatesAcrossRepresentatives(t *testing.T) {
	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{rule(repB), rule(repA)},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
	})

	require.Len(t, slots, 2)
	// Stable order: the lexicographically smaller representative wins.
	for _, s := range slots {
		assert.Equal(t, repA, s.RepresentativeID)
	}
}

func TestGenerate_SlotsSortedAscending(t *testing.T) {
	r := rule(repA)
	r.EndOfDay = "12:00"

	slots := Generate(Input{
		Rules:       []*model.AvailabilityRule{r},
		Date:        monday,
		DurationMin: 30,
		Now:         monday,
	})

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].StartTime.Before(slots[i].StartTime))
	}
}

func TestMatchRule_FindsCoveringRule(t *testing.T) {
	r := rule(repA)

	assert.NotNil(t, MatchRule([]*model.AvailabilityRule{r}, monday.Add(9*time.Hour), 30))
	assert.NotNil(t, MatchRule([]*model.AvailabilityRule{r}, monday.Add(9*time.Hour+30*time.Minute), 30))

	// Outside the window, wrong duration, wrong day.
	assert.Nil(t, MatchRule([]*model.AvailabilityRule{r}, monday.Add(10*time.Hour), 30))
	assert.Nil(t, MatchRule([]*model.AvailabilityRule{r}, monday.Add(9*time.Hour), 45))
	assert.Nil(t, MatchRule([]*model.AvailabilityRule{r}, monday.AddDate(0, 0, 1).Add(9*time.Hour), 30))
}

func TestMatchRule_RespectsBlackouts(t *testing.T) {
	r := rule(repA)
	r.BlackoutDates = []string{"2026-01-05"}

	assert.Nil(t, MatchRule([]*model.AvailabilityRule{r}, monday.Add(9*time.Hour), 30))
}
