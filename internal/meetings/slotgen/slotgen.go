package slotgen

import (
	"sort"
	"time"

	"unimeet/pkg/model"
)

// Eligibility carries the optional student attributes a rule may filter on.
type Eligibility struct {
	DegreeLevel string
	Country     string
}

// Input bundles everything slot generation depends on. Generate is a pure
// function: no I/O, no mutation of its inputs.
type Input struct {
	Rules       []*model.AvailabilityRule
	Date        time.Time
	DurationMin int
	Meetings    []*model.Meeting
	Now         time.Time
	Eligibility *Eligibility
}

// Generate derives the bookable start-times for one calendar date.
//
// A rule contributes candidates only when its weekday matches the date and
// its duration menu contains the requested duration; rules failing either
// check are skipped, never errored. Each surviving rule's window is walked
// in steps of duration+buffer. A candidate is dropped when the date is
// blacked out, when its window overlaps a committed active meeting, when it
// starts inside the rule's lead-time horizon, or when the representative
// has already reached the daily cap. The result is deduplicated by
// start-time across representatives and sorted ascending.
func Generate(in Input) []model.CandidateSlot {
	if in.DurationMin <= 0 {
		return nil
	}

	weekday := model.WeekdayOf(in.Date)
	duration := time.Duration(in.DurationMin) * time.Minute

	byStart := make(map[time.Time]model.CandidateSlot)

	for _, rule := range sortedRules(in.Rules) {
		if rule.Weekday != weekday || !rule.AllowsDuration(in.DurationMin) {
			continue
		}
		if rule.IsBlackout(in.Date) {
			continue
		}
		if in.Eligibility != nil && !rule.AdmitsStudent(in.Eligibility.DegreeLevel, in.Eligibility.Country) {
			continue
		}
		if rule.DailyCap > 0 && meetingsOnDay(in.Meetings, rule.RepresentativeID, in.Date) >= rule.DailyCap {
			continue
		}

		windowStart, windowEnd := rule.Window(in.Date)
		step := duration + time.Duration(rule.BufferMin)*time.Minute
		leadHorizon := in.Now.Add(time.Duration(rule.MinLeadTimeHours) * time.Hour)

		for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(step) {
			end := start.Add(duration)

			if start.Before(leadHorizon) {
				continue
			}
			if overlapsCommitted(in.Meetings, rule.RepresentativeID, start, end) {
				continue
			}

			key := start.UTC()
			if _, taken := byStart[key]; taken {
				// Another eligible representative already offers this
				// start-time; first rule in stable order wins.
				continue
			}
			byStart[key] = model.CandidateSlot{
				StartTime:        start,
				EndTime:          end,
				RepresentativeID: rule.RepresentativeID,
				AutoConfirm:      rule.AutoConfirm,
			}
		}
	}

	slots := make([]model.CandidateSlot, 0, len(byStart))
	for _, slot := range byStart {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})

	return slots
}

// MatchRule finds the rule that admits a specific (startTime, duration)
// request, or nil when no active rule covers it. The booking engine uses
// this to refuse requests outside any representative's availability.
func MatchRule(rules []*model.AvailabilityRule, startTime time.Time, durationMin int) *model.AvailabilityRule {
	weekday := model.WeekdayOf(startTime)
	end := startTime.Add(time.Duration(durationMin) * time.Minute)

	for _, rule := range rules {
		if rule.Weekday != weekday || !rule.AllowsDuration(durationMin) {
			continue
		}
		if rule.IsBlackout(startTime) {
			continue
		}
		windowStart, windowEnd := rule.Window(startTime)
		if !startTime.Before(windowStart) && !end.After(windowEnd) {
			return rule
		}
	}
	return nil
}

func sortedRules(rules []*model.AvailabilityRule) []*model.AvailabilityRule {
	out := make([]*model.AvailabilityRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RepresentativeID < out[j].RepresentativeID
	})
	return out
}

func overlapsCommitted(meetings []*model.Meeting, representativeID string, start, end time.Time) bool {
	for _, m := range meetings {
		if m.RepresentativeID != representativeID || !m.Status.Active() {
			continue
		}
		if m.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func meetingsOnDay(meetings []*model.Meeting, representativeID string, date time.Time) int {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	count := 0
	for _, m := range meetings {
		if m.RepresentativeID != representativeID || !m.Status.Active() {
			continue
		}
		if m.StartTime.Before(dayEnd) && !m.StartTime.Before(dayStart) {
			count++
		}
	}
	return count
}
