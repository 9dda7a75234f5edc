package service

import (
	"context"
	"time"

	"unimeet/internal/meetings/slotgen"
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/model"
)

// GetSlots returns the bookable start times on one calendar date, for one
// representative or across an institution's representatives. Committed
// meetings remove slots; live holds only mark them as held so the UI can grey
// them out.
func (s *meetingService) GetSlots(ctx context.Context, query SlotQuery) ([]model.CandidateSlot, error) {
	if query.RepresentativeID == "" && query.InstitutionID == "" {
		return nil, apperrors.InvalidInput("either representative_id or institution_id is required")
	}
	if query.RepresentativeID != "" && query.InstitutionID != "" {
		return nil, apperrors.InvalidInput("representative_id and institution_id are mutually exclusive")
	}
	if query.DurationMin <= 0 {
		return nil, apperrors.InvalidInput("duration_min must be positive")
	}

	var (
		rules []*model.AvailabilityRule
		err   error
	)
	if query.InstitutionID != "" {
		rules, err = s.availability.FindByInstitution(ctx, query.InstitutionID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load availability rules", err)
		}
	} else {
		rules, err = s.activeRules(ctx, query.RepresentativeID)
		if err != nil {
			return nil, err
		}
	}

	dayStart := time.Date(query.Date.Year(), query.Date.Month(), query.Date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	representatives := distinctRepresentatives(rules)

	var meetings []*model.Meeting
	for _, repID := range representatives {
		repMeetings, err := s.meetings.FindByRepresentativeAndWindow(ctx, repID, dayStart, dayEnd)
		if err != nil {
			return nil, apperrors.Internal("Failed to load meetings for slot generation", err)
		}
		meetings = append(meetings, repMeetings...)
	}

	now := s.clock.Now()

	var eligibility *slotgen.Eligibility
	if query.DegreeLevel != "" || query.Country != "" {
		eligibility = &slotgen.Eligibility{
			DegreeLevel: query.DegreeLevel,
			Country:     query.Country,
		}
	}

	slots := slotgen.Generate(slotgen.Input{
		Rules:       rules,
		Date:        dayStart,
		DurationMin: query.DurationMin,
		Meetings:    meetings,
		Now:         now,
		Eligibility: eligibility,
	})

	if len(slots) == 0 {
		return slots, nil
	}

	heldStarts := make(map[time.Time]struct{})
	for _, repID := range representatives {
		holds, err := s.holds.FindByRepresentativeAndWindow(ctx, repID, dayStart, dayEnd, now)
		if err != nil {
			return nil, apperrors.Internal("Failed to load holds for slot generation", err)
		}
		for _, h := range holds {
			heldStarts[h.StartTime.UTC()] = struct{}{}
		}
	}
	for i := range slots {
		if _, held := heldStarts[slots[i].StartTime.UTC()]; held {
			slots[i].Held = true
		}
	}

	return slots, nil
}

func distinctRepresentatives(rules []*model.AvailabilityRule) []string {
	seen := make(map[string]struct{}, len(rules))
	var out []string
	for _, r := range rules {
		if _, ok := seen[r.RepresentativeID]; ok {
			continue
		}
		seen[r.RepresentativeID] = struct{}{}
		out = append(out, r.RepresentativeID)
	}
	return out
}
