package model

import "time"

// CandidateSlot is a bookable (representative, start-time) pair derived from
// availability rules. Held is a UX overlay only: a held slot may still be
// booked once the hold expires, and an unheld slot may still be taken.
type CandidateSlot struct {
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	RepresentativeID string    `json:"representative_id"`
	AutoConfirm      bool      `json:"auto_confirm"`
	Held             bool      `json:"held,omitempty"`
}
