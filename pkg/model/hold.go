package model

import "time"

// Hold is an ephemeral intent-to-book: a short-lived reservation of one
// (representative, start-time) slot while a student completes the booking
// flow. At most one live hold exists per slot, enforced by a unique index on
// (representative_id, start_time). Holds past ExpiresAt are logically dead
// even before they are physically removed; cleanup is lazy.
type Hold struct {
	ID               string    `json:"id" bson:"_id" validate:"required,uuid4"`
	RepresentativeID string    `json:"representative_id" bson:"representative_id" validate:"required,mongodb"`
	StartTime        time.Time `json:"start_time" bson:"start_time" validate:"required"`
	HolderID         string    `json:"holder_id" bson:"holder_id" validate:"required,mongodb"`
	ExpiresAt        time.Time `json:"expires_at" bson:"expires_at" validate:"required"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

func (h *Hold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

// HoldRequest is the payload for acquiring a hold.
type HoldRequest struct {
	RepresentativeID string    `json:"representative_id" validate:"required,mongodb"`
	StartTime        time.Time `json:"start_time" validate:"required"`
	HolderID         string    `json:"holder_id" validate:"required,mongodb"`
}
