package model

import "time"

type MeetingStatus string

const (
	StatusDraft              MeetingStatus = "draft"
	StatusPending            MeetingStatus = "pending"
	StatusConfirmed          MeetingStatus = "confirmed"
	StatusRescheduleProposed MeetingStatus = "reschedule_proposed"
	StatusRejected           MeetingStatus = "rejected"
	StatusCancelled          MeetingStatus = "cancelled"
	StatusCompleted          MeetingStatus = "completed"
	StatusNoShow             MeetingStatus = "no_show"
)

// ActiveStatuses are the statuses that still occupy a time window. The
// double-booking invariant is enforced only against these.
func ActiveStatuses() []MeetingStatus {
	return []MeetingStatus{StatusPending, StatusConfirmed, StatusRescheduleProposed}
}

func (s MeetingStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusRescheduleProposed
}

// Terminal statuses permit no outgoing transitions.
func (s MeetingStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

type Role string

const (
	RoleStudent          Role = "student"
	RoleRepresentative   Role = "representative"
	RoleInstitutionAdmin Role = "institution_admin"
)

type Meeting struct {
	ID               string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code             string        `json:"code" bson:"code" validate:"omitempty"`
	StudentID        string        `json:"student_id" bson:"student_id" validate:"required,mongodb"`
	RepresentativeID string        `json:"representative_id" bson:"representative_id" validate:"required,mongodb"`
	InstitutionID    string        `json:"institution_id" bson:"institution_id" validate:"required,mongodb"`
	Purpose          string        `json:"purpose" bson:"purpose" validate:"required,min=2,max=500"`
	StartTime        time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime          time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	DurationMin      int           `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	Status           MeetingStatus `json:"status" bson:"status" validate:"required,oneof=draft pending confirmed reschedule_proposed rejected cancelled completed no_show"`

	// Reschedule proposal fields. Consumed (cleared) when the proposal is
	// confirmed; history lives only in the audit trail.
	ProposedByRole    Role       `json:"proposed_by_role,omitempty" bson:"proposed_by_role,omitempty" validate:"omitempty,oneof=student representative institution_admin"`
	ProposedStartTime *time.Time `json:"proposed_start_time,omitempty" bson:"proposed_start_time,omitempty"`
	RescheduleReason  string     `json:"reschedule_reason,omitempty" bson:"reschedule_reason,omitempty" validate:"omitempty,max=500"`

	MeetingLink     string    `json:"meeting_link,omitempty" bson:"meeting_link,omitempty" validate:"omitempty,url"`
	MeetingProvider string    `json:"meeting_provider,omitempty" bson:"meeting_provider,omitempty" validate:"omitempty,max=50"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Overlaps reports half-open interval overlap with [start, end).
func (m *Meeting) Overlaps(start, end time.Time) bool {
	return m.StartTime.Before(end) && m.EndTime.After(start)
}

// BookingRequest is the payload for creating a meeting. RepresentativeID is
// mandatory: the engine never picks a representative on the caller's behalf.
type BookingRequest struct {
	StudentID        string    `json:"student_id" validate:"required,mongodb"`
	RepresentativeID string    `json:"representative_id" validate:"required,mongodb"`
	StartTime        time.Time `json:"start_time" validate:"required"`
	DurationMin      int       `json:"duration_min" validate:"required,min=5,max=480"`
	Purpose          string    `json:"purpose" validate:"required,min=2,max=500"`
	HoldID           string    `json:"hold_id,omitempty" validate:"omitempty,uuid4"`
}

// TransitionRequest asks the lifecycle to move a meeting to TargetStatus.
type TransitionRequest struct {
	ActorID      string         `json:"actor_id" validate:"required,mongodb"`
	ActorRole    Role           `json:"actor_role" validate:"required,oneof=student representative institution_admin"`
	TargetStatus MeetingStatus  `json:"target_status" validate:"required,oneof=pending confirmed reschedule_proposed rejected cancelled completed no_show"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type RescheduleRequest struct {
	ActorID      string    `json:"actor_id" validate:"required,mongodb"`
	ActorRole    Role      `json:"actor_role" validate:"required,oneof=student representative institution_admin"`
	NewStartTime time.Time `json:"new_start_time" validate:"required"`
	Reason       string    `json:"reason" validate:"required,min=2,max=500"`
}
