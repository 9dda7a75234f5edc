package model

import "time"

type AuditAction string

const (
	AuditCreated            AuditAction = "CREATED"
	AuditStatusChanged      AuditAction = "STATUS_CHANGED"
	AuditRescheduleProposed AuditAction = "RESCHEDULE_PROPOSED"
	AuditHoldAcquired       AuditAction = "HOLD_ACQUIRED"
	AuditHoldReleased       AuditAction = "HOLD_RELEASED"
	AuditReminderSent       AuditAction = "REMINDER_SENT"
)

// AuditEntry is an append-only record of one state transition or hold event.
// Entries are immutable once written and never deleted.
type AuditEntry struct {
	ID        string         `json:"id,omitempty" bson:"_id,omitempty"`
	MeetingID string         `json:"meeting_id,omitempty" bson:"meeting_id,omitempty"`
	HoldID    string         `json:"hold_id,omitempty" bson:"hold_id,omitempty"`
	Action    AuditAction    `json:"action" bson:"action"`
	OldStatus MeetingStatus  `json:"old_status,omitempty" bson:"old_status,omitempty"`
	NewStatus MeetingStatus  `json:"new_status,omitempty" bson:"new_status,omitempty"`
	ActorID   string         `json:"actor_id" bson:"actor_id"`
	Metadata  map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}
