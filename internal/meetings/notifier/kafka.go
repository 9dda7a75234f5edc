package notifier

import (
	"context"
	"time"

	"unimeet/pkg/kafka"
	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

const (
	EventMeetingCreated     = "meeting.created"
	EventMeetingConfirmed   = "meeting.confirmed"
	EventMeetingRejected    = "meeting.rejected"
	EventMeetingCancelled   = "meeting.cancelled"
	EventMeetingCompleted   = "meeting.completed"
	EventMeetingNoShow      = "meeting.no_show"
	EventRescheduleProposed = "meeting.reschedule_proposed"
	EventReminderDue        = "meeting.reminder_due"

	schemaVersion  = "1.0"
	source         = "unimeet-meetings"
	publishTimeout = 5 * time.Second
)

// meetingEvent is the wire payload for every meeting event type.
type meetingEvent struct {
	MeetingID        string              `json:"meeting_id"`
	Code             string              `json:"code"`
	StudentID        string              `json:"student_id"`
	RepresentativeID string              `json:"representative_id"`
	InstitutionID    string              `json:"institution_id"`
	Status           model.MeetingStatus `json:"status"`
	StartTime        time.Time           `json:"start_time"`
	EndTime          time.Time           `json:"end_time"`
	OccurredAt       time.Time           `json:"occurred_at"`
}

type KafkaNotifier struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		logger:   log,
	}
}

func (n *KafkaNotifier) MeetingCreated(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventMeetingCreated, m)
}

func (n *KafkaNotifier) MeetingConfirmed(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventMeetingConfirmed, m)
}

func (n *KafkaNotifier) MeetingRejected(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventMeetingRejected, m)
}

func (n *KafkaNotifier) MeetingCancelled(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventMeetingCancelled, m)
}

func (n *KafkaNotifier) MeetingCompleted(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventMeetingCompleted, m)
}

func (n *KafkaNotifier) MeetingNoShow(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventMeetingNoShow, m)
}

func (n *KafkaNotifier) RescheduleProposed(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventRescheduleProposed, m)
}

func (n *KafkaNotifier) ReminderDue(ctx context.Context, m *model.Meeting) {
	n.publish(ctx, EventReminderDue, m)
}

// publish is fire-and-forget: a broker failure is logged and swallowed so
// the booking or transition that triggered it still succeeds.
func (n *KafkaNotifier) publish(ctx context.Context, eventType string, m *model.Meeting) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := kafka.NewMessage().
		WithKey(m.ID).
		WithEventType(eventType).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		WithValue(meetingEvent{
			MeetingID:        m.ID,
			Code:             m.Code,
			StudentID:        m.StudentID,
			RepresentativeID: m.RepresentativeID,
			InstitutionID:    m.InstitutionID,
			Status:           m.Status,
			StartTime:        m.StartTime,
			EndTime:          m.EndTime,
			OccurredAt:       time.Now().UTC(),
		}).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.logger.Error("Failed to publish meeting event",
			"event_type", eventType,
			"meeting_id", m.ID,
			"error", err,
		)
		return
	}

	n.logger.Debug("Published meeting event",
		"event_type", eventType,
		"meeting_id", m.ID,
	)
}
