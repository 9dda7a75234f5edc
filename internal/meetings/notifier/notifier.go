package notifier

import (
	"context"

	"unimeet/pkg/model"
)

// Notifier emits meeting lifecycle events for downstream consumers (email,
// push, calendar sync). Implementations must never block or fail the calling
// operation; delivery is best effort.
type Notifier interface {
	MeetingCreated(ctx context.Context, m *model.Meeting)
	MeetingConfirmed(ctx context.Context, m *model.Meeting)
	MeetingRejected(ctx context.Context, m *model.Meeting)
	MeetingCancelled(ctx context.Context, m *model.Meeting)
	MeetingCompleted(ctx context.Context, m *model.Meeting)
	MeetingNoShow(ctx context.Context, m *model.Meeting)
	RescheduleProposed(ctx context.Context, m *model.Meeting)
	ReminderDue(ctx context.Context, m *model.Meeting)
}

// ForStatus routes a status change to the matching notification. Unknown
// statuses are ignored.
func ForStatus(ctx context.Context, n Notifier, m *model.Meeting) {
	switch m.Status {
	case model.StatusConfirmed:
		n.MeetingConfirmed(ctx, m)
	case model.StatusRejected:
		n.MeetingRejected(ctx, m)
	case model.StatusCancelled:
		n.MeetingCancelled(ctx, m)
	case model.StatusCompleted:
		n.MeetingCompleted(ctx, m)
	case model.StatusNoShow:
		n.MeetingNoShow(ctx, m)
	case model.StatusRescheduleProposed:
		n.RescheduleProposed(ctx, m)
	}
}
