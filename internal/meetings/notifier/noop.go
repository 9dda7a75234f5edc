package notifier

import (
	"context"

	"unimeet/pkg/model"
)

// NoopNotifier is used when no Kafka brokers are configured, and in tests.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (NoopNotifier) MeetingCreated(context.Context, *model.Meeting)     {}
func (NoopNotifier) MeetingConfirmed(context.Context, *model.Meeting)   {}
func (NoopNotifier) MeetingRejected(context.Context, *model.Meeting)    {}
func (NoopNotifier) MeetingCancelled(context.Context, *model.Meeting)   {}
func (NoopNotifier) MeetingCompleted(context.Context, *model.Meeting)   {}
func (NoopNotifier) MeetingNoShow(context.Context, *model.Meeting)      {}
func (NoopNotifier) RescheduleProposed(context.Context, *model.Meeting) {}
func (NoopNotifier) ReminderDue(context.Context, *model.Meeting)        {}
