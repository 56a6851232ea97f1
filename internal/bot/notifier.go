package bot

import (
	"context"

	"benri/internal/reminder"
)

// Messenger sends outbound LINE messages. *line.Client satisfies it.
type Messenger interface {
	Push(ctx context.Context, to, text string) error
	Reply(ctx context.Context, replyToken, text string) error
}

type pushNotifier struct {
	messenger Messenger
	metrics   *Metrics
}

// NewNotifier adapts a Messenger into the registry's delivery interface,
// counting delivery results along the way.
func NewNotifier(messenger Messenger, metrics *Metrics) reminder.Notifier {
	return &pushNotifier{messenger: messenger, metrics: metrics}
}

func (n *pushNotifier) Notify(ctx context.Context, recipientID, text string) error {
	err := n.messenger.Push(ctx, recipientID, text)
	if n.metrics != nil {
		if err != nil {
			n.metrics.Deliveries.WithLabelValues("error").Inc()
		} else {
			n.metrics.Deliveries.WithLabelValues("ok").Inc()
		}
	}
	return err
}
