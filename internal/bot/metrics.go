package bot

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the reminder server's prometheus collectors.
type Metrics struct {
	WebhookEvents      *prometheus.CounterVec
	RemindersScheduled prometheus.Counter
	RemindersReplaced  prometheus.Counter
	Deliveries         *prometheus.CounterVec
}

// NewMetrics registers the server collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remind_bot",
			Name:      "webhook_events_total",
			Help:      "Inbound webhook events by outcome.",
		}, []string{"outcome"}),
		RemindersScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "remind_bot",
			Name:      "reminders_scheduled_total",
			Help:      "Reminders accepted into the timer registry.",
		}),
		RemindersReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "remind_bot",
			Name:      "reminders_replaced_total",
			Help:      "Pending reminders superseded by a newer one.",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remind_bot",
			Name:      "deliveries_total",
			Help:      "Reminder push deliveries by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.WebhookEvents, m.RemindersScheduled, m.RemindersReplaced, m.Deliveries)
	}
	return m
}

const (
	outcomeScheduled  = "scheduled"
	outcomeHelp       = "help"
	outcomeRejected   = "rejected"
	outcomeBadRequest = "bad_request"
	outcomeIgnored    = "ignored"
)
