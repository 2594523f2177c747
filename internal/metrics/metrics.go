// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes used as the "outcome" label.
const (
	OutcomeBooked    = "booked"
	OutcomeCancelled = "cancelled"
	OutcomeConflict  = "conflict"
	OutcomeNotFound  = "not_found"
	OutcomePastDate  = "past_date"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservations",
			Name:      "book_requests_total",
			Help:      "The total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	cancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservations",
			Name:      "cancel_requests_total",
			Help:      "The total number of cancellation attempts by outcome",
		},
		[]string{"outcome"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notifications",
			Name:      "events_total",
			Help:      "The total number of notification events by result",
		},
		[]string{"type", "result"},
	)
)

// Booking records the outcome of a booking attempt.
func Booking(outcome string) { bookingsTotal.WithLabelValues(outcome).Inc() }

// Cancellation records the outcome of a cancellation attempt.
func Cancellation(outcome string) { cancellationsTotal.WithLabelValues(outcome).Inc() }

// Notification records what happened to a notification event: "queued",
// "dropped", "published", "publish_failed", "sent" or "send_failed".
func Notification(eventType, result string) {
	notificationsTotal.WithLabelValues(eventType, result).Inc()
}
