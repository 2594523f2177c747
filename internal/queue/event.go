// Package queue carries reservation notifications from the booking engine to
// the message broker and from the broker to the mailer.
package queue

import (
	"time"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// Event types published on the notification queue.
const (
	TypeConfirmed = "reservation.confirmed"
	TypeCancelled = "reservation.cancelled"
)

// Event is published when a reservation is confirmed or cancelled.  It
// contains enough information for the mail consumer to notify the intern
// without querying the primary database.
type Event struct {
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	Date          string `json:"reservation_date"`
	Status        string `json:"status"`
	UserID        uint64 `json:"user_id"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	SeatID        uint64 `json:"seat_id"`
	SeatNumber    string `json:"seat_number"`
	LocationArea  string `json:"location_area"`
	OccurredAt    string `json:"occurred_at"`
}

// NewEvent builds an event of the given type from committed records.
func NewEvent(eventType string, user model.User, r model.Reservation, seat model.Seat, at time.Time) Event {
	return Event{
		Type:          eventType,
		ReservationID: r.ID,
		Date:          r.ReservationDate.String(),
		Status:        string(r.Status),
		UserID:        user.ID,
		UserName:      user.Name,
		UserEmail:     user.Email,
		SeatID:        seat.ID,
		SeatNumber:    seat.SeatNumber,
		LocationArea:  seat.LocationArea,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
