package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.  The only
// transition is Active -> Cancelled.
type ReservationStatus string

const (
	StatusActive    ReservationStatus = "Active"
	StatusCancelled ReservationStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
	return s == StatusActive || s == StatusCancelled
}

// Reservation records a user's booking of one seat for one calendar day.
// Reservations are never deleted; cancelling one moves it to Cancelled.
// The reservation date is fixed at creation.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the reservation.
//  SeatID          – seat being reserved.
//  ReservationDate – the booked calendar day.
//  Status          – Active or Cancelled.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64            `db:"id" json:"id"`                             // reservations.id
	UserID          uint64            `db:"user_id" json:"user_id"`                   // reservations.user_id
	SeatID          uint64            `db:"seat_id" json:"seat_id"`                   // reservations.seat_id
	ReservationDate Date              `db:"reservation_date" json:"reservation_date"` // reservations.reservation_date
	Status          ReservationStatus `db:"status" json:"status"`                     // reservations.status
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`             // reservations.created_at
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`             // reservations.updated_at
}

// IsActive reports whether the reservation still holds its seat.
func (r Reservation) IsActive() bool { return r.Status == StatusActive }

// ReservationDetail is a reservation joined with its seat, as shown to the
// reservation's owner.
type ReservationDetail struct {
	ID              uint64            `db:"id" json:"id"`
	SeatID          uint64            `db:"seat_id" json:"seat_id"`
	ReservationDate Date              `db:"reservation_date" json:"reservation_date"`
	Status          ReservationStatus `db:"status" json:"status"`
	SeatNumber      string            `db:"seat_number" json:"seat_number"`
	LocationArea    string            `db:"location_area" json:"location_area"`
}

// AdminReservationDetail extends ReservationDetail with the intern's name and
// email for the admin overview.
type AdminReservationDetail struct {
	ReservationDetail
	UserID      uint64 `db:"user_id" json:"user_id"`
	InternName  string `db:"intern_name" json:"intern_name"`
	InternEmail string `db:"intern_email" json:"intern_email"`
}
