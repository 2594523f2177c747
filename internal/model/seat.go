package model

import "time"

// Seat describes a bookable desk seat.  Seats are identified for display by
// their seat number, which is unique across the office, and grouped loosely
// by a free-text location area.  Seats are created and deleted by admins and
// are otherwise immutable.
//
// Fields:
//  ID           – primary key identifier.
//  SeatNumber   – unique display label (e.g. A1, B12).
//  LocationArea – free-text area such as "North Wing".
//  CreatedAt    – creation timestamp.
type Seat struct {
	ID           uint64    `db:"id" json:"id"`                       // seats.id
	SeatNumber   string    `db:"seat_number" json:"seat_number"`     // seats.seat_number
	LocationArea string    `db:"location_area" json:"location_area"` // seats.location_area
	CreatedAt    time.Time `db:"created_at" json:"-"`                // seats.created_at
}
