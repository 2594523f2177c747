package repository // repository defines data access for seats

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatNumberExists is returned when a seat number is already in use.
var ErrSeatNumberExists = errors.New("seat number already exists")

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sqlx.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sqlx.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, seat_number, location_area, created_at`

// Create inserts a single seat record. On success the seat's ID and
// creation time are populated.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	const q = `INSERT INTO seats (seat_number, location_area) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.SeatNumber, s.LocationArea)
	if err != nil {
		if isMySQLError(err, errDupEntry, "") {
			return ErrSeatNumberExists
		}
		return errors.Wrap(err, "insert seat")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "seat insert id")
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

// List returns every seat ordered by id.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats ORDER BY id`
	seats := make([]model.Seat, 0)
	if err := r.db.SelectContext(ctx, &seats, q); err != nil {
		return nil, errors.Wrap(err, "list seats")
	}
	return seats, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	var s model.Seat
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, errors.Wrap(err, "get seat")
	}
	return &s, nil
}

// Delete removes a seat.  Seats referenced by any reservation, Active or
// Cancelled, cannot be removed and yield ErrConflict.
func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seats WHERE id = ?`, id)
	if err != nil {
		if isMySQLError(err, errRowIsReferenced, "") {
			return ErrConflict
		}
		return errors.Wrap(err, "delete seat")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete seat rows affected")
	}
	if n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// ListAvailable returns the seats that have no Active reservation on date,
// ordered by seat number.  The result reflects a single statement, so it
// is consistent with the reservations committed when it ran.
func (r *SeatRepo) ListAvailable(ctx context.Context, date model.Date) ([]model.Seat, error) {
	const q = `SELECT s.id, s.seat_number, s.location_area, s.created_at
	           FROM seats s
	           WHERE NOT EXISTS (
	               SELECT 1 FROM reservations r
	               WHERE r.seat_id = s.id AND r.reservation_date = ? AND r.status = ?
	           )
	           ORDER BY s.seat_number`
	seats := make([]model.Seat, 0)
	if err := r.db.SelectContext(ctx, &seats, q, date, model.StatusActive); err != nil {
		return nil, errors.Wrap(err, "list available seats")
	}
	return seats, nil
}
