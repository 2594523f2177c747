package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// Index names from the reservations migration.  Duplicate-entry errors name
// the violated key, which tells the two booking conflicts apart.
const (
	keySeatDay = "uq_reservations_seat_day"
	keyUserDay = "uq_reservations_user_day"
	fkSeat     = "fk_reservations_seat"
)

// ReservationRepo persists reservations.  Both mutating methods are single
// conditional writes: the uniqueness check for a booking is performed by
// the unique indexes on the Active rows, and a cancellation is one UPDATE
// whose WHERE clause carries every precondition.  No read-then-write pair
// guards an invariant.
type ReservationRepo struct {
	db *sqlx.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const selectReservation = `SELECT id, user_id, seat_id, reservation_date, status, created_at, updated_at
                           FROM reservations WHERE id = ?`

// Create inserts an Active reservation for (userID, seatID, date) and
// returns the stored row.  It returns ErrSeatTaken or ErrUserHasBooking when
// the insert collides with an existing Active reservation, ErrConflict for
// any other duplicate, and ErrSeatNotFound when the seat row vanished.
func (r *ReservationRepo) Create(ctx context.Context, userID, seatID uint64, date model.Date) (*model.Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin reservation insert")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO reservations (user_id, seat_id, reservation_date, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, userID, seatID, date, model.StatusActive)
	if err != nil {
		return nil, classifyInsert(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "reservation insert id")
	}
	// Query back the full row to populate timestamps and defaults
	var out model.Reservation
	if err := tx.GetContext(ctx, &out, selectReservation, id); err != nil {
		return nil, errors.Wrap(err, "load inserted reservation")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit reservation insert")
	}
	committed = true
	return &out, nil
}

func classifyInsert(err error) error {
	switch {
	case isMySQLError(err, errDupEntry, keySeatDay):
		return ErrSeatTaken
	case isMySQLError(err, errDupEntry, keyUserDay):
		return ErrUserHasBooking
	case isMySQLError(err, errDupEntry, ""):
		return ErrConflict
	case isMySQLError(err, errNoReferencedRow, fkSeat):
		return ErrSeatNotFound
	}
	return errors.Wrap(err, "insert reservation")
}

// CancelActive moves the reservation to Cancelled if, and only if, it
// exists, belongs to userID, is still Active and is dated today or later.
// The check and the transition are one UPDATE statement, so of two
// concurrent calls at most one changes the row.  Every non-matching case
// returns ErrNotFound.
func (r *ReservationRepo) CancelActive(ctx context.Context, reservationID, userID uint64, today model.Date) (*model.Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin reservation cancel")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE reservations SET status = ?
               WHERE id = ? AND user_id = ? AND status = ? AND reservation_date >= ?`
	res, err := tx.ExecContext(ctx, q, model.StatusCancelled, reservationID, userID, model.StatusActive, today)
	if err != nil {
		return nil, errors.Wrap(err, "cancel reservation")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "cancel reservation rows affected")
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	var out model.Reservation
	if err := tx.GetContext(ctx, &out, selectReservation, reservationID); err != nil {
		return nil, errors.Wrap(err, "load cancelled reservation")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit reservation cancel")
	}
	committed = true
	return &out, nil
}

// ListByUser returns every reservation of the user joined with its seat,
// newest date first.  An empty slice is returned when there are none.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	const q = `SELECT r.id, r.seat_id, r.reservation_date, r.status, s.seat_number, s.location_area
               FROM reservations r
               JOIN seats s ON s.id = r.seat_id
               WHERE r.user_id = ?
               ORDER BY r.reservation_date DESC, r.id DESC`
	items := make([]model.ReservationDetail, 0)
	if err := r.db.SelectContext(ctx, &items, q, userID); err != nil {
		return nil, errors.Wrap(err, "list reservations by user")
	}
	return items, nil
}

// ReservationFilter narrows the admin reservation listing.  Zero fields
// are ignored.
type ReservationFilter struct {
	Date   model.Date
	Status model.ReservationStatus
	UserID uint64
}

// ListAll returns reservations across all users with intern and seat
// details, ordered by date descending then intern name.
func (r *ReservationRepo) ListAll(ctx context.Context, f ReservationFilter) ([]model.AdminReservationDetail, error) {
	qb := sq.Select(
		"r.id", "r.seat_id", "r.reservation_date", "r.status",
		"s.seat_number", "s.location_area",
		"r.user_id", "u.name AS intern_name", "u.email AS intern_email",
	).
		From("reservations r").
		Join("users u ON u.id = r.user_id").
		Join("seats s ON s.id = r.seat_id").
		OrderBy("r.reservation_date DESC", "u.name ASC", "r.id ASC")
	if !f.Date.IsZero() {
		qb = qb.Where(sq.Eq{"r.reservation_date": f.Date.String()})
	}
	if f.Status != "" {
		qb = qb.Where(sq.Eq{"r.status": string(f.Status)})
	}
	if f.UserID != 0 {
		qb = qb.Where(sq.Eq{"r.user_id": f.UserID})
	}
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build reservation listing")
	}
	items := make([]model.AdminReservationDetail, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, errors.Wrap(err, "list reservations")
	}
	return items, nil
}
