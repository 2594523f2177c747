// Package booking is the booking consistency engine.  The Resolver answers
// availability queries; the Manager books and cancels reservations through
// single conditional writes on the store, so that a seat is never held by
// two Active reservations on one day and a user never holds two.
package booking

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/metrics"
	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

// ReservationStore performs the atomic reservation writes.  Create must
// fail with repository.ErrSeatTaken, repository.ErrUserHasBooking or
// repository.ErrConflict instead of inserting a second Active row, and
// CancelActive must return repository.ErrNotFound unless its single
// conditional update changed a row.
type ReservationStore interface {
	Create(ctx context.Context, userID, seatID uint64, date model.Date) (*model.Reservation, error)
	CancelActive(ctx context.Context, reservationID, userID uint64, today model.Date) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error)
}

// SeatStore looks seats up.
type SeatStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Seat, error)
	ListAvailable(ctx context.Context, date model.Date) ([]model.Seat, error)
}

// UserStore resolves the recipient of a notification.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Notifier receives reservation events after they are committed.  Calls
// must not block; delivery is best effort.
type Notifier interface {
	Confirmed(user model.User, r model.Reservation, seat model.Seat)
	Cancelled(user model.User, r model.Reservation, seat model.Seat)
}

// Resolver computes seat availability.
type Resolver struct {
	seats SeatStore
}

func NewResolver(seats SeatStore) *Resolver { return &Resolver{seats: seats} }

// ListAvailable returns the seats with no Active reservation on date,
// ordered by seat number.  Past dates are accepted.
func (r *Resolver) ListAvailable(ctx context.Context, date string) ([]model.Seat, error) {
	d, err := model.ParseDate(date)
	if err != nil {
		return nil, invalid("date must be a valid YYYY-MM-DD date")
	}
	seats, err := r.seats.ListAvailable(ctx, d)
	if err != nil {
		return nil, errors.Wrap(err, "list available seats")
	}
	return seats, nil
}

// Manager books and cancels reservations.
type Manager struct {
	reservations ReservationStore
	seats        SeatStore
	users        UserStore
	notifier     Notifier
	clock        Clock
	log          *zap.Logger
}

func NewManager(reservations ReservationStore, seats SeatStore, users UserStore, notifier Notifier, clk Clock, log *zap.Logger) *Manager {
	if clk == nil {
		clk = SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		reservations: reservations,
		seats:        seats,
		users:        users,
		notifier:     notifier,
		clock:        clk,
		log:          log.Named("booking"),
	}
}

// Book reserves seatID for userID on date.  Expected rejections are
// returned as *Error values matching ErrInvalidArgument, ErrPastDate,
// ErrNotFound or ErrConflict.  On success a confirmation is handed to the
// notifier without waiting for delivery.
func (m *Manager) Book(ctx context.Context, userID, seatID uint64, date string) (*model.Reservation, error) {
	r, seat, err := m.book(ctx, userID, seatID, date)
	metrics.Booking(bookingOutcome(err))
	if err != nil {
		return nil, err
	}
	m.notify(ctx, r, seat, true)
	return r, nil
}

func (m *Manager) book(ctx context.Context, userID, seatID uint64, date string) (*model.Reservation, *model.Seat, error) {
	if seatID == 0 {
		return nil, nil, invalid("seat_id is required")
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return nil, nil, invalid("reservation_date must be a valid YYYY-MM-DD date")
	}
	if d.Before(Today(m.clock)) {
		return nil, nil, &Error{Kind: ErrPastDate, Reason: "Cannot book a seat for a past date."}
	}
	seat, err := m.seats.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return nil, nil, &Error{Kind: ErrNotFound, Reason: "Seat not found."}
		}
		return nil, nil, errors.Wrap(err, "look up seat")
	}

	r, err := m.reservations.Create(ctx, userID, seatID, d)
	switch {
	case err == nil:
		return r, seat, nil
	case errors.Is(err, repository.ErrSeatTaken):
		return nil, nil, conflict(ReasonSeatTaken)
	case errors.Is(err, repository.ErrUserHasBooking):
		return nil, nil, conflict(ReasonUserBooked)
	case errors.Is(err, repository.ErrConflict):
		return nil, nil, conflict(ReasonEitherTaken)
	case errors.Is(err, repository.ErrSeatNotFound):
		// seat deleted between lookup and insert
		return nil, nil, &Error{Kind: ErrNotFound, Reason: "Seat not found."}
	}
	return nil, nil, errors.Wrap(err, "create reservation")
}

// Cancel moves the caller's Active reservation to Cancelled when its date
// is today or later.  Every other case, including someone else's
// reservation, returns ErrNotFound.
func (m *Manager) Cancel(ctx context.Context, userID, reservationID uint64) (*model.Reservation, error) {
	r, err := m.cancel(ctx, userID, reservationID)
	metrics.Cancellation(cancelOutcome(err))
	if err != nil {
		return nil, err
	}
	if m.notifier == nil {
		return r, nil
	}
	seat, err := m.seats.GetByID(ctx, r.SeatID)
	if err != nil {
		m.log.Warn("cancellation notice skipped: seat lookup failed",
			zap.Uint64("reservation_id", r.ID), zap.Error(err))
		return r, nil
	}
	m.notify(ctx, r, seat, false)
	return r, nil
}

func (m *Manager) cancel(ctx context.Context, userID, reservationID uint64) (*model.Reservation, error) {
	if reservationID == 0 {
		return nil, invalid("reservation id is required")
	}
	r, err := m.reservations.CancelActive(ctx, reservationID, userID, Today(m.clock))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &Error{Kind: ErrNotFound, Reason: "Reservation not found or cannot be cancelled."}
		}
		return nil, errors.Wrap(err, "cancel reservation")
	}
	return r, nil
}

// ListMine returns the user's reservations, newest date first.
func (m *Manager) ListMine(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	items, err := m.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list reservations")
	}
	return items, nil
}

// notify hands a committed reservation to the notifier.  Failures to
// resolve the recipient are logged and never reach the caller.
func (m *Manager) notify(ctx context.Context, r *model.Reservation, seat *model.Seat, confirmed bool) {
	if m.notifier == nil || m.users == nil {
		return
	}
	u, err := m.users.GetByID(ctx, r.UserID)
	if err != nil {
		m.log.Warn("notification skipped: user lookup failed",
			zap.Uint64("reservation_id", r.ID), zap.Error(err))
		return
	}
	if confirmed {
		m.notifier.Confirmed(*u, *r, *seat)
		return
	}
	m.notifier.Cancelled(*u, *r, *seat)
}

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeBooked
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrPastDate):
		return metrics.OutcomePastDate
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}

func cancelOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCancelled
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
