package booking

import "github.com/pkg/errors"

// Expected outcomes of the booking engine.  Callers match them with
// errors.Is; anything else returned by the engine is an infrastructure
// failure.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPastDate        = errors.New("cannot book a date in the past")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Conflict reasons shown to the user.
const (
	ReasonSeatTaken   = "This seat is already booked for this date."
	ReasonUserBooked  = "You already have a booking on this date."
	ReasonEitherTaken = "This seat is already booked for this date, or you already have a booking on this day."
)

// Error is an expected outcome carrying a user-facing reason.  It matches
// its Kind under errors.Is.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Is(target error) bool { return target == e.Kind }

func invalid(reason string) error { return &Error{Kind: ErrInvalidArgument, Reason: reason} }

func conflict(reason string) error { return &Error{Kind: ErrConflict, Reason: reason} }

// Reason returns the user-facing message of an expected outcome, or the
// error text for anything else.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return err.Error()
}
