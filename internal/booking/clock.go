package booking

import (
	"time"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// Clock supplies the current time.  "Today" is the calendar date of Now in
// the clock's location.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the server's local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// Today returns the calendar date of clk.Now().
func Today(clk Clock) model.Date { return model.DateOf(clk.Now()) }
