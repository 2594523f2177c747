package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = time.DateOnly

var (
	// ErrDateRequired is returned by ParseDate for an empty string.
	ErrDateRequired = errors.New("date is required")
	// ErrDateFormat is returned by ParseDate when the input is not YYYY-MM-DD.
	ErrDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

// Date is a calendar date without a time-of-day or zone.  Internally it is
// kept at midnight UTC so that two Dates compare equal exactly when their
// year, month and day match.  The zero value means "no date".
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string.  Surrounding whitespace is ignored.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrDateRequired
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Wrapf(ErrDateFormat, "parse %q", s)
	}
	return Date{t: t}, nil
}

// MustParseDate is like ParseDate but panics on error.  Intended for tests
// and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar date of t in t's own location.  Passing a
// time in time.Local yields the server's local calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; dates are sent to MySQL as 'YYYY-MM-DD'.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.  With parseTime=true the MySQL driver hands
// DATE columns over as time.Time; raw byte and string forms are accepted too.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	}
	return errors.Errorf("model.Date: cannot scan %T", src)
}

func (d *Date) scanString(s string) error {
	// DATETIME text forms carry a time part; only the date is relevant.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
