// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking engine and handlers to distinguish between different failure
// scenarios without inspecting driver error codes. For example,
// ErrSeatTaken and ErrUserHasBooking report which uniqueness rule a
// reservation insert violated, while ErrConflict signals that an
// operation cannot proceed due to existing dependent records (e.g.
// deleting a seat that has reservations).
package repository

import (
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a conditional read or update matched no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a seat that is still referenced by reservations. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSeatTaken is returned when an Active reservation already exists for
// the same seat and date.
var ErrSeatTaken = errors.New("seat already booked for this date")

// ErrUserHasBooking is returned when the user already holds an Active
// reservation on the same date.
var ErrUserHasBooking = errors.New("user already has a booking on this date")

// MySQL server error numbers the repositories translate.
const (
	errDupEntry        = 1062 // ER_DUP_ENTRY
	errRowIsReferenced = 1451 // ER_ROW_IS_REFERENCED_2
	errNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// mysqlError unwraps err into a *mysql.MySQLError when it is one.
func mysqlError(err error) (*mysql.MySQLError, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// isMySQLError reports whether err is a MySQL error with the given number
// whose message mentions key (an index or constraint name).  An empty key
// matches any message.
func isMySQLError(err error, number uint16, key string) bool {
	me, ok := mysqlError(err)
	if !ok || me.Number != number {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}
