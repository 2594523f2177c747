package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-reservation/internal/model"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

var reservationCols = []string{"id", "user_id", "seat_id", "reservation_date", "status", "created_at", "updated_at"}

func TestReservationRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	day := model.MustParseDate("2025-06-10")
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(7, 3, "2025-06-10", "Active").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT id, user_id, seat_id, reservation_date, status").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(42, 7, 3, day.Time(), "Active", now, now))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), 7, 3, day)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.ID)
	assert.Equal(t, "2025-06-10", got.ReservationDate.String())
	assert.Equal(t, model.StatusActive, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_CreateClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "seat taken",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3-2025-06-10-1' for key 'reservations.uq_reservations_seat_day'"},
			want: ErrSeatTaken,
		},
		{
			name: "user already booked",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7-2025-06-10-1' for key 'reservations.uq_reservations_user_day'"},
			want: ErrUserHasBooking,
		},
		{
			name: "other duplicate",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '42' for key 'PRIMARY'"},
			want: ErrConflict,
		},
		{
			name: "seat vanished",
			err:  &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails (CONSTRAINT `fk_reservations_seat` ...)"},
			want: ErrSeatNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO reservations").WillReturnError(tt.err)
			mock.ExpectRollback()

			_, err := NewReservationRepo(db).Create(context.Background(), 7, 3, model.MustParseDate("2025-06-10"))
			require.ErrorIs(t, err, tt.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReservationRepo_CancelActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	today := model.MustParseDate("2025-06-09")
	day := model.MustParseDate("2025-06-10")
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs("Cancelled", 42, 7, "Active", "2025-06-09").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, user_id, seat_id").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(42, 7, 3, day.Time(), "Cancelled", now, now))
	mock.ExpectCommit()

	got, err := repo.CancelActive(context.Background(), 42, 7, today)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_CancelActiveNoMatch(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := NewReservationRepo(db).CancelActive(context.Background(), 42, 8, model.MustParseDate("2025-06-09"))
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	day := model.MustParseDate("2025-06-10")

	mock.ExpectQuery("FROM reservations r\\s+JOIN seats s").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_id", "reservation_date", "status", "seat_number", "location_area"}).
			AddRow(42, 3, day.Time(), "Active", "A1", "North Wing").
			AddRow(40, 4, day.AddDays(-1).Time(), "Cancelled", "A2", "North Wing"))

	got, err := NewReservationRepo(db).ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].SeatNumber)
	assert.Equal(t, model.StatusCancelled, got[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_ListByUserEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM reservations r").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_id", "reservation_date", "status", "seat_number", "location_area"}))

	got, err := NewReservationRepo(db).ListByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReservationRepo_ListAllFilters(t *testing.T) {
	db, mock := newMock(t)
	day := model.MustParseDate("2025-06-10")

	mock.ExpectQuery(`WHERE r\.reservation_date = \? AND r\.status = \? AND r\.user_id = \? ORDER BY r\.reservation_date DESC`).
		WithArgs("2025-06-10", "Active", 7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "seat_id", "reservation_date", "status", "seat_number", "location_area",
			"user_id", "intern_name", "intern_email",
		}).AddRow(42, 3, day.Time(), "Active", "A1", "North Wing", 7, "Ada", "ada@example.com"))

	got, err := NewReservationRepo(db).ListAll(context.Background(), ReservationFilter{
		Date: day, Status: model.StatusActive, UserID: 7,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ada", got[0].InternName)
	assert.Equal(t, "A1", got[0].SeatNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_ListAllNoFilter(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`JOIN seats s ON s\.id = r\.seat_id ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := NewReservationRepo(db).ListAll(context.Background(), ReservationFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
