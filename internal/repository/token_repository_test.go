package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenCols = []string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}

func TestTokenRepo_ValidateRefresh(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Hour)

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantID  uint64
		wantErr error
	}{
		{
			name:   "valid",
			rows:   sqlmock.NewRows(tokenCols).AddRow(1, 7, "h", now.Add(time.Hour), nil, now),
			wantID: 7,
		},
		{
			name:    "expired",
			rows:    sqlmock.NewRows(tokenCols).AddRow(1, 7, "h", now.Add(-time.Minute), nil, now),
			wantErr: ErrTokenInvalid,
		},
		{
			name:    "revoked",
			rows:    sqlmock.NewRows(tokenCols).AddRow(1, 7, "h", now.Add(time.Hour), revoked, now),
			wantErr: ErrTokenInvalid,
		},
		{
			name:    "unknown",
			rows:    sqlmock.NewRows(tokenCols),
			wantErr: ErrTokenInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewTokenRepo(db)
			repo.Now = func() time.Time { return now }
			mock.ExpectQuery("FROM refresh_tokens WHERE token_hash=?").WithArgs("h").WillReturnRows(tt.rows)

			id, err := repo.ValidateRefresh(context.Background(), "h")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestTokenRepo_StoreAndRevoke(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)
	exp := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO refresh_tokens").WithArgs(7, "h", exp).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW\\(\\) WHERE token_hash=?").WithArgs("h").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW\\(\\) WHERE user_id=?").WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.StoreRefresh(context.Background(), 7, "h", exp))
	require.NoError(t, repo.RevokeByHash(context.Background(), "h"))
	require.NoError(t, repo.RevokeAllForUser(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}
