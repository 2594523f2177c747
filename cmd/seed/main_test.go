package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

type stubUsers struct {
	existing *model.User
	created  []string
}

func (s *stubUsers) Create(_ context.Context, name, email, password, role string, cost int) (uint64, error) {
	s.created = append(s.created, email+":"+role)
	return 1, nil
}

func (s *stubUsers) GetByEmail(context.Context, string) (*model.User, error) {
	if s.existing == nil {
		return nil, repository.ErrNotFound
	}
	return s.existing, nil
}

func TestEnsureAdmin(t *testing.T) {
	a := admin{Name: "Admin", Email: "admin@office.com", Password: "changeme1"}

	users := &stubUsers{}
	require.NoError(t, ensureAdmin(context.Background(), users, a, 4, zap.NewNop()))
	assert.Equal(t, []string{"admin@office.com:Admin"}, users.created)

	users = &stubUsers{existing: &model.User{ID: 1, Email: "admin@office.com", Role: model.RoleAdmin}}
	require.NoError(t, ensureAdmin(context.Background(), users, a, 4, zap.NewNop()))
	assert.Empty(t, users.created)

	a.Password = ""
	assert.Error(t, ensureAdmin(context.Background(), &stubUsers{}, a, 4, zap.NewNop()))
}
