package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/kv"
	"github.com/roiro0607-create/Between/internal/models"
)

func TestUserCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore(), zap.NewNop())

	user := &models.User{
		ID:       "user_1",
		Email:    "taro@example.com",
		Password: "$2a$10$hash",
		Name:     "Taro",
		Age:      28,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, "taro@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "taro@example.com")
	require.NoError(t, err)
	require.Equal(t, "user_1", byEmail.ID)
}

func TestUserDuplicateEmailRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore(), zap.NewNop())

	first := &models.User{ID: "user_1", Email: "dup@example.com", Password: "h", Name: "A", Age: 20}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.User{ID: "user_2", Email: "dup@example.com", Password: "h", Name: "B", Age: 30}
	err := repo.Create(ctx, second)
	require.ErrorIs(t, err, ErrEmailAlreadyExists)

	// Index still points at the first registration.
	got, err := repo.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	require.Equal(t, "user_1", got.ID)
}

func TestUserNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore(), zap.NewNop())

	_, err := repo.GetByID(ctx, "user_missing")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUpdatePersists(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore(), zap.NewNop())

	user := &models.User{ID: "user_1", Email: "a@example.com", Password: "h", Name: "Old", Age: 20}
	require.NoError(t, repo.Create(ctx, user))

	user.Name = "New"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, "New", got.Name)
}
