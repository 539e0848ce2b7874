package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepository(newTestDB(t))

	user := domain.User{
		Username:     "ola",
		Email:        "ola@example.com",
		PasswordHash: "hash",
		Notify:       true,
	}
	require.NoError(t, repo.CreateUser(ctx, user))

	t.Run("ReadUser", func(t *testing.T) {
		got, err := repo.ReadUser(ctx, "ola")
		require.NoError(t, err)

		user.Favourites = []int64{}
		assert.Equal(t, user, got)
	})

	t.Run("ReadUserNotFound", func(t *testing.T) {
		_, err := repo.ReadUser(ctx, "kari")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		err := repo.CreateUser(ctx, domain.User{Username: "ola", Email: "other@example.com"})
		require.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		err := repo.CreateUser(ctx, domain.User{Username: "kari", Email: "ola@example.com"})
		require.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("WithoutEmail", func(t *testing.T) {
		require.NoError(t, repo.CreateUser(ctx, domain.User{Username: "per"}))
		require.NoError(t, repo.CreateUser(ctx, domain.User{Username: "pål"}))

		got, err := repo.ReadUser(ctx, "pål")
		require.NoError(t, err)
		assert.Empty(t, got.Email)

		_, err = repo.ReadUsernameByEmail(ctx, "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ReadUsernameByEmail", func(t *testing.T) {
		username, err := repo.ReadUsernameByEmail(ctx, "ola@example.com")
		require.NoError(t, err)
		assert.Equal(t, "ola", username)

		_, err = repo.ReadUsernameByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateNotification", func(t *testing.T) {
		require.NoError(t, repo.UpdateNotification(ctx, "ola", false))

		got, err := repo.ReadUser(ctx, "ola")
		require.NoError(t, err)
		assert.False(t, got.Notify)

		err = repo.UpdateNotification(ctx, "kari", true)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ToggleFavourite", func(t *testing.T) {
		added, err := repo.ToggleFavourite(ctx, "ola", 7)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = repo.ToggleFavourite(ctx, "ola", 9)
		require.NoError(t, err)
		assert.True(t, added)

		got, err := repo.ReadUser(ctx, "ola")
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 9}, got.Favourites)

		added, err = repo.ToggleFavourite(ctx, "ola", 7)
		require.NoError(t, err)
		assert.False(t, added)

		got, err = repo.ReadUser(ctx, "ola")
		require.NoError(t, err)
		assert.Equal(t, []int64{9}, got.Favourites)

		_, err = repo.ToggleFavourite(ctx, "kari", 7)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DeleteUser", func(t *testing.T) {
		require.NoError(t, repo.DeleteUser(ctx, "ola"))

		_, err := repo.ReadUser(ctx, "ola")
		require.ErrorIs(t, err, domain.ErrNotFound)

		err = repo.DeleteUser(ctx, "ola")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUniqueViolation(t *testing.T) {
	_, ok := uniqueViolation(errors.New("UNIQUE constraint failed: users.email"))
	assert.False(t, ok)

	column, ok := uniqueViolation(&pgconn.PgError{
		Code: pgUniqueViolation, ConstraintName: "users_email_key",
	})
	assert.True(t, ok)
	assert.Equal(t, "email", column)

	column, ok = uniqueViolation(&pgconn.PgError{
		Code: pgUniqueViolation, ConstraintName: "users_pkey",
	})
	assert.True(t, ok)
	assert.Equal(t, "username", column)

	_, ok = uniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)
}

func TestFavouritesCodec(t *testing.T) {
	assert.Equal(t, []int64{}, decodeFavourites(sql.NullString{}))
	assert.Equal(t, []int64{}, decodeFavourites(sql.NullString{String: "{", Valid: true}))
	assert.Equal(t, []int64{1, 2},
		decodeFavourites(sql.NullString{String: "[1,2]", Valid: true}))

	encoded, err := encodeFavourites(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)
}
