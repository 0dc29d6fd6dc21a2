package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/storage"
)

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory(), Credentials{})

	user, err := svc.SignUp(ctx, "  Alice@Example.COM ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	id, admin, err := svc.SignIn(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.False(t, admin)
	assert.Equal(t, string(user.ID), id)

	_, _, err = svc.SignIn(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory(), Credentials{})

	_, err := svc.SignUp(ctx, "bob@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "BOB@example.com", "pw2")
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	taken, err := svc.EmailTaken(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestAdminSignIn(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory(), Credentials{Email: "admin@example.com", Password: "root"})

	id, admin, err := svc.SignIn(ctx, "admin@example.com", "root")
	require.NoError(t, err)
	assert.True(t, admin)
	assert.Equal(t, AdminAccountID, id)

	_, _, err = svc.SignIn(ctx, "admin@example.com", "not-root")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminWinsOverStoredAccount(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := NewService(store, Credentials{Email: "admin@example.com", Password: "root"})

	_, err := svc.SignUp(ctx, "admin@example.com", "userpw")
	require.NoError(t, err)

	id, admin, err := svc.SignIn(ctx, "admin@example.com", "root")
	require.NoError(t, err)
	assert.True(t, admin)
	assert.Equal(t, AdminAccountID, id)

	id, admin, err = svc.SignIn(ctx, "admin@example.com", "userpw")
	require.NoError(t, err)
	assert.False(t, admin)
	assert.NotEqual(t, AdminAccountID, id)
}
