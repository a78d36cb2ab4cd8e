package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := NewAuthService(users, "test-secret")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "s3cret", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	got, loginToken, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := NewAuthService(users, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "bob@example.com", "pw", "bob")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "bob@example.com", "pw2", "bob2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := NewAuthService(users, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "carol@example.com", "right", "carol")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_JWTRoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(newFakeUserStore(), "test-secret")

	token, err := svc.GenerateJWT("user-123")
	require.NoError(t, err)

	userID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestAuthService_JWTWrongSecret(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(newFakeUserStore(), "right-secret")
	other := NewAuthService(newFakeUserStore(), "wrong-secret")

	token, err := svc.GenerateJWT("user-123")
	require.NoError(t, err)

	_, err = other.ValidateJWT(token)
	assert.Error(t, err)

	_, err = svc.ValidateJWT("not.a.jwt")
	assert.Error(t, err)
}
