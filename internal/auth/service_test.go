package auth

import (
	"context"
	"testing"
	"time"

	"github.com/revobank/revobank/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewStore(), NewTokenIssuer("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user, token, err := s.Register(ctx, RegisterRequest{
		Username:  "johndoe",
		Email:     "john.doe@example.com",
		Password:  "password123",
		FirstName: "John",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.PasswordHash, "password must be stored hashed")

	got, loginToken, err := s.Login(ctx, "johndoe", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	verified, err := s.Verify(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestService(t)
	_, _, err := s.Register(context.Background(), RegisterRequest{Username: "x"})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestRegisterConflicts(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, _, err := s.Register(ctx, RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)

	_, _, err = s.Register(ctx, RegisterRequest{Username: "jane", Email: "other@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = s.Register(ctx, RegisterRequest{Username: "janet", Email: "jane@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, _, err := s.Register(ctx, RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret"})
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "jane", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user, _, err := s.Register(ctx, RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	_, _, err = s.Register(ctx, RegisterRequest{Username: "taken", Email: "taken@example.com", Password: "pw"})
	require.NoError(t, err)

	first := "Jane"
	email := "jane.doe@example.com"
	updated, err := s.UpdateUser(ctx, user.ID, UserUpdate{FirstName: &first, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, "jane.doe@example.com", updated.Email)

	conflict := "taken@example.com"
	_, err = s.UpdateUser(ctx, user.ID, UserUpdate{Email: &conflict})
	require.ErrorIs(t, err, ErrEmailTaken)

	// password change invalidates the old one
	newPw := "rotated"
	_, err = s.UpdateUser(ctx, user.ID, UserUpdate{Password: &newPw})
	require.NoError(t, err)
	_, _, err = s.Login(ctx, "jane", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "jane", "rotated")
	require.NoError(t, err)
}

func TestTokenVerify(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)

	token, err := issuer.Issue("user-42")
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	_, err = issuer.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	// token signed with a different secret is rejected
	other := NewTokenIssuer("secret-b", time.Hour)
	foreign, err := other.Issue("user-42")
	require.NoError(t, err)
	_, err = issuer.Verify(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", -time.Minute)

	token, err := issuer.Issue("user-42")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
