package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"docflow/internal/blob"
	"docflow/internal/model"
	"docflow/internal/repository/blobstore"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *blobstore.Users) {
	t.Helper()
	users := blobstore.NewUsers(blob.NewMemory())
	svc := NewAuthService(users, []byte("test-secret"), 7*24*time.Hour, bcrypt.MinCost, slog.Default())
	return svc, users
}

func TestAuthService_InitializeSeedsOnce(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	require.NoError(t, svc.Initialize(ctx))
	seeded, err := users.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, seeded)

	// Passwords are never persisted in cleartext.
	for _, u := range seeded {
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "admin12345", u.PasswordHash)
	}

	// A second initialize leaves the collection alone.
	require.NoError(t, svc.Initialize(ctx))
	again, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(seeded))
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	session, err := svc.Register(ctx, RegisterInput{
		Email:     "maria@example.com",
		Password:  "s3cret-pass",
		FirstName: "Maria",
		LastName:  "Ivanova",
	})
	require.NoError(t, err)
	require.NotNil(t, session.User)

	// Registration auto-logs-in with a usable token and default role.
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, model.RoleUser, session.User.Role)
	assert.Empty(t, session.User.PasswordHash)
	assert.Equal(t, "Maria Ivanova", session.User.FullName())
	assert.False(t, session.User.IsAdmin())

	again, err := svc.Login(ctx, "maria@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, again.User.ID)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "maria@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	before, err := users.List(ctx)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "maria@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Same error for an unknown email; nothing reveals which field was wrong.
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	after, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "maria@example.com", Password: "one"})
	require.NoError(t, err)
	before, err := users.List(ctx)
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "maria@example.com", Password: "two"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	after, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: " ", Password: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	session, err := svc.Register(ctx, RegisterInput{Email: "maria@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	user, err := svc.Profile(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthService_ProfileBadToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Profile(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ProfileVanishedUser(t *testing.T) {
	ctx := context.Background()
	users := blobstore.NewUsers(blob.NewMemory())
	svc := NewAuthService(users, []byte("test-secret"), time.Hour, bcrypt.MinCost, slog.Default())

	session, err := svc.Register(ctx, RegisterInput{Email: "maria@example.com", Password: "pw"})
	require.NoError(t, err)

	// Token is valid but the backing user list is empty.
	fresh := NewAuthService(blobstore.NewUsers(blob.NewMemory()), []byte("test-secret"), time.Hour, bcrypt.MinCost, slog.Default())

	_, err = fresh.Profile(ctx, session.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
