package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcastano/authcalc-be/internal/auth"
	"github.com/dcastano/authcalc-be/internal/database"
)

func newTestUserService(t *testing.T) (*UserService, *AuditService) {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	audit := NewAuditService(db)
	svc, err := NewUserService(db, auth.NewHasher(bcrypt.MinCost), audit)
	require.NoError(t, err)
	return svc, audit
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.CreateUser("johndoe", "john@example.com", "SecurePass123")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "johndoe", user.Username)
	assert.Equal(t, "john@example.com", user.Email)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	first, err := svc.CreateUser("johndoe", "john@example.com", "SecurePass123")
	require.NoError(t, err)

	_, err = svc.CreateUser("janedoe", "john@example.com", "OtherPass456")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// The first record must be untouched by the failed insert.
	kept, err := svc.GetUserByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", kept.Username)

	_, err = svc.AuthenticateUser("john@example.com", "SecurePass123")
	assert.NoError(t, err)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.CreateUser("johndoe", "john@example.com", "SecurePass123")
	require.NoError(t, err)

	_, err = svc.CreateUser("johndoe", "jane@example.com", "OtherPass456")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticateUser(t *testing.T) {
	svc, _ := newTestUserService(t)

	created, err := svc.CreateUser("johndoe", "john@example.com", "SecurePass123")
	require.NoError(t, err)

	user, err := svc.AuthenticateUser("john@example.com", "SecurePass123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticateUser_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.CreateUser("johndoe", "john@example.com", "SecurePass123")
	require.NoError(t, err)

	_, wrongPassword := svc.AuthenticateUser("john@example.com", "WrongPass456")
	_, unknownEmail := svc.AuthenticateUser("nobody@example.com", "SecurePass123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.GetUserByID("no-such-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newTestUserService(t)

	created, err := svc.CreateUser("johndoe", "john@example.com", "SecurePass123")
	require.NoError(t, err)

	authed, err := svc.AuthenticateUser("john@example.com", "SecurePass123")
	require.NoError(t, err)

	tokens := auth.NewTokenManager("super-secret", 30*time.Minute)
	token, err := tokens.Issue(authed.ID)
	require.NoError(t, err)

	subject, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, subject)
}

func TestAuthFlowRecordsAuditEvents(t *testing.T) {
	svc, audit := newTestUserService(t)

	_, err := svc.CreateUser("johndoe", "john@example.com", "SecurePass123")
	require.NoError(t, err)
	_, _ = svc.AuthenticateUser("john@example.com", "WrongPass456")
	_, _ = svc.AuthenticateUser("john@example.com", "SecurePass123")

	events, err := audit.GetRecentEvents(10)
	require.NoError(t, err)

	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	assert.ElementsMatch(t, []string{EventRegister, EventLoginFailure, EventLoginSuccess}, types)
}
