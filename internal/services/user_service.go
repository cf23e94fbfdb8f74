package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dcastano/authcalc-be/internal/auth"
	"github.com/dcastano/authcalc-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(username, email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides the registration and login flow over the user store.
type UserService struct {
	db     *sql.DB
	hasher *auth.Hasher
	audit  AuditServiceProvider

	// dummyHash is compared against when the email is unknown, so the
	// unknown-email and wrong-password paths cost the same.
	dummyHash string
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher *auth.Hasher, audit AuditServiceProvider) (*UserService, error) {
	dummyHash, err := hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &UserService{db: db, hasher: hasher, audit: audit, dummyHash: dummyHash}, nil
}

// CreateUser creates a new user, hashing their password. Duplicate usernames
// and emails surface as ErrUsernameTaken / ErrEmailTaken.
func (s *UserService) CreateUser(username, email, password string) (models.User, error) {
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		if conflictErr := mapUniqueViolation(err); conflictErr != nil {
			return models.User{}, conflictErr
		}
		return models.User{}, err
	}

	// created_at is set by the table default
	if err := s.db.QueryRow("SELECT created_at FROM users WHERE id = ?", user.ID).Scan(&user.CreatedAt); err != nil {
		return models.User{}, err
	}

	s.recordEvent(EventRegister, "info", fmt.Sprintf("user %s registered", user.Username), &user.ID)

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the
// password hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// AuthenticateUser verifies a user's credentials. An unknown email and a
// wrong password both return ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.recordEvent(EventLoginFailure, "warn", fmt.Sprintf("login failed for %s", email), nil)
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordEvent(EventLoginFailure, "warn", fmt.Sprintf("login failed for %s", email), &user.ID)
		return models.User{}, ErrInvalidCredentials
	}

	s.recordEvent(EventLoginSuccess, "info", fmt.Sprintf("user %s logged in", user.Username), &user.ID)

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) recordEvent(eventType, level, message string, userID *string) {
	if err := s.audit.RecordEvent(eventType, level, message, userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record audit event")
	}
}

// mapUniqueViolation translates a SQLite UNIQUE constraint failure into the
// matching conflict error, or returns nil for unrelated errors.
func mapUniqueViolation(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return nil
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && se.Code() != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}
	if strings.Contains(se.Error(), "users.username") {
		return ErrUsernameTaken
	}
	if strings.Contains(se.Error(), "users.email") {
		return ErrEmailTaken
	}
	return nil
}
