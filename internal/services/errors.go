package services

import "errors"

// Service-level failures mapped to HTTP statuses at the handler boundary.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers cannot tell the two apart, so login responses do
	// not leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUserNotFound  = errors.New("user not found")
)
