// Package validation checks the shape of auth request payloads before they
// reach the user store.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	maxEmailLen    = 255
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the set of field errors for one payload.
type Errors []FieldError

func (e Errors) Error() string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// Registration validates a registration payload. A nil return means the
// payload is well-formed.
func Registration(username, email, password string) Errors {
	var errs Errors

	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		errs = append(errs, FieldError{
			Field:   "username",
			Message: fmt.Sprintf("must be %d-%d characters", minUsernameLen, maxUsernameLen),
		})
	}

	if err := checkEmail(email); err != "" {
		errs = append(errs, FieldError{Field: "email", Message: err})
	}

	if err := checkPassword(password); err != "" {
		errs = append(errs, FieldError{Field: "password", Message: err})
	}

	return errs
}

// Login validates a login payload.
func Login(email, password string) Errors {
	var errs Errors

	if err := checkEmail(email); err != "" {
		errs = append(errs, FieldError{Field: "email", Message: err})
	}

	if password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "must not be empty"})
	}

	return errs
}

func checkEmail(email string) string {
	if email == "" {
		return "must not be empty"
	}
	if len(email) > maxEmailLen {
		return fmt.Sprintf("must be at most %d characters", maxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "must be a valid email address"
	}
	return ""
}

// checkPassword enforces the password strength rule: at least 8 characters
// with at least one upper-case letter, one lower-case letter, and one digit.
func checkPassword(password string) string {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return "must contain an upper-case letter, a lower-case letter, and a digit"
	}
	return ""
}
