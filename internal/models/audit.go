package models

import "time"

// AuditEvent represents a loggable authentication action.
type AuditEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "auth.register", "auth.login.failure"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	UserID    *string   `json:"user_id,omitempty"` // Nullable for failed attempts
	CreatedAt time.Time `json:"created_at"`
}
