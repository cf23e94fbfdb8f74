package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dcastano/authcalc-be/internal/models"
)

// Event types recorded by the auth flow.
const (
	EventRegister     = "auth.register"
	EventLoginSuccess = "auth.login.success"
	EventLoginFailure = "auth.login.failure"
)

// AuditServiceProvider defines the interface for the audit trail.
type AuditServiceProvider interface {
	RecordEvent(eventType, level, message string, userID *string) error
	GetRecentEvents(limit int) ([]models.AuditEvent, error)
	PruneOlderThan(cutoff time.Time) (int64, error)
}

// AuditService persists authentication audit events.
type AuditService struct {
	db *sql.DB
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db}
}

// RecordEvent logs a new audit event to the database.
func (s *AuditService) RecordEvent(eventType, level, message string, userID *string) error {
	event := models.AuditEvent{
		ID:      uuid.New().String(),
		Type:    eventType,
		Level:   level,
		Message: message,
		UserID:  userID,
	}

	stmt, err := s.db.Prepare("INSERT INTO audit_events (id, type, level, message, user_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.UserID)
	return err
}

// GetRecentEvents retrieves the most recent audit events.
func (s *AuditService) GetRecentEvents(limit int) ([]models.AuditEvent, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, user_id, created_at FROM audit_events ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var event models.AuditEvent
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneOlderThan deletes audit events created before the cutoff and returns
// how many were removed.
func (s *AuditService) PruneOlderThan(cutoff time.Time) (int64, error) {
	// created_at is filled by CURRENT_TIMESTAMP, which stores UTC in this
	// exact layout; format the cutoff the same way so the comparison holds.
	res, err := s.db.Exec("DELETE FROM audit_events WHERE created_at < ?", cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
