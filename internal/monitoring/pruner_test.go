package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/authcalc-be/internal/models"
)

type mockAuditService struct {
	pruned chan time.Time
}

func (m *mockAuditService) RecordEvent(eventType, level, message string, userID *string) error {
	return nil
}

func (m *mockAuditService) GetRecentEvents(limit int) ([]models.AuditEvent, error) {
	return nil, nil
}

func (m *mockAuditService) PruneOlderThan(cutoff time.Time) (int64, error) {
	m.pruned <- cutoff
	return 0, nil
}

func TestNewPruner_RejectsBadCronExpression(t *testing.T) {
	_, err := NewPruner(&mockAuditService{}, 30, "not a cron expr")
	assert.Error(t, err)
}

func TestPruner_PrunesOnStartWithRetentionCutoff(t *testing.T) {
	audit := &mockAuditService{pruned: make(chan time.Time, 1)}

	p, err := NewPruner(audit, 30, "@daily")
	require.NoError(t, err)

	go p.Run()
	defer p.Stop()

	select {
	case cutoff := <-audit.pruned:
		wantCutoff := time.Now().Add(-30 * 24 * time.Hour)
		assert.WithinDuration(t, wantCutoff, cutoff, time.Minute)
	case <-time.After(2 * time.Second):
		t.Fatal("prune was not called on start")
	}
}
