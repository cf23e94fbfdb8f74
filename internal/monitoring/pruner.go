package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/dcastano/authcalc-be/internal/services"
)

// Pruner deletes audit events past the retention window on a cron schedule.
type Pruner struct {
	audit     services.AuditServiceProvider
	retention time.Duration
	schedule  cron.Schedule
	done      chan bool
}

// NewPruner creates a pruner keeping retentionDays of audit events and
// running on the given cron expression (e.g. "@daily").
func NewPruner(audit services.AuditServiceProvider, retentionDays int, cronExpr string) (*Pruner, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Pruner{
		audit:     audit,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  schedule,
		done:      make(chan bool),
	}, nil
}

// Run starts the pruning loop. It prunes once on start, then sleeps until
// each next scheduled run.
func (p *Pruner) Run() {
	log.Info().Msg("Starting audit event pruner")
	p.prune()

	for {
		timer := time.NewTimer(time.Until(p.schedule.Next(time.Now())))
		select {
		case <-p.done:
			timer.Stop()
			log.Info().Msg("Stopping audit event pruner")
			return
		case <-timer.C:
			p.prune()
		}
	}
}

// Stop halts the pruning loop.
func (p *Pruner) Stop() {
	p.done <- true
}

func (p *Pruner) prune() {
	cutoff := time.Now().Add(-p.retention)
	removed, err := p.audit.PruneOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune audit events")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Pruned audit events")
	}
}
