// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lectern-app/lectern/internal/audit"
)

// AuditCleanupScheduler prunes aged audit files on a cron schedule.
type AuditCleanupScheduler struct {
	auditor       *audit.Auditor
	retentionDays int
	schedule      string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewAuditCleanupScheduler creates a scheduler pruning files older than
// retentionDays according to a standard five-field cron schedule.
func NewAuditCleanupScheduler(auditor *audit.Auditor, retentionDays int, schedule string) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		auditor:       auditor,
		retentionDays: retentionDays,
		schedule:      schedule,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. Calling Start on a running scheduler is a
// no-op.
func (s *AuditCleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.retentionDays <= 0 {
		log.Printf("Audit cleanup scheduler: retention disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Audit cleanup scheduler: running '%s' (retention %d days)", s.schedule, s.retentionDays)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
}

func (s *AuditCleanupScheduler) runCleanup() {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	removed, err := s.auditor.Prune(cutoff)
	if err != nil {
		log.Printf("Audit cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Audit cleanup removed %d files older than %s", removed, cutoff.Format(time.DateOnly))
	}
}
