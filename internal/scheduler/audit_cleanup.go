package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Cleaner removes audit events older than a retention window.
type Cleaner interface {
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}

// AuditCleanupScheduler periodically prunes the audit trail.
type AuditCleanupScheduler struct {
	cleaner       Cleaner
	schedule      string
	retentionDays int
	log           zerolog.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a scheduler using a standard five-field
// cron expression.
func NewAuditCleanupScheduler(cleaner Cleaner, schedule string, retentionDays int, log zerolog.Logger) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		cleaner:       cleaner,
		schedule:      schedule,
		retentionDays: retentionDays,
		log:           log.With().Str("component", "audit_cleanup").Logger(),
		cron:          cron.New(cron.WithParser(parser)),
	}
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule reports whether schedule is a valid five-field expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// Start schedules the cleanup job. It stops when ctx is cancelled.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.Info().
		Str("schedule", s.schedule).
		Int("retention_days", s.retentionDays).
		Time("next_run", s.nextRunLocked()).
		Msg("audit cleanup scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.log.Info().Msg("audit cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will occur, or nil when stopped.
func (s *AuditCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.nextRunLocked()
	if next.IsZero() {
		return nil
	}
	return &next
}

func (s *AuditCleanupScheduler) nextRunLocked() time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			return entry.Next
		}
	}
	return time.Time{}
}

// RunOnce prunes the audit trail immediately.
func (s *AuditCleanupScheduler) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := s.cleaner.Cleanup(ctx, s.retentionDays)
	if err != nil {
		s.log.Error().Err(err).Msg("audit cleanup failed")
		return 0, err
	}
	s.log.Info().
		Int64("removed", removed).
		Dur("duration", time.Since(start)).
		Msg("audit cleanup finished")
	return removed, nil
}
