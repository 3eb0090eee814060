package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionPolicy decides which revisions a scheduled prune removes.
type RetentionPolicy struct {
	// Schedule is a five-field cron expression. Empty disables scheduling.
	Schedule string

	// RetentionDays is the age after which revisions become prunable.
	RetentionDays int

	// KeepRevisions is the number of newest revisions per source that are
	// never pruned.
	KeepRevisions int
}

// Cutoff returns the time before which revisions are prunable.
func (p RetentionPolicy) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.RetentionDays)
}

// Scheduler prunes a catalog on a cron schedule.
type Scheduler struct {
	catalog *Catalog
	policy  RetentionPolicy
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
	stop    chan struct{}
}

// NewScheduler creates a scheduler for catalog. It does nothing until Start.
func NewScheduler(catalog *Catalog, policy RetentionPolicy) *Scheduler {
	return &Scheduler{
		catalog: catalog,
		policy:  policy,
		cron:    cron.New(),
		logger:  catalog.logger.With("component", "catalog.scheduler"),
	}
}

// Start schedules pruning. It returns an error for an invalid schedule and
// does nothing when the schedule is empty. The scheduler stops when ctx is
// canceled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if s.policy.Schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.policy.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.policy.Schedule, err)
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.policy.Schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.stop = make(chan struct{})

	s.logger.Info("prune scheduler started",
		"schedule", s.policy.Schedule,
		"retention_days", s.policy.RetentionDays,
		"keep_revisions", s.policy.KeepRevisions,
	)

	go func(stop <-chan struct{}) {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stop:
		}
	}(s.stop)

	return nil
}

// RunOnce prunes immediately using the policy.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	return s.catalog.Prune(ctx, s.policy.Cutoff(s.catalog.now()), s.policy.KeepRevisions)
}

func (s *Scheduler) runPruning(ctx context.Context) {
	removed, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	s.logger.Debug("scheduled pruning completed", "removed", removed)
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stop)
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("prune scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled prune, or nil when not scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
