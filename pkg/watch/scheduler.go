package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrDuplicateJob is returned when a job name is added twice.
var ErrDuplicateJob = errors.New("job already scheduled")

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler runs named jobs on standard five-field cron expressions.
//
// Common cron expressions:
//   - "*/15 * * * *" - Every 15 minutes
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	entries map[string]cron.EntryID
	pending map[string]scheduled
	running bool
}

type scheduled struct {
	schedule cron.Schedule
	spec     string
	job      Job
}

// NewScheduler creates a new scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger.With("component", "watch.scheduler"),
		entries: make(map[string]cron.EntryID),
		pending: make(map[string]scheduled),
	}
}

// Add registers job under name. The cron expression is validated here so
// a bad schedule fails before Start.
func (s *Scheduler) Add(name, spec string, job Job) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	s.pending[name] = scheduled{schedule: schedule, spec: spec, job: job}
	return nil
}

// Start begins running registered jobs. Jobs receive ctx, and the
// scheduler stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already running")
	}
	if len(s.pending) == 0 {
		s.logger.Info("no scheduled jobs configured, skipping scheduler")
		return nil
	}

	for name, sj := range s.pending {
		s.entries[name] = s.cron.Schedule(sj.schedule, cron.FuncJob(func() {
			s.run(ctx, name, sj.job)
		}))
		s.logger.Info("job scheduled", "job", name, "schedule", sj.spec)
	}

	s.cron.Start()
	s.running = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) run(ctx context.Context, name string, job Job) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	s.logger.Info("starting scheduled job", "job", name)

	if err := job(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", name, "error", err)
		return
	}
	s.logger.Debug("scheduled job completed", "job", name, "duration", time.Since(start))
}

// Stop stops the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next run time of the named job, or nil when the job
// is unknown or the scheduler has not started.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return nil
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}
