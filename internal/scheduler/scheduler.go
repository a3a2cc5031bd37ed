// Package scheduler runs notification cleanup on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/domain"
)

// Runner is the cleanup engine as seen by the scheduler.
type Runner interface {
	Run(ctx context.Context, now time.Time, req application.CleanupRequest) (application.CleanupResult, error)
}

// Scheduler fires the cleanup engine with no override, so every run uses
// the stored retention policy. A failing or panicking run is logged and
// the next tick proceeds as usual.
type Scheduler struct {
	runner   Runner
	schedule string
	now      func() time.Time
	logger   zerolog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// New creates a Scheduler for a standard five-field cron expression.
func New(runner Runner, schedule string) *Scheduler {
	logger := log.With().Str("component", "cleanup.scheduler").Logger()
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		now:      time.Now,
		logger:   logger,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(&logger)),
			cron.SkipIfStillRunning(cron.PrintfLogger(&logger)),
		)),
	}
}

// Start registers the job and starts the cron loop. It stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().Str("schedule", s.schedule).Msg("cleanup scheduler started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// RunOnce performs a single scheduled run. It never returns an error and
// never panics; outcomes are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("scheduled cleanup panicked")
		}
	}()

	res, err := s.runner.Run(ctx, s.now(), application.CleanupRequest{Trigger: application.TriggerSchedule})
	switch {
	case errors.Is(err, domain.ErrRetentionUnavailable):
		s.logger.Warn().Err(err).Msg("scheduled cleanup skipped: no retention policy configured")
	case err != nil:
		s.logger.Error().Err(err).Msg("scheduled cleanup failed")
	case res.DeletedCount == 0:
		s.logger.Debug().Int("older_than_days", res.PeriodDays).Msg("scheduled cleanup completed, nothing to delete")
	}
}

// Stop stops the cron loop and waits for a running cleanup to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("cleanup scheduler stopped")
}

// NextRun returns the next scheduled run, or nil when not started.
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
