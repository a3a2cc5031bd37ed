package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// Trigger identifies which entry point asked for a cleanup run.
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerAdmin    Trigger = "admin"
	TriggerCLI      Trigger = "cli"
)

// CleanupRequest parameterises one run. OverrideDays of zero means "use the
// stored retention policy"; a non-zero value is used for this run only and
// is never written back.
type CleanupRequest struct {
	Trigger      Trigger
	OverrideDays int
}

// CleanupResult is what a successful run reports.
type CleanupResult struct {
	DeletedCount int64     `json:"deletedCount"`
	PeriodDays   int       `json:"periodDays"`
	Cutoff       time.Time `json:"cutoff"`
}

// CleanupEngine deletes notifications older than the effective retention
// window. It holds no state of its own; the scheduler, the admin endpoint
// and the cleanup command all share one instance of it.
type CleanupEngine struct {
	notifications domain.NotificationRepository
	policies      domain.RetentionRepository
	metrics       *Metrics
}

// NewCleanupEngine creates a CleanupEngine. metrics may be nil.
func NewCleanupEngine(notifications domain.NotificationRepository, policies domain.RetentionRepository, metrics *Metrics) *CleanupEngine {
	return &CleanupEngine{notifications: notifications, policies: policies, metrics: metrics}
}

// Run deletes every notification created strictly before now minus the
// effective window. It fails with domain.ErrRetentionUnavailable when no
// override is given and no policy is stored; nothing is deleted in that case.
func (e *CleanupEngine) Run(ctx context.Context, now time.Time, req CleanupRequest) (CleanupResult, error) {
	days, err := e.window(ctx, req.OverrideDays)
	if err != nil {
		e.metrics.observeRun(req.Trigger, outcomeOf(err), 0)
		return CleanupResult{}, err
	}

	cutoff := domain.Cutoff(now, days)
	deleted, err := e.notifications.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		e.metrics.observeRun(req.Trigger, outcomeStoreFailure, 0)
		return CleanupResult{}, fmt.Errorf("delete notifications older than %d days: %w", days, err)
	}
	e.metrics.observeRun(req.Trigger, outcomeOK, deleted)

	log.Info().
		Str("source", string(req.Trigger)).
		Int64("deleted", deleted).
		Int("older_than_days", days).
		Time("cutoff", cutoff).
		Msg("notification cleanup completed")

	return CleanupResult{DeletedCount: deleted, PeriodDays: days, Cutoff: cutoff}, nil
}

// window resolves the retention window for a run.
func (e *CleanupEngine) window(ctx context.Context, override int) (int, error) {
	if override != 0 {
		if err := domain.ValidatePeriodDays("days", override); err != nil {
			return 0, err
		}
		return override, nil
	}

	policy, err := e.policies.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPolicyNotConfigured) {
			return 0, fmt.Errorf("%w: %w", domain.ErrRetentionUnavailable, err)
		}
		return 0, fmt.Errorf("load retention policy: %w", err)
	}
	return policy.PeriodDays, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrRetentionUnavailable):
		return outcomeUnavailable
	case errors.Is(err, domain.ErrInvalidPolicy):
		return outcomeInvalid
	default:
		return outcomeStoreFailure
	}
}
