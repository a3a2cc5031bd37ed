package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/infrastructure/memory"
)

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// seedAged inserts one notification per age (in days before now).
func seedAged(t *testing.T, repo *memory.NotificationRepository, ages ...int) map[int]uuid.UUID {
	t.Helper()
	ids := make(map[int]uuid.UUID, len(ages))
	owner := uuid.New()
	for _, age := range ages {
		created := now.AddDate(0, 0, -age)
		repo.Clock = func() time.Time { return created }
		n, err := repo.Create(context.Background(), domain.CreateNotificationInput{UserID: owner, Message: "hello"})
		require.NoError(t, err)
		ids[age] = n.ID
	}
	repo.Clock = time.Now
	return ids
}

func newEngine(t *testing.T, periodDays int) (*application.CleanupEngine, *memory.NotificationRepository, *memory.RetentionRepository) {
	t.Helper()
	notifications := memory.NewNotificationRepository()
	policies := memory.NewRetentionRepository()
	if periodDays > 0 {
		_, err := policies.Upsert(context.Background(), periodDays)
		require.NoError(t, err)
	}
	return application.NewCleanupEngine(notifications, policies, nil), notifications, policies
}

func TestCleanup_UsesStoredPolicy(t *testing.T) {
	engine, notifications, _ := newEngine(t, 30)
	ids := seedAged(t, notifications, 40, 29, 1)

	res, err := engine.Run(context.Background(), now, application.CleanupRequest{Trigger: application.TriggerSchedule})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.DeletedCount)
	require.Equal(t, 30, res.PeriodDays)
	require.Equal(t, now.AddDate(0, 0, -30), res.Cutoff)

	_, err = notifications.GetByID(context.Background(), ids[40])
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, 2, notifications.Len())
}

func TestCleanup_OverrideDoesNotTouchPolicy(t *testing.T) {
	engine, notifications, policies := newEngine(t, 30)
	seedAged(t, notifications, 40, 29, 1)

	res, err := engine.Run(context.Background(), now, application.CleanupRequest{
		Trigger:      application.TriggerAdmin,
		OverrideDays: 10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), res.DeletedCount)

	p, err := policies.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30, p.PeriodDays)
}

func TestCleanup_NoPolicyNoOverride(t *testing.T) {
	engine, notifications, _ := newEngine(t, 0)
	seedAged(t, notifications, 400, 40, 1)

	_, err := engine.Run(context.Background(), now, application.CleanupRequest{Trigger: application.TriggerSchedule})
	require.ErrorIs(t, err, domain.ErrRetentionUnavailable)
	require.ErrorIs(t, err, domain.ErrPolicyNotConfigured)
	require.Equal(t, 3, notifications.Len())
}

func TestCleanup_RejectsNegativeOverride(t *testing.T) {
	engine, notifications, _ := newEngine(t, 30)
	seedAged(t, notifications, 40)

	_, err := engine.Run(context.Background(), now, application.CleanupRequest{OverrideDays: -3})
	require.ErrorIs(t, err, domain.ErrInvalidPolicy)
	require.Equal(t, 1, notifications.Len())
}

func TestCleanup_BoundaryIsStrict(t *testing.T) {
	engine, notifications, _ := newEngine(t, 30)
	seedAged(t, notifications, 30)

	res, err := engine.Run(context.Background(), now, application.CleanupRequest{})
	require.NoError(t, err)
	require.Zero(t, res.DeletedCount, "a record exactly at the cutoff is kept")
}

func TestCleanup_ConcurrentRunsAreIdempotent(t *testing.T) {
	engine, notifications, _ := newEngine(t, 30)
	seedAged(t, notifications, 90, 60, 45, 31, 10, 1)
	const eligible = 4

	var (
		wg     sync.WaitGroup
		counts [2]int64
		errs   [2]error
	)
	for i := range counts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := engine.Run(context.Background(), now, application.CleanupRequest{Trigger: application.TriggerSchedule})
			counts[i], errs[i] = res.DeletedCount, err
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.LessOrEqual(t, counts[0]+counts[1], int64(eligible))

	res, err := engine.Run(context.Background(), now, application.CleanupRequest{})
	require.NoError(t, err)
	require.Zero(t, res.DeletedCount)
	require.Equal(t, 2, notifications.Len())
}

type failingNotifications struct {
	*memory.NotificationRepository
}

func (failingNotifications) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestCleanup_StoreFailureIsReportedAndCounted(t *testing.T) {
	policies := memory.NewRetentionRepository()
	_, err := policies.Upsert(context.Background(), 7)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := application.NewMetrics(reg)
	engine := application.NewCleanupEngine(failingNotifications{memory.NewNotificationRepository()}, policies, metrics)

	_, err = engine.Run(context.Background(), now, application.CleanupRequest{Trigger: application.TriggerSchedule})
	require.ErrorContains(t, err, "connection refused")
	require.NotErrorIs(t, err, domain.ErrRetentionUnavailable)

	count, err := testutil.GatherAndCount(reg, "booking_notification_cleanup_runs_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCleanup_MetricsCountDeleted(t *testing.T) {
	notifications := memory.NewNotificationRepository()
	policies := memory.NewRetentionRepository()
	_, err := policies.Upsert(context.Background(), 30)
	require.NoError(t, err)
	seedAged(t, notifications, 40, 35, 1)

	reg := prometheus.NewRegistry()
	engine := application.NewCleanupEngine(notifications, policies, application.NewMetrics(reg))

	_, err = engine.Run(context.Background(), now, application.CleanupRequest{Trigger: application.TriggerAdmin})
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), now, application.CleanupRequest{Trigger: application.TriggerAdmin})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			values[mf.GetName()] += m.GetCounter().GetValue()
		}
	}
	require.Equal(t, float64(2), values["booking_notification_cleanup_deleted_total"])
	require.Equal(t, float64(2), values["booking_notification_cleanup_runs_total"])
}
