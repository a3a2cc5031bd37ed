// Command cleanup deletes notifications older than the retention window
// once and exits.
//
// Usage:
//
//	# Use the stored retention policy
//	cleanup
//
//	# Delete notifications older than 7 days, ignoring the stored policy
//	cleanup 7
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/config"
	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/infrastructure/postgres"
)

var rootCmd = &cobra.Command{
	Use:   "cleanup [days]",
	Short: "Delete notifications older than the retention window",
	Long: `Delete every notification created before now minus the retention window.

Without an argument the stored retention policy is used. When no policy has
been configured yet, cleanup.fallback_days from the configuration is used and
a warning is logged. An explicit days argument applies to this run only and
is never written back.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCleanup,
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("cleanup failed")
		os.Exit(1)
	}
}

func runCleanup(cmd *cobra.Command, args []string) error {
	days, err := parseDays(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	engine := application.NewCleanupEngine(
		postgres.NewNotificationRepository(pool),
		postgres.NewRetentionRepository(pool),
		nil,
	)

	res, err := run(ctx, engine, time.Now(), days, cfg.Cleanup.FallbackDays)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notifications older than %d days\n", res.DeletedCount, res.PeriodDays)
	return nil
}

// loadConfig reads the shared configuration without the server-only
// checks; this command runs without the auth system.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func parseDays(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		return 0, &domain.PolicyError{Field: "days", Value: args[0]}
	}
	return days, nil
}

type runner interface {
	Run(ctx context.Context, now time.Time, req application.CleanupRequest) (application.CleanupResult, error)
}

// run performs one cleanup. With days == 0 the stored policy is used and,
// if none exists, fallbackDays.
func run(ctx context.Context, r runner, now time.Time, days, fallbackDays int) (application.CleanupResult, error) {
	req := application.CleanupRequest{Trigger: application.TriggerCLI, OverrideDays: days}

	res, err := r.Run(ctx, now, req)
	if errors.Is(err, domain.ErrRetentionUnavailable) && days == 0 {
		log.Warn().Int("fallback_days", fallbackDays).Msg("no retention policy stored, using fallback")
		req.OverrideDays = fallbackDays
		res, err = r.Run(ctx, now, req)
	}
	return res, err
}
