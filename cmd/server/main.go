package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/auth"
	"github.com/tungtee888/bookingapi/internal/config"
	"github.com/tungtee888/bookingapi/internal/infrastructure/email"
	"github.com/tungtee888/bookingapi/internal/infrastructure/postgres"
	kafkaconsumer "github.com/tungtee888/bookingapi/internal/kafka"
	"github.com/tungtee888/bookingapi/internal/scheduler"
	transporthttp "github.com/tungtee888/bookingapi/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid server configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting booking api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := postgres.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("postgres connected")

	// ── Repositories & SSE Hub ───────────────────────────────────────────────
	notifications := postgres.NewNotificationRepository(pool)
	policies := postgres.NewRetentionRepository(pool)
	users := postgres.NewUserRepository(pool)
	hub := transporthttp.NewHub()

	// ── Metrics ───────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := application.NewMetrics(reg)

	// ── Application Services ──────────────────────────────────────────────────
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, users)
	svc := application.NewService(notifications, hub)
	cleanup := application.NewCleanupEngine(notifications, policies, metrics)

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(transporthttp.Deps{
		Notifications: svc,
		Policies:      application.NewRetentionPolicies(policies),
		Cleanup:       cleanup,
		Accounts:      application.NewAccounts(users, verifier, email.New(cfg.Email.ResendAPIKey, cfg.Email.From), cfg.Auth.AdminSignup),
		Hub:           hub,
		Cookie:        transporthttp.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		TokenTTL:      cfg.Auth.TokenTTL,
	})
	router := transporthttp.NewRouter(handler, transporthttp.RouterConfig{
		Auth:       verifier,
		CookieName: cfg.Auth.CookieName,
		Gatherer:   reg,
	})

	// ── Kafka Consumer ────────────────────────────────────────────────────────
	if cfg.Kafka.Enabled {
		consumer, err := kafkaconsumer.New(
			cfg.Kafka.Brokers,
			cfg.Kafka.ConsumerGroupID,
			cfg.Kafka.Topics,
			svc,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create kafka consumer")
		}

		// Start Kafka consumer in background
		go consumer.Start(ctx)
		log.Info().Strs("topics", cfg.Kafka.Topics).Msg("kafka consumer started")
	}

	// ── Cleanup Scheduler ─────────────────────────────────────────────────────
	sched := scheduler.New(cleanup, cfg.Cleanup.Schedule)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Cleanup.Schedule).Msg("failed to start cleanup scheduler")
	}

	// ── Start HTTP Server ─────────────────────────────────────────────────────
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("booking api stopped")
}
