package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// RetentionRepository stores the retention singleton in a one-row table;
// the CHECK (id = 1) constraint keeps a second row from ever existing.
type RetentionRepository struct {
	pool *pgxpool.Pool
}

func NewRetentionRepository(pool *pgxpool.Pool) *RetentionRepository {
	return &RetentionRepository{pool: pool}
}

var _ domain.RetentionRepository = (*RetentionRepository)(nil)

// Get returns the stored policy or domain.ErrPolicyNotConfigured.
func (r *RetentionRepository) Get(ctx context.Context) (*domain.RetentionPolicy, error) {
	var p domain.RetentionPolicy
	err := r.pool.QueryRow(ctx,
		`SELECT period_days, updated_at FROM retention_policy WHERE id = 1`,
	).Scan(&p.PeriodDays, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPolicyNotConfigured
		}
		return nil, fmt.Errorf("get retention policy: %w", err)
	}
	return &p, nil
}

// Upsert writes the singleton row.
func (r *RetentionRepository) Upsert(ctx context.Context, periodDays int) (*domain.RetentionPolicy, error) {
	var p domain.RetentionPolicy
	err := r.pool.QueryRow(ctx, `
		INSERT INTO retention_policy (id, period_days, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE
			SET period_days = EXCLUDED.period_days, updated_at = EXCLUDED.updated_at
		RETURNING period_days, updated_at
	`, periodDays).Scan(&p.PeriodDays, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert retention policy: %w", err)
	}
	return &p, nil
}
