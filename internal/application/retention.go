package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/auth"
	"github.com/tungtee888/bookingapi/internal/domain"
)

// RetentionPolicies is the admin-facing view of the retention singleton.
type RetentionPolicies struct {
	repo domain.RetentionRepository
}

func NewRetentionPolicies(repo domain.RetentionRepository) *RetentionPolicies {
	return &RetentionPolicies{repo: repo}
}

// Get returns the stored policy, or domain.ErrPolicyNotConfigured.
func (s *RetentionPolicies) Get(ctx context.Context, p domain.Principal) (*domain.RetentionPolicy, error) {
	if !auth.Authorize(p, domain.RoleAdmin) {
		return nil, fmt.Errorf("%w: reading the retention policy requires admin", domain.ErrUnauthorized)
	}
	return s.repo.Get(ctx)
}

// Set replaces the retention window. periodDays must be positive; on
// rejection the stored policy is left untouched.
func (s *RetentionPolicies) Set(ctx context.Context, p domain.Principal, periodDays int) (*domain.RetentionPolicy, error) {
	if !auth.Authorize(p, domain.RoleAdmin) {
		return nil, fmt.Errorf("%w: changing the retention policy requires admin", domain.ErrUnauthorized)
	}
	if err := domain.ValidatePeriodDays("periodDays", periodDays); err != nil {
		return nil, err
	}

	policy, err := s.repo.Upsert(ctx, periodDays)
	if err != nil {
		return nil, err
	}

	log.Info().Int("period_days", policy.PeriodDays).Str("by", p.ID.String()).Msg("retention policy updated")
	return policy, nil
}
