package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// RetentionRepository keeps the retention singleton in memory.
type RetentionRepository struct {
	mu     sync.Mutex
	policy *domain.RetentionPolicy
}

func NewRetentionRepository() *RetentionRepository {
	return &RetentionRepository{}
}

var _ domain.RetentionRepository = (*RetentionRepository)(nil)

func (r *RetentionRepository) Get(context.Context) (*domain.RetentionPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.policy == nil {
		return nil, domain.ErrPolicyNotConfigured
	}
	p := *r.policy
	return &p, nil
}

func (r *RetentionRepository) Upsert(_ context.Context, periodDays int) (*domain.RetentionPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.policy = &domain.RetentionPolicy{PeriodDays: periodDays, UpdatedAt: time.Now().UTC()}
	p := *r.policy
	return &p, nil
}
