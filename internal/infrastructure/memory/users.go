package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// UserRepository is an in-memory identity store keyed by id and lowercased email.
type UserRepository struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]domain.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]domain.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

var _ domain.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, input domain.CreateUserInput) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(input.Email)
	if _, taken := r.byEmail[key]; taken {
		return nil, domain.ErrEmailTaken
	}

	u := domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		Tel:          input.Tel,
		Role:         input.Role,
		PasswordHash: input.PasswordHash,
		CreatedAt:    time.Now().UTC(),

		VerificationCode: input.VerificationCode,
	}
	r.byID[u.ID] = u
	r.byEmail[key] = u.ID
	return &u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) SetVerificationCode(_ context.Context, id uuid.UUID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.VerificationCode = code
	r.byID[id] = u
	return nil
}

func (r *UserRepository) MarkVerified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = true
	u.VerificationCode = ""
	r.byID[id] = u
	return nil
}

// Delete removes a user; existing tokens for it stop authenticating.
func (r *UserRepository) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, strings.ToLower(u.Email))
		delete(r.byID, id)
	}
}
