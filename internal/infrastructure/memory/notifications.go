// Package memory provides in-process implementations of the domain
// repositories. They back the test suites and single-node local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// NotificationRepository is a mutex-guarded map implementation of
// domain.NotificationRepository.
type NotificationRepository struct {
	mu       sync.Mutex
	items    map[uuid.UUID]domain.Notification
	bySource map[string]uuid.UUID

	// Clock stamps CreatedAt on insert. Tests swap it to seed aged records.
	Clock func() time.Time
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		items:    make(map[uuid.UUID]domain.Notification),
		bySource: make(map[string]uuid.UUID),
		Clock:    time.Now,
	}
}

var _ domain.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(_ context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if input.SourceEventID != "" {
		if _, dup := r.bySource[input.SourceEventID]; dup {
			return nil, nil
		}
	}

	n := domain.Notification{
		ID:            uuid.New(),
		UserID:        input.UserID,
		Message:       input.Message,
		Type:          input.Type,
		CreatedAt:     r.Clock(),
		SourceEventID: input.SourceEventID,
	}
	r.items[n.ID] = n
	if n.SourceEventID != "" {
		r.bySource[n.SourceEventID] = n.ID
	}
	return &n, nil
}

func (r *NotificationRepository) List(_ context.Context, f domain.NotificationFilter) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Notification
	for _, n := range r.items {
		if f.UserID != uuid.Nil && n.UserID != f.UserID {
			continue
		}
		if f.IsRead != nil && n.IsRead != *f.IsRead {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

func (r *NotificationRepository) UpdateReadFlag(ctx context.Context, id uuid.UUID, isRead bool) (*domain.Notification, error) {
	return r.Update(ctx, id, domain.NotificationUpdate{IsRead: &isRead})
}

func (r *NotificationRepository) Update(_ context.Context, id uuid.UUID, upd domain.NotificationUpdate) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Message != nil {
		n.Message = *upd.Message
	}
	if upd.Type != nil {
		n.Type = *upd.Type
	}
	if upd.IsRead != nil {
		n.IsRead = *upd.IsRead
	}
	r.items[id] = n
	return &n, nil
}

func (r *NotificationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.remove(n)
	return nil
}

func (r *NotificationRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, n := range r.items {
		if n.CreatedAt.Before(cutoff) {
			r.remove(n)
			deleted++
		}
	}
	return deleted, nil
}

// Len returns the number of stored notifications.
func (r *NotificationRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *NotificationRepository) remove(n domain.Notification) {
	delete(r.items, n.ID)
	if n.SourceEventID != "" {
		delete(r.bySource, n.SourceEventID)
	}
}
