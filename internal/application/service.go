package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// Service holds the notification use-cases.
type Service struct {
	repo domain.NotificationRepository
	hub  Broadcaster
}

// Broadcaster pushes a freshly created notification to connected clients.
// Implementation lives in transport/http/sse_hub.go.
type Broadcaster interface {
	Broadcast(userID uuid.UUID, notification *domain.Notification)
}

// NewService creates a new application Service.
func NewService(repo domain.NotificationRepository, hub Broadcaster) *Service {
	return &Service{repo: repo, hub: hub}
}

// CreateRequest is a notification submitted by an authenticated caller.
type CreateRequest struct {
	UserID  uuid.UUID
	Message string
	Type    domain.NotificationType
}

// Create stores a notification on behalf of p. Non-admins always own what
// they create; admins may address any user.
func (s *Service) Create(ctx context.Context, p domain.Principal, req CreateRequest) (*domain.Notification, error) {
	owner := req.UserID
	if owner == uuid.Nil || (!p.IsAdmin() && owner != p.ID) {
		owner = p.ID
	}
	return s.Ingest(ctx, domain.CreateNotificationInput{
		UserID:  owner,
		Message: req.Message,
		Type:    req.Type,
	})
}

// Ingest persists a notification that needs no caller authorization (Kafka
// events) and broadcasts it via SSE if the owner is connected.
func (s *Service) Ingest(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	n, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	if n == nil {
		// Duplicate source_event_id is idempotent, not an error.
		log.Debug().Str("source_event_id", input.SourceEventID).Msg("duplicate notification event skipped")
		return nil, nil
	}

	if s.hub != nil {
		// Non-blocking SSE broadcast
		go s.hub.Broadcast(n.UserID, n)
	}

	log.Info().
		Str("id", n.ID.String()).
		Str("user", n.UserID.String()).
		Str("type", string(n.Type)).
		Msg("notification created")

	return n, nil
}

// List returns p's own notifications, or everyone's when p is an admin.
func (s *Service) List(ctx context.Context, p domain.Principal, filter domain.NotificationFilter) ([]*domain.Notification, error) {
	if !p.IsAdmin() {
		filter.UserID = p.ID
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Get returns a notification visible to p.
func (s *Service) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && n.UserID != p.ID {
		return nil, fmt.Errorf("%w: user %s cannot view notification %s", domain.ErrUnauthorized, p.ID, id)
	}
	return n, nil
}

// Update applies upd. Non-admins may only set the read flag on their own
// notifications; a missing flag is treated as false. Admins may replace any field.
func (s *Service) Update(ctx context.Context, p domain.Principal, id uuid.UUID, upd domain.NotificationUpdate) (*domain.Notification, error) {
	if p.IsAdmin() {
		return s.repo.Update(ctx, id, upd)
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != p.ID {
		return nil, fmt.Errorf("%w: user %s cannot update notification %s", domain.ErrUnauthorized, p.ID, id)
	}

	isRead := false
	if upd.IsRead != nil {
		isRead = *upd.IsRead
	}
	return s.repo.UpdateReadFlag(ctx, id, isRead)
}

// Delete removes a single notification. Admin only.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.IsAdmin() {
		return fmt.Errorf("%w: user %s cannot delete notifications", domain.ErrUnauthorized, p.ID)
	}
	return s.repo.Delete(ctx, id)
}
