package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationRepository defines the port for notification persistence.
// Implementations live in infrastructure/postgres and infrastructure/memory.
type NotificationRepository interface {
	// Create stores a new notification. A duplicate SourceEventID is not an
	// error: it returns (nil, nil).
	Create(ctx context.Context, input CreateNotificationInput) (*Notification, error)

	// List fetches notifications matching the filter, newest first.
	List(ctx context.Context, filter NotificationFilter) ([]*Notification, error)

	// GetByID returns ErrNotFound when no such notification exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// UpdateReadFlag sets the read flag and returns the updated record.
	UpdateReadFlag(ctx context.Context, id uuid.UUID, isRead bool) (*Notification, error)

	// Update replaces the non-nil fields of upd.
	Update(ctx context.Context, id uuid.UUID, upd NotificationUpdate) (*Notification, error)

	// Delete removes a single notification.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteOlderThan removes every notification created strictly before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionRepository holds the single RetentionPolicy record.
type RetentionRepository interface {
	// Get returns ErrPolicyNotConfigured when the store is empty.
	Get(ctx context.Context) (*RetentionPolicy, error)

	// Upsert replaces the singleton, creating it if absent.
	Upsert(ctx context.Context, periodDays int) (*RetentionPolicy, error)
}

// UserRepository is the identity store backing authentication.
type UserRepository interface {
	// Create returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, input CreateUserInput) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SetVerificationCode replaces the pending code. ErrNotFound if the user is gone.
	SetVerificationCode(ctx context.Context, id uuid.UUID, code string) error

	// MarkVerified flags the account verified and clears the pending code.
	MarkVerified(ctx context.Context, id uuid.UUID) error
}
