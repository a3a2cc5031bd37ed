package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what a notification is about.
type NotificationType string

const (
	TypeSystem  NotificationType = "SYSTEM"
	TypeBooking NotificationType = "BOOKING"
	TypeReview  NotificationType = "REVIEW"
	TypeCustom  NotificationType = "CUSTOM"
)

// Valid reports whether t is empty (untagged) or one of the known tags.
func (t NotificationType) Valid() bool {
	switch t {
	case "", TypeSystem, TypeBooking, TypeReview, TypeCustom:
		return true
	}
	return false
}

// Notification is the core domain entity. CreatedAt is assigned by the store
// on insert and never changes afterwards.
type Notification struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user"`
	Message       string           `json:"message"`
	Type          NotificationType `json:"type,omitempty"`
	IsRead        bool             `json:"isRead"`
	CreatedAt     time.Time        `json:"createdAt"`
	SourceEventID string           `json:"sourceEventId,omitempty"`

	// Owner is populated on list queries (name and email of the recipient).
	Owner *Owner `json:"owner,omitempty"`
}

// Owner is the subset of a user embedded into listed notifications.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NotificationFilter holds query parameters for listing notifications.
// A zero UserID lists every user's notifications.
type NotificationFilter struct {
	UserID uuid.UUID
	IsRead *bool
	Limit  int
	Offset int
}

// CreateNotificationInput is what callers hand to Repository.Create.
type CreateNotificationInput struct {
	UserID        uuid.UUID
	Message       string
	Type          NotificationType
	SourceEventID string
}

// NotificationUpdate carries the fields an admin may replace. Nil fields are left as-is.
type NotificationUpdate struct {
	Message *string
	Type    *NotificationType
	IsRead  *bool
}
