package domain

import "context"

// Email is one outgoing message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Notifier delivers email. Implementations live in infrastructure/email.
type Notifier interface {
	Send(ctx context.Context, msg Email) error
}
