// Package email implements domain.Notifier.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// ResendNotifier sends mail through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{client: resend.NewClient(apiKey), from: from}
}

var _ domain.Notifier = (*ResendNotifier)(nil)

func (n *ResendNotifier) Send(ctx context.Context, msg domain.Email) error {
	sent, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("send email via resend: %w", err)
	}
	log.Debug().Str("id", sent.Id).Str("to", msg.To).Msg("email sent")
	return nil
}

// New picks the Resend sender when an API key is configured and falls back
// to logging the message otherwise.
func New(apiKey, from string) domain.Notifier {
	if apiKey == "" {
		log.Warn().Msg("email.resend_api_key not set, outgoing mail is only logged")
		return LogNotifier{}
	}
	return NewResendNotifier(apiKey, from)
}
