package email

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// LogNotifier writes outgoing mail to the log instead of sending it.
type LogNotifier struct{}

var _ domain.Notifier = LogNotifier{}

func (LogNotifier) Send(_ context.Context, msg domain.Email) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email not sent (no provider configured)")
	return nil
}
