package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer delivers a payload. Delivery errors are reported to the caller but
// never influence the block decision.
type Mailer interface {
	Send(ctx context.Context, payload Payload) error
}

// LogMailer writes notifications to the operational log instead of sending
// them.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "mailer_log").Logger()}
}

func (m *LogMailer) Send(_ context.Context, payload Payload) error {
	m.logger.Warn().
		Str("to", payload.To).
		Str("subject", payload.Subject).
		Str("body", payload.Body).
		Msg("blocked submission notification")
	return nil
}
