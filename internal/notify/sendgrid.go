package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func NewSendGridMailer(apiKey, fromName, fromAddr string) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, payload Payload) error {
	from := mail.NewEmail(m.fromName, m.fromAddr)
	to := mail.NewEmail("", payload.To)
	// Body is already escaped, so it can be embedded as-is.
	htmlBody := "<pre>" + payload.Body + "</pre>"
	message := mail.NewSingleEmail(from, payload.Subject, to, payload.Body, htmlBody)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send failed with status %d", resp.StatusCode)
	}
	return nil
}
