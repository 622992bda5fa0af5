package services

import (
	"context"

	"github.com/resend/resend-go/v2"
)

type ResendMailer struct {
	Client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{Client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, e Email) error {
	_, err := m.Client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.From,
		To:      []string{e.To},
		Subject: e.Subject,
		Html:    e.HTML,
	})
	return err
}
