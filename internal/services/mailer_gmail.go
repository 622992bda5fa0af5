package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/mail"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

// GmailMailer sends through the Gmail API as the account that owns the OAuth token.
type GmailMailer struct {
	GmailClient *gmail.Service
}

func NewGmailMailer(svc *gmail.Service) *GmailMailer {
	return &GmailMailer{GmailClient: svc}
}

func (m *GmailMailer) Send(ctx context.Context, e Email) error {
	raw, err := buildMessage(e)
	if err != nil {
		return err
	}
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	_, err = m.GmailClient.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			return fmt.Errorf("gmail send: %d %s", gErr.Code, gErr.Message)
		}
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// buildMessage renders e as an RFC 5322 message with an HTML body.
func buildMessage(e Email) ([]byte, error) {
	to, err := mail.ParseAddress(e.To)
	if err != nil {
		return nil, fmt.Errorf("recipient %q: %w", e.To, err)
	}
	var buf bytes.Buffer
	if e.From != "" {
		from, err := mail.ParseAddress(e.From)
		if err != nil {
			return nil, fmt.Errorf("sender %q: %w", e.From, err)
		}
		fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	}
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(e.HTML)
	return buf.Bytes(), nil
}
