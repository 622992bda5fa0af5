package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/birrama/careers/internal/catalog"
)

const (
	MessageMailNotConfigured = "Application received (email confirmation not configured)"
	MessageMailSent          = "Application received and confirmation email sent"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrSendFailed    = errors.New("failed to send confirmation email")
)

// Confirmation is what the applicant is told they applied for.
type Confirmation struct {
	Name            string
	Email           string
	Role            string
	ApplicationType string
}

type NotifyResult struct {
	Success bool
	Message string
}

// Email is a single outgoing HTML message.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers an email through one provider.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

type NotificationService struct {
	Mailer  Mailer
	From    string
	Catalog *catalog.Catalog

	now func() time.Time
}

// NewNotificationService builds the notifier. A nil mailer means no provider is configured and
// every confirmation succeeds without sending anything.
func NewNotificationService(mailer Mailer, from string, c *catalog.Catalog) *NotificationService {
	return &NotificationService{Mailer: mailer, From: from, Catalog: c, now: time.Now}
}

func (s *NotificationService) Send(ctx context.Context, c Confirmation) (NotifyResult, error) {
	if c.Name == "" || c.Email == "" || c.Role == "" || c.ApplicationType == "" {
		return NotifyResult{}, ErrMissingFields
	}

	if s.Mailer == nil {
		log.Printf("📭 Email confirmation would be sent to %s for %s application (provider not configured)", c.Email, c.Role)
		return NotifyResult{Success: true, Message: MessageMailNotConfigured}, nil
	}

	roleName := s.Catalog.DisplayName(c.Role)
	html, err := renderConfirmation(confirmationData{
		Name:            c.Name,
		RoleName:        roleName,
		ApplicationType: c.ApplicationType,
		Date:            s.now().Format("January 2, 2006"),
	})
	if err != nil {
		return NotifyResult{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	err = s.Mailer.Send(ctx, Email{
		From:    s.From,
		To:      c.Email,
		Subject: fmt.Sprintf("Application Received - %s Position", roleName),
		HTML:    html,
	})
	if err != nil {
		log.Printf("❌ Email sending error: %v", err)
		return NotifyResult{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	log.Printf("📨 Confirmation sent to %s (%s)", c.Email, roleName)
	return NotifyResult{Success: true, Message: MessageMailSent}, nil
}

type confirmationData struct {
	Name            string
	RoleName        string
	ApplicationType string
	Date            string
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #232323; color: white; padding: 30px; border-radius: 10px;">
    <h1 style="color: #4FC3F7; margin-bottom: 20px;">Application Received!</h1>
    <p>Dear {{.Name}},</p>
    <p>Thank you for your interest in joining our team! We have successfully received your application for the <strong>{{.RoleName}}</strong> position.</p>
    <div style="background-color: #333; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="color: #4FC3F7; margin-top: 0;">Application Details:</h3>
      <ul style="color: #ccc;">
        <li><strong>Position:</strong> {{.RoleName}}</li>
        <li><strong>Application Type:</strong> {{.ApplicationType}}</li>
        <li><strong>Submission Date:</strong> {{.Date}}</li>
      </ul>
    </div>
    <p>Our team will review your application carefully and get back to you within the next few weeks. We appreciate your patience during this process.</p>
    <p>If you have any questions about your application, please don't hesitate to reach out to us.</p>
    <p>Best regards,<br>The Birrama Team</p>
    <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #444; font-size: 12px; color: #ccc;">
      <p>This is an automated confirmation email. Please do not reply to this message.</p>
    </div>
  </div>
</div>
`))

func renderConfirmation(d confirmationData) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
