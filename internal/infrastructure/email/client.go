// Package email provides the email client for sending lead notifications.
package email

import (
	"fmt"
	"os"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/email/templates"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending notifications, allowing for
// mock implementations in tests.
type Service interface {
	SendHighValueLeadAlert(profile *leads.LeadProfile) error
	SendBusinessAlert(subject string, lines []string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
}

// NewService creates a new email service client, returning the Service
// interface. When no RESEND_API_KEY is configured the caller should fall
// back to NewLogService.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	toEmail := config.NotificationEmailTo
	if toEmail == "" {
		return nil, fmt.Errorf("NOTIFICATION_EMAIL_TO is required when email notifications are enabled")
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: config.NotificationEmailFrom,
		toEmail:   toEmail,
	}, nil
}

// SendHighValueLeadAlert composes and sends the high-value lead notification.
func (c *ResendClient) SendHighValueLeadAlert(profile *leads.LeadProfile) error {
	subject := fmt.Sprintf("High-value lead: %s (score %.0f)", profile.ID, profile.Score)

	content := templates.GetLeadAlertContent(templates.LeadAlertProps{
		LeadID:         profile.ID,
		Score:          profile.Score,
		Classification: string(profile.Classification),
		Source:         profile.Source,
		EstimatedValue: profile.EstimatedValue,
		Probability:    profile.Probability,
		NextAction:     profile.NextAction,
	})

	return c.send(subject, content)
}

// SendBusinessAlert composes and sends a generic business alert.
func (c *ResendClient) SendBusinessAlert(subject string, lines []string) error {
	content := templates.GetBusinessAlertContent(templates.BusinessAlertProps{
		Subject: subject,
		Lines:   lines,
	})
	return c.send(subject, content)
}

func (c *ResendClient) send(subject, content string) error {
	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("LeadPulse <%s>", c.fromEmail),
		To:      []string{c.toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send notification via Resend: %w", err)
	}
	return nil
}

// LogService logs notifications instead of delivering them. It is the
// fallback when no email provider is configured.
type LogService struct {
	logger *logging.ChanneledLogger
}

// NewLogService creates the logging fallback notification service.
func NewLogService(logger *logging.ChanneledLogger) *LogService {
	return &LogService{logger: logger}
}

// SendHighValueLeadAlert logs the alert on the alert channel.
func (s *LogService) SendHighValueLeadAlert(profile *leads.LeadProfile) error {
	s.logger.Alert().Warn("High-value lead detected",
		"leadId", profile.ID,
		"score", profile.Score,
		"classification", string(profile.Classification),
		"estimatedValue", profile.EstimatedValue,
		"probability", profile.Probability,
		"nextAction", profile.NextAction,
	)
	return nil
}

// SendBusinessAlert logs the alert on the alert channel.
func (s *LogService) SendBusinessAlert(subject string, lines []string) error {
	s.logger.Alert().Warn("Business alert", "subject", subject, "details", lines)
	return nil
}
