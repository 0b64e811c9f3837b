package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/games-api/internal/domain/entity"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendContactNotification(ctx context.Context, message *entity.ContactMessage) error
}

// NoopEmailService is used when email notifications are disabled.
type NoopEmailService struct{}

func (s *NoopEmailService) SendContactNotification(ctx context.Context, message *entity.ContactMessage) error {
	log.Printf("[EmailService] noop contact notification from=%s", message.Email)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	to     string
	client *resend.Client
}

func NewResendEmailService(apiKey, from, to string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("email from and to are required")
	}
	return &ResendEmailService{
		from:   from,
		to:     to,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendContactNotification(ctx context.Context, message *entity.ContactMessage) error {
	if message == nil {
		return fmt.Errorf("message is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		ReplyTo: message.Email,
		Subject: fmt.Sprintf("New contact message from %s", message.Name),
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", message.Name, message.Email, message.Message),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		log.Printf("[EmailService] Ошибка отправки уведомления: %v", err)
		return fmt.Errorf("failed to send contact notification: %w", err)
	}
	return nil
}
