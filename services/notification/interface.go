package notification

import (
	"context"
	"fmt"

	"bookastay/config"
	"bookastay/models"

	"gopkg.in/gomail.v2"
)

// NotificationService defines methods for sending booking emails.
type NotificationService interface {
	// SendBookingConfirmation emails the guest their receipt and sends the
	// host a copy of the booking details.
	SendBookingConfirmation(ctx context.Context, res *models.Reservation) error
}

// Sender abstracts the SMTP dialer for testing.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	sender     Sender
	from       string
	ownerEmail string
}

func NewDefaultNotificationService() (*DefaultNotificationService, error) {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" || cfg.EmailUser == "" {
		return nil, fmt.Errorf("notification service initialization error: SMTP is not configured")
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	return &DefaultNotificationService{
		sender:     dialer,
		from:       cfg.EmailUser,
		ownerEmail: cfg.ClientNotificationEmail,
	}, nil
}

// NewNotificationServiceWithSender is used by tests.
func NewNotificationServiceWithSender(sender Sender, from, ownerEmail string) *DefaultNotificationService {
	return &DefaultNotificationService{sender: sender, from: from, ownerEmail: ownerEmail}
}
