package notification

import (
	"context"
	"fmt"
	"io"

	"bookastay/models"
	"bookastay/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SendBookingConfirmation emails the guest their receipt with the PDF
// attached, then sends the host a copy. The guest email is the one that
// matters; a host delivery failure is logged but not returned.
func (s *DefaultNotificationService) SendBookingConfirmation(ctx context.Context, res *models.Reservation) error {
	receipt, err := buildReceiptPDF(res)
	if err != nil {
		return err
	}

	guestMsg := s.compose(res.Email, fmt.Sprintf("Your booking is confirmed (%s)", res.TransactionRef), guestBody(res), receipt)
	if err := s.sender.DialAndSend(guestMsg); err != nil {
		return fmt.Errorf("failed to send guest confirmation to %s: %w", res.Email, err)
	}

	if s.ownerEmail != "" {
		ownerMsg := s.compose(s.ownerEmail, fmt.Sprintf("New booking: %s (%s to %s)", roomLabel(res.RoomType), res.CheckIn, res.CheckOut), ownerBody(res), receipt)
		if err := s.sender.DialAndSend(ownerMsg); err != nil {
			utils.GetLogger().Error("failed to send owner notification",
				zap.String("bookingID", res.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultNotificationService) compose(to, subject, body string, receipt []byte) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.Attach("receipt.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(receipt)
		return err
	}))
	return m
}

func guestBody(res *models.Reservation) string {
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking is confirmed. Your receipt is attached.\n\n"+
			"Room: %s\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nAmount paid: NGN %.2f\nReference: %s\n\n"+
			"We look forward to hosting you.\n",
		res.Name, roomLabel(res.RoomType), res.CheckIn, res.CheckOut,
		res.Guests, res.PaidAmount, res.TransactionRef)
}

func ownerBody(res *models.Reservation) string {
	return fmt.Sprintf(
		"New confirmed booking.\n\n"+
			"Guest: %s\nEmail: %s\nPhone: %s\nRoom: %s\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nAmount paid: NGN %.2f\nReference: %s\n",
		res.Name, res.Email, res.Phone, roomLabel(res.RoomType),
		res.CheckIn, res.CheckOut, res.Guests, res.PaidAmount, res.TransactionRef)
}
