package notification

import (
	"context"
	"errors"
	"testing"

	"bookastay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m...)
	return nil
}

func sampleBooking() *models.Reservation {
	return &models.Reservation{
		ID:             "b1",
		TransactionRef: "ps_ref_123",
		RoomType:       "entire",
		CheckIn:        "2025-06-01",
		CheckOut:       "2025-06-03",
		Status:         models.StatusConfirmed,
		Name:           "Ada Obi",
		Email:          "ada@example.com",
		Guests:         2,
		PaidAmount:     245000,
	}
}

func TestBuildReceiptPDF(t *testing.T) {
	receipt, err := buildReceiptPDF(sampleBooking())
	require.NoError(t, err)
	require.NotEmpty(t, receipt)
	assert.Equal(t, "%PDF", string(receipt[:4]))
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &recordingSender{}
	svc := NewNotificationServiceWithSender(sender, "stay@example.com", "host@example.com")

	err := svc.SendBookingConfirmation(context.Background(), sampleBooking())
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)

	assert.Equal(t, []string{"ada@example.com"}, sender.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"host@example.com"}, sender.sent[1].GetHeader("To"))
}

func TestSendBookingConfirmation_NoOwnerConfigured(t *testing.T) {
	sender := &recordingSender{}
	svc := NewNotificationServiceWithSender(sender, "stay@example.com", "")

	require.NoError(t, svc.SendBookingConfirmation(context.Background(), sampleBooking()))
	assert.Len(t, sender.sent, 1)
}

func TestSendBookingConfirmation_GuestDeliveryFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: connection refused")}
	svc := NewNotificationServiceWithSender(sender, "stay@example.com", "host@example.com")

	err := svc.SendBookingConfirmation(context.Background(), sampleBooking())
	require.Error(t, err)
}
