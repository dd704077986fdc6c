package models

// Outbox task types processed by the async worker after a booking commits.
const (
	TaskBookingNotify = "booking:notify"
	TaskBookingVerify = "booking:verify"
)

// BookingTaskPayload identifies the committed reservation a post-commit
// task operates on.
type BookingTaskPayload struct {
	BookingID string `json:"bookingId"`
}
