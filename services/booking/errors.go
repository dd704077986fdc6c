package booking

import (
	"errors"

	"bookastay/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ValidationError covers missing or malformed input (including invalid date
// ranges). Rejected before any store access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// ConflictError reports an overlap with an active reservation; the blocking
// record is attached so the caller can present specifics.
type ConflictError struct {
	Message  string
	Blocking *models.Reservation
}

func (e *ConflictError) Error() string { return e.Message }

// PaymentError reports a failed server-side payment verification. It is a
// distinct class from generic upstream failures so callers can branch.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string { return e.Message }

var (
	ErrNotFound = errors.New("reservation not found")
	// ErrProtected guards paid, website-originated reservations against
	// accidental deletion.
	ErrProtected = errors.New("paid guest reservations cannot be deleted")
)

// wrapInsertErr maps store duplicate-key violations (unique transaction_ref
// or airbnb_uid) to the conflict class; everything else bubbles as a generic
// failure.
func wrapInsertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return &ConflictError{Message: "a reservation with this reference already exists"}
	}
	return err
}
