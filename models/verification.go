package models

import "time"

// Identity verification statuses, set asynchronously by the gateway webhook.
const (
	VerificationPending   = "pending"
	VerificationVerified  = "verified"
	VerificationDeclined  = "declined"
	VerificationCancelled = "cancelled"
)

// VerificationSession tracks one identity-verification attempt against the
// gateway, keyed by the gateway reference.
type VerificationSession struct {
	Reference      string    `bson:"reference" json:"reference"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	IDType         string    `bson:"id_type,omitempty" json:"id_type,omitempty"`
	IDFileURL      string    `bson:"id_file_url,omitempty" json:"id_file_url,omitempty"`
	URL            string    `bson:"verification_url,omitempty" json:"verification_url,omitempty"`
	Status         string    `bson:"verification_status" json:"verification_status"`
	Event          string    `bson:"verification_event,omitempty" json:"verification_event,omitempty"`
	DeclinedReason string    `bson:"declined_reason,omitempty" json:"declined_reason,omitempty"`
	VerifiedAt     time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
