package verificationRepo

import (
	"context"

	"bookastay/models"
)

// VerificationRepository persists identity-verification sessions.
// GetByReference returns (nil, nil) when no session exists.
type VerificationRepository interface {
	Insert(ctx context.Context, session *models.VerificationSession) error
	GetByReference(ctx context.Context, reference string) (*models.VerificationSession, error)
	GetByReferenceAndEmail(ctx context.Context, reference, email string) (*models.VerificationSession, error)
	UpdateStatus(ctx context.Context, reference, status, event, reason string) error
}
