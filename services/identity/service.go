package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	reservationRepo "bookastay/database/repository/reservation"
	verificationRepo "bookastay/database/repository/verification"
	"bookastay/models"
	"bookastay/utils"

	"go.uber.org/zap"
)

// Gateway abstracts the identity provider for testing.
type Gateway interface {
	CreateVerification(ctx context.Context, req VerificationRequest) (*GatewayResponse, error)
	CheckStatus(ctx context.Context, reference string) (*GatewayResponse, error)
	VerifySignature(rawBody []byte, signature string) bool
}

// IdentityService runs guest identity checks and applies the asynchronous
// gateway verdicts to sessions and bookings.
type IdentityService interface {
	// Initiate starts a standalone verification session, before any booking
	// exists. The returned session carries the hosted journey URL.
	Initiate(ctx context.Context, name, email, idType string) (*models.VerificationSession, error)

	// InitiateForBooking starts a document-mode verification for a confirmed
	// booking, downloading the guest's ID file and recording the reference
	// on the reservation.
	InitiateForBooking(ctx context.Context, bookingID string) error

	// Status returns the session for a reference, guarding by email.
	Status(ctx context.Context, reference, email string) (*models.VerificationSession, error)

	// StatusForBooking reports the verification state of a booking.
	StatusForBooking(ctx context.Context, bookingID string) (*models.Reservation, error)

	// HandleCallback validates and applies one gateway webhook delivery.
	HandleCallback(ctx context.Context, rawBody []byte, signature string) error
}

type DefaultIdentityService struct {
	Gateway      Gateway
	Sessions     verificationRepo.VerificationRepository
	Reservations reservationRepo.ReservationRepository

	// DownloadClient fetches stored ID documents for document-mode checks.
	DownloadClient *http.Client
}

func NewIdentityService(gateway Gateway, sessions verificationRepo.VerificationRepository, reservations reservationRepo.ReservationRepository) *DefaultIdentityService {
	return &DefaultIdentityService{
		Gateway:        gateway,
		Sessions:       sessions,
		Reservations:   reservations,
		DownloadClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *DefaultIdentityService) Initiate(ctx context.Context, name, email, idType string) (*models.VerificationSession, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	reference := NewReference()
	resp, err := s.Gateway.CreateVerification(ctx, VerificationRequest{
		Reference: reference,
		Email:     email,
		FullName:  name,
		IDType:    idType,
	})
	if err != nil {
		return nil, err
	}

	session := &models.VerificationSession{
		Reference: reference,
		Name:      name,
		Email:     email,
		IDType:    idType,
		URL:       resp.VerificationURL,
		Status:    models.VerificationPending,
		CreatedAt: time.Now(),
	}
	if err := s.Sessions.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store verification session: %w", err)
	}
	return session, nil
}

func (s *DefaultIdentityService) InitiateForBooking(ctx context.Context, bookingID string) error {
	res, err := s.Reservations.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	if res.VerificationReference != "" {
		// Already initiated, webhook will settle it.
		return nil
	}
	if res.IDFileURL == "" {
		return fmt.Errorf("booking %s has no ID document", bookingID)
	}

	proof, err := s.downloadDocument(ctx, res.IDFileURL)
	if err != nil {
		return fmt.Errorf("failed to download ID document: %w", err)
	}

	reference := NewReference()
	resp, err := s.Gateway.CreateVerification(ctx, VerificationRequest{
		Reference:     reference,
		Email:         res.Email,
		FullName:      res.Name,
		IDType:        res.IDType,
		DocumentProof: proof,
	})
	if err != nil {
		return err
	}

	session := &models.VerificationSession{
		Reference: reference,
		Name:      res.Name,
		Email:     res.Email,
		IDType:    res.IDType,
		IDFileURL: res.IDFileURL,
		URL:       resp.VerificationURL,
		Status:    models.VerificationPending,
		CreatedAt: time.Now(),
	}
	if err := s.Sessions.Insert(ctx, session); err != nil {
		return fmt.Errorf("failed to store verification session: %w", err)
	}

	return s.Reservations.SetVerification(ctx, bookingID, reference, resp.VerificationURL, models.VerificationPending)
}

func (s *DefaultIdentityService) Status(ctx context.Context, reference, email string) (*models.VerificationSession, error) {
	session, err := s.Sessions.GetByReferenceAndEmail(ctx, reference, email)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("verification session not found")
	}

	// Webhooks can be delayed or dropped; for sessions still pending, ask
	// the gateway directly and settle a terminal verdict.
	if session.Status == models.VerificationPending {
		resp, err := s.Gateway.CheckStatus(ctx, reference)
		if err == nil && StatusForEvent(resp.Event) != models.VerificationPending {
			status := StatusForEvent(resp.Event)
			if err := s.Sessions.UpdateStatus(ctx, reference, status, resp.Event, resp.DeclinedReason); err == nil {
				session.Status = status
				session.Event = resp.Event
				session.DeclinedReason = resp.DeclinedReason
			}
		}
	}
	return session, nil
}

func (s *DefaultIdentityService) StatusForBooking(ctx context.Context, bookingID string) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	return res, nil
}

// callbackPayload is the gateway webhook body.
type callbackPayload struct {
	Reference          string          `json:"reference"`
	Event              string          `json:"event"`
	VerificationURL    string          `json:"verification_url"`
	DeclinedReason     string          `json:"declined_reason"`
	VerificationResult json.RawMessage `json:"verification_result"`
}

func (s *DefaultIdentityService) HandleCallback(ctx context.Context, rawBody []byte, signature string) error {
	logger := utils.GetLogger()

	if !s.Gateway.VerifySignature(rawBody, signature) {
		return fmt.Errorf("invalid webhook signature")
	}

	var payload callbackPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	if payload.Reference == "" {
		return fmt.Errorf("webhook payload has no reference")
	}

	status := StatusForEvent(payload.Event)
	logger.Info("identity verification event",
		zap.String("reference", payload.Reference),
		zap.String("event", payload.Event),
		zap.String("status", status))

	if err := s.Sessions.UpdateStatus(ctx, payload.Reference, status, payload.Event, payload.DeclinedReason); err != nil {
		return fmt.Errorf("failed to update verification session: %w", err)
	}

	// The reservation carrying this reference, if any, mirrors the verdict.
	if err := s.Reservations.UpdateVerificationByReference(ctx, payload.Reference, status, payload.Event, payload.DeclinedReason); err != nil {
		return fmt.Errorf("failed to update booking verification: %w", err)
	}
	return nil
}

func (s *DefaultIdentityService) downloadDocument(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.DownloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}
