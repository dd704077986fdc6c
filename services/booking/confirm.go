package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookastay/models"
	"bookastay/services/availability"
	"bookastay/services/payment"
	"bookastay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmRequest finalizes a stay after the guest has paid.
type ConfirmRequest struct {
	Provider         string `json:"provider"`
	PaymentReference string `json:"payment_reference"`
	// TransactionRef optionally names the pending reservation created
	// earlier, so it can be transitioned in place.
	TransactionRef string `json:"transaction_ref"`

	RoomType string  `json:"room_type"`
	CheckIn  string  `json:"check_in_date"`
	CheckOut string  `json:"check_out_date"`
	Guests   int     `json:"guests"`
	Price    float64 `json:"price"`

	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IDType    string `json:"id_type"`
	IDFileURL string `json:"id_file_url"`

	// Inline ID document upload, used when IDFileURL is not yet set.
	IDFile     []byte `json:"-"`
	IDFileName string `json:"-"`
}

// Confirm verifies the payment server-side, re-checks availability against
// the current store state and commits the reservation as confirmed/paid.
// When the request names a pending row by its transaction ref, that row is
// transitioned in place (its ref becomes the payment reference); otherwise
// a fresh confirmed row is inserted. Post-commit side effects (identity
// verification initiation, receipt and notifications) are enqueued
// best-effort and never fail the booking.
func (s *DefaultBookingService) Confirm(ctx context.Context, req ConfirmRequest) (*models.Reservation, error) {
	logger := utils.GetLogger()

	if !strings.EqualFold(req.Provider, "paystack") {
		return nil, NewValidationError("Unsupported provider")
	}
	if req.PaymentReference == "" {
		return nil, NewValidationError("Payment reference is required")
	}

	// Obtain the ID document URL first, uploading inline bytes if needed.
	if req.IDFileURL == "" && len(req.IDFile) > 0 {
		name := req.IDFileName
		if name == "" {
			name = fmt.Sprintf("id_%d", time.Now().UnixMilli())
		}
		url, err := s.Storage.UploadBuffer(ctx, req.IDFile, name)
		if err != nil {
			return nil, fmt.Errorf("failed to upload ID file: %w", err)
		}
		req.IDFileURL = url
	}
	if req.IDFileURL == "" {
		return nil, NewValidationError("ID file is required")
	}

	verified, err := s.Payments.Verify(ctx, req.PaymentReference)
	if err != nil {
		var verr *payment.VerificationError
		if errors.As(err, &verr) {
			return nil, &PaymentError{Message: verr.Detail}
		}
		return nil, err
	}

	room := availability.NormalizeRoom(req.RoomType)

	// The pending row from the create step is status "booked" and does not
	// count as a conflict; only a reservation that became active since then
	// blocks the confirmation.
	verdict, err := s.Resolver.CheckOverlap(ctx, room, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if verdict.InvalidRange() {
		return nil, NewValidationError(verdict.Reason)
	}
	if verdict.Overlapping {
		return nil, &ConflictError{Message: verdict.Reason, Blocking: verdict.Blocking}
	}

	price := req.Price
	if price <= 0 {
		price = verified.Amount()
	}

	res, err := s.commitConfirmed(ctx, req, room, price, verified)
	if err != nil {
		return nil, err
	}

	if err := s.Outbox.EnqueueVerification(ctx, res.ID); err != nil {
		logger.Error("failed to enqueue identity verification", zap.String("bookingID", res.ID), zap.Error(err))
	}
	if err := s.Outbox.EnqueueNotify(ctx, res.ID); err != nil {
		logger.Error("failed to enqueue booking notification", zap.String("bookingID", res.ID), zap.Error(err))
	}

	return res, nil
}

// commitConfirmed transitions the original pending row in place when it can
// be found, so a successful payment does not leave an orphaned booked row
// behind. Reconciler- and admin-originated rows never take this path.
func (s *DefaultBookingService) commitConfirmed(ctx context.Context, req ConfirmRequest, room string, price float64, verified *payment.Verified) (*models.Reservation, error) {
	if req.TransactionRef != "" {
		pending, err := s.Repo.GetByTransactionRef(ctx, req.TransactionRef)
		if err != nil {
			return nil, err
		}
		if pending != nil && pending.Status == models.StatusBooked {
			pending.Status = models.StatusConfirmed
			pending.PaymentStatus = models.PaymentPaid
			pending.TransactionRef = req.PaymentReference
			pending.Provider = "paystack"
			pending.PaidAmount = verified.Amount()
			pending.Price = price
			pending.IDFileURL = req.IDFileURL
			if req.IDType != "" {
				pending.IDType = req.IDType
			}
			if err := s.Repo.Update(ctx, pending); err != nil {
				return nil, wrapInsertErr(err)
			}
			return pending, nil
		}
	}

	res := &models.Reservation{
		ID:             uuid.New().String(),
		TransactionRef: req.PaymentReference,
		RoomType:       room,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Status:         models.StatusConfirmed,
		PaymentStatus:  models.PaymentPaid,
		Source:         models.SourceWebsite,
		Provider:       "paystack",
		Name:           valueOr(req.Name, "Guest User"),
		Email:          valueOr(req.Email, "guest@example.com"),
		Phone:          req.Phone,
		IDType:         req.IDType,
		IDFileURL:      req.IDFileURL,
		Guests:         maxInt(req.Guests, 1),
		Price:          price,
		PaidAmount:     verified.Amount(),
		CreatedAt:      time.Now(),
	}
	if err := s.Repo.Insert(ctx, res); err != nil {
		return nil, wrapInsertErr(err)
	}
	return res, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
