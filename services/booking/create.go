package booking

import (
	"context"
	"fmt"
	"time"

	"bookastay/models"
	"bookastay/services/availability"

	"github.com/google/uuid"
)

// CreateRequest carries the guest's booking request.
type CreateRequest struct {
	RoomType string `json:"room_type"`
	Guests   int    `json:"guests"`
	CheckIn  string `json:"check_in_date"`
	CheckOut string `json:"check_out_date"`

	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IDType    string `json:"id_type"`
	IDFileURL string `json:"id_file_url"`
}

// Create validates the request, prices the stay and inserts a pending
// (booked) reservation. The overlap resolver runs twice: once up front as a
// fast fail, and once immediately before the insert to narrow the
// check-to-insert race window. The store's unique indexes remain the
// backstop for anything that slips through.
func (s *DefaultBookingService) Create(ctx context.Context, req CreateRequest) (*models.Reservation, error) {
	if req.CheckIn == "" || req.CheckOut == "" || req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, NewValidationError("Missing required fields")
	}

	room := availability.NormalizeRoom(req.RoomType)

	// The resolver's verdict comes first so garbage dates surface as an
	// invalid range rather than a zero-night minimum-stay complaint.
	verdict, err := s.Resolver.CheckOverlap(ctx, room, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if verdict.InvalidRange() {
		return nil, NewValidationError(verdict.Reason)
	}

	nights := nightsBetween(req.CheckIn, req.CheckOut)
	if room != availability.RoomEntire && nights < s.Pricing.MinNightsRoom {
		return nil, NewValidationError(fmt.Sprintf(
			"Single room bookings require a minimum of %d nights", s.Pricing.MinNightsRoom))
	}

	if verdict.Overlapping {
		return nil, &ConflictError{Message: verdict.Reason, Blocking: verdict.Blocking}
	}

	quote := s.Pricing.QuoteStay(room, nights, req.Guests)

	res := &models.Reservation{
		ID:             uuid.New().String(),
		TransactionRef: uuid.New().String(),
		RoomType:       room,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Status:         models.StatusBooked,
		PaymentStatus:  models.PaymentPending,
		Source:         models.SourceWebsite,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		IDType:         req.IDType,
		IDFileURL:      req.IDFileURL,
		Guests:         req.Guests,
		Price:          quote.Total,
		CreatedAt:      time.Now(),
	}

	// Re-check right before the insert: another request may have become
	// active since the first check.
	verdict, err = s.Resolver.CheckOverlap(ctx, room, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if verdict.Overlapping {
		return nil, &ConflictError{Message: verdict.Reason, Blocking: verdict.Blocking}
	}

	if err := s.Repo.Insert(ctx, res); err != nil {
		return nil, wrapInsertErr(err)
	}
	return res, nil
}
