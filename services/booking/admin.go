package booking

import (
	"context"
	"fmt"
	"time"

	"bookastay/models"
	"bookastay/services/availability"

	"github.com/google/uuid"
)

// BlockRequest is an administrative hold on a room scope.
type BlockRequest struct {
	RoomType string `json:"room_type"`
	CheckIn  string `json:"check_in_date"`
	CheckOut string `json:"check_out_date"`
	Reason   string `json:"reason"`
}

// BlockDates creates a blocked reservation with synthetic guest data. It is
// a first-class reservation for conflict purposes and passes through the
// same overlap resolver as guest bookings.
func (s *DefaultBookingService) BlockDates(ctx context.Context, req BlockRequest) (*models.Reservation, error) {
	if req.RoomType == "" || req.CheckIn == "" || req.CheckOut == "" {
		return nil, NewValidationError("Room type, check-in, and check-out dates are required")
	}

	room := availability.NormalizeRoom(req.RoomType)

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

	res := &models.Reservation{
		ID:             uuid.New().String(),
		TransactionRef: fmt.Sprintf("BLOCK-%d", time.Now().UnixMilli()),
		RoomType:       room,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Status:         models.StatusBlocked,
		PaymentStatus:  models.PaymentPending,
		Source:         models.SourceAdmin,
		Name:           "ADMIN BLOCK",
		Email:          "admin@system",
		Phone:          "00000000000",
		Guests:         0,
		Price:          0,
		CreatedAt:      time.Now(),
	}
	if err := s.Repo.Insert(ctx, res); err != nil {
		return nil, wrapInsertErr(err)
	}
	return res, nil
}

// Delete removes a reservation by id. Paid, website-originated reservations
// are money-bearing and refused; administrative blocks and externally
// synced rows are always deletable.
func (s *DefaultBookingService) Delete(ctx context.Context, id string) error {
	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}
	if res.Status != models.StatusBlocked &&
		res.Source == models.SourceWebsite &&
		res.PaymentStatus == models.PaymentPaid {
		return ErrProtected
	}
	return s.Repo.DeleteByID(ctx, id)
}
