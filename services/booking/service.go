package booking

import (
	"context"

	reservationRepo "bookastay/database/repository/reservation"
	"bookastay/models"
	"bookastay/services/availability"
	"bookastay/services/payment"
	"bookastay/services/storage"
)

// BookingService manages the reservation lifecycle: availability checks,
// pending creation, payment-gated confirmation, administrative blocks and
// deletion.
type BookingService interface {
	CheckAvailability(ctx context.Context, roomType, checkIn, checkOut string) (availability.OverlapResult, error)
	Create(ctx context.Context, req CreateRequest) (*models.Reservation, error)
	Confirm(ctx context.Context, req ConfirmRequest) (*models.Reservation, error)
	Get(ctx context.Context, id string) (*models.Reservation, error)
	ListDates(ctx context.Context) ([]models.BookingDates, error)

	BlockDates(ctx context.Context, req BlockRequest) (*models.Reservation, error)
	Delete(ctx context.Context, id string) error
	ListAdmin(ctx context.Context) (*AdminBookings, error)
	BookedDates(ctx context.Context) ([]models.BookingDates, error)
}

// Outbox enqueues post-commit side effects (receipt dispatch, identity
// verification initiation) for asynchronous processing with retries.
type Outbox interface {
	EnqueueNotify(ctx context.Context, bookingID string) error
	EnqueueVerification(ctx context.Context, bookingID string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     reservationRepo.ReservationRepository
	Resolver *availability.Resolver
	Payments payment.Verifier
	Storage  storage.StorageService
	Outbox   Outbox
	Pricing  Pricing
}

// AdminBookings splits the full listing into guest bookings and admin blocks.
type AdminBookings struct {
	All         []models.Reservation `json:"all"`
	Users       []models.Reservation `json:"users"`
	AdminBlocks []models.Reservation `json:"adminBlocks"`
}

// CheckAvailability runs the overlap resolver without side effects.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, roomType, checkIn, checkOut string) (availability.OverlapResult, error) {
	return s.Resolver.CheckOverlap(ctx, roomType, checkIn, checkOut)
}

// Get fetches one reservation by id.
func (s *DefaultBookingService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// ListDates returns the stay windows shown on the public calendar: pending
// and confirmed bookings plus blocked holds (admin blocks and synced
// external stays). Every window the resolver would reject must appear here,
// or the frontend offers dates that conflict on submit.
func (s *DefaultBookingService) ListDates(ctx context.Context) ([]models.BookingDates, error) {
	return s.Repo.ListDates(ctx, []string{models.StatusBooked, models.StatusConfirmed, models.StatusBlocked})
}

// BookedDates returns the active (conflict-relevant) stay windows for the
// admin calendar.
func (s *DefaultBookingService) BookedDates(ctx context.Context) ([]models.BookingDates, error) {
	return s.Repo.ListDates(ctx, models.ActiveStatuses)
}

// ListAdmin returns every reservation, split into guest bookings and blocks.
func (s *DefaultBookingService) ListAdmin(ctx context.Context) (*AdminBookings, error) {
	all, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := &AdminBookings{All: all}
	for _, res := range all {
		if res.Status == models.StatusBlocked {
			out.AdminBlocks = append(out.AdminBlocks, res)
		} else {
			out.Users = append(out.Users, res)
		}
	}
	return out, nil
}
