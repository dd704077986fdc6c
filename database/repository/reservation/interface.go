package reservationRepo

import (
	"context"

	"bookastay/models"
)

// ReservationRepository defines the data access contract for reservations.
// Point lookups return (nil, nil) when no matching record exists.
type ReservationRepository interface {
	Insert(ctx context.Context, res *models.Reservation) error
	Update(ctx context.Context, res *models.Reservation) error
	DeleteByID(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByTransactionRef(ctx context.Context, ref string) (*models.Reservation, error)
	GetByAirbnbUID(ctx context.Context, uid string) (*models.Reservation, error)

	// FirstActiveOverlap returns one active (confirmed or blocked)
	// reservation whose [check_in, check_out) intersects the requested
	// half-open interval. An empty roomType matches any room.
	FirstActiveOverlap(ctx context.Context, roomType, checkIn, checkOut string) (*models.Reservation, error)

	// FindConfirmedStay returns one confirmed reservation with exactly the
	// given room and dates whose source differs from excludeSource.
	FindConfirmedStay(ctx context.Context, roomType, checkIn, checkOut, excludeSource string) (*models.Reservation, error)

	SetVerification(ctx context.Context, id, reference, url, status string) error
	UpdateVerificationByReference(ctx context.Context, reference, status, event, reason string) error

	ListDates(ctx context.Context, statuses []string) ([]models.BookingDates, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)

	// DeletePastSynced removes reservations from the given source whose
	// checkout date is before the given date. Returns the deleted count.
	DeletePastSynced(ctx context.Context, source, before string) (int64, error)
}
