package models

import "time"

// Reservation lifecycle statuses.
const (
	StatusBooked    = "booked"    // pending, payment not yet confirmed
	StatusConfirmed = "confirmed" // paid, counts for conflicts
	StatusBlocked   = "blocked"   // administrative hold, counts for conflicts
	StatusCancelled = "cancelled" // inactive, ignored by overlap checks
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Reservation provenance.
const (
	SourceWebsite = "website"
	SourceAirbnb  = "airbnb"
	SourceAdmin   = "admin"
)

// DateLayout is the calendar-date format used for check-in/check-out.
// Dates are stored as plain strings so that half-open interval comparisons
// in the store are lexicographic.
const DateLayout = "2006-01-02"

// Reservation is the central record: a stay on one room scope over a
// half-open date interval [check_in, check_out). The checkout day itself
// is not occupied.
type Reservation struct {
	ID             string `bson:"id" json:"id"`
	TransactionRef string `bson:"transaction_ref" json:"transaction_ref"`

	RoomType string `bson:"room_type" json:"room_type"`
	CheckIn  string `bson:"check_in" json:"check_in"`
	CheckOut string `bson:"check_out" json:"check_out"`

	Status        string `bson:"status" json:"status"`
	PaymentStatus string `bson:"payment_status" json:"payment_status"`

	Source    string `bson:"source" json:"source"`
	AirbnbUID string `bson:"airbnb_uid,omitempty" json:"airbnb_uid,omitempty"`
	Provider  string `bson:"provider,omitempty" json:"provider,omitempty"`

	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	IDType    string `bson:"id_type,omitempty" json:"id_type,omitempty"`
	IDFileURL string `bson:"id_file_url,omitempty" json:"id_file_url,omitempty"`
	Guests    int    `bson:"guests" json:"guests"`

	Price      float64 `bson:"price" json:"price"`
	PaidAmount float64 `bson:"paid_amount" json:"paid_amount"`

	VerificationReference string `bson:"verification_reference,omitempty" json:"verification_reference,omitempty"`
	VerificationStatus    string `bson:"verification_status,omitempty" json:"verification_status,omitempty"`
	VerificationURL       string `bson:"verification_url,omitempty" json:"verification_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Active reports whether the reservation counts toward conflict detection.
// Pending (booked) rows represent non-finalized attempts and must not lock
// out dates; cancelled rows are inert.
func (r *Reservation) Active() bool {
	return r.Status == StatusConfirmed || r.Status == StatusBlocked
}

// ActiveStatuses are the lifecycle statuses the overlap resolver considers.
var ActiveStatuses = []string{StatusConfirmed, StatusBlocked}

// BookingDates is the trimmed projection returned by the public dates listing.
type BookingDates struct {
	CheckIn  string `bson:"check_in" json:"check_in"`
	CheckOut string `bson:"check_out" json:"check_out"`
	RoomType string `bson:"room_type" json:"room_type"`
	Status   string `bson:"status" json:"status"`
}
