package booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookastay/models"
	"bookastay/services/availability"
	"bookastay/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// memRepo is an in-memory ReservationRepository used across the booking
// service tests.
type memRepo struct {
	rows      map[string]*models.Reservation
	insertErr error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[string]*models.Reservation)}
}

func (m *memRepo) Insert(_ context.Context, res *models.Reservation) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, row := range m.rows {
		if row.TransactionRef == res.TransactionRef {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	clone := *res
	m.rows[res.ID] = &clone
	return nil
}

func (m *memRepo) Update(_ context.Context, res *models.Reservation) error {
	clone := *res
	m.rows[res.ID] = &clone
	return nil
}

func (m *memRepo) DeleteByID(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	if row, ok := m.rows[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func (m *memRepo) GetByTransactionRef(_ context.Context, ref string) (*models.Reservation, error) {
	for _, row := range m.rows {
		if row.TransactionRef == ref {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memRepo) GetByAirbnbUID(_ context.Context, uid string) (*models.Reservation, error) {
	for _, row := range m.rows {
		if row.AirbnbUID == uid {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FirstActiveOverlap(_ context.Context, roomType, checkIn, checkOut string) (*models.Reservation, error) {
	for _, row := range m.rows {
		if !row.Active() {
			continue
		}
		if roomType != "" && !strings.EqualFold(row.RoomType, roomType) {
			continue
		}
		if row.CheckIn < checkOut && row.CheckOut > checkIn {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindConfirmedStay(_ context.Context, roomType, checkIn, checkOut, excludeSource string) (*models.Reservation, error) {
	for _, row := range m.rows {
		if row.Status != models.StatusConfirmed || row.Source == excludeSource {
			continue
		}
		if row.RoomType == roomType && row.CheckIn == checkIn && row.CheckOut == checkOut {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memRepo) SetVerification(_ context.Context, id, reference, url, status string) error {
	if row, ok := m.rows[id]; ok {
		row.VerificationReference = reference
		row.VerificationURL = url
		row.VerificationStatus = status
	}
	return nil
}

func (m *memRepo) UpdateVerificationByReference(_ context.Context, reference, status, event, reason string) error {
	for _, row := range m.rows {
		if row.VerificationReference == reference {
			row.VerificationStatus = status
		}
	}
	return nil
}

func (m *memRepo) ListDates(_ context.Context, statuses []string) ([]models.BookingDates, error) {
	var out []models.BookingDates
	for _, row := range m.rows {
		for _, st := range statuses {
			if row.Status == st {
				out = append(out, models.BookingDates{
					CheckIn: row.CheckIn, CheckOut: row.CheckOut,
					RoomType: row.RoomType, Status: row.Status,
				})
			}
		}
	}
	return out, nil
}

func (m *memRepo) ListAll(_ context.Context) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, row := range m.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (m *memRepo) DeletePastSynced(_ context.Context, source, before string) (int64, error) {
	var deleted int64
	for id, row := range m.rows {
		if row.Source == source && row.CheckOut < before {
			delete(m.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

// fakeVerifier is a canned payment gateway.
type fakeVerifier struct {
	result *payment.Verified
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, reference string) (*payment.Verified, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.Reference = reference
	return &res, nil
}

// fakeStorage returns a fixed URL for uploaded bytes.
type fakeStorage struct {
	url string
	err error
}

func (f *fakeStorage) UploadBuffer(_ context.Context, _ []byte, _ string) (string, error) {
	return f.url, f.err
}

func (f *fakeStorage) DeleteFile(context.Context, string) error { return nil }

// recordingOutbox records enqueued task ids.
type recordingOutbox struct {
	notified []string
	verified []string
	err      error
}

func (o *recordingOutbox) EnqueueNotify(_ context.Context, id string) error {
	o.notified = append(o.notified, id)
	return o.err
}

func (o *recordingOutbox) EnqueueVerification(_ context.Context, id string) error {
	o.verified = append(o.verified, id)
	return o.err
}

func testPricing() Pricing {
	return Pricing{
		EntireRate:         100000,
		RoomRate:           60000,
		CleaningFee:        20000,
		ServiceFee:         25000,
		ExtraGuestPerNight: 5000,
		IncludedGuests:     2,
		MinNightsRoom:      2,
	}
}

func newTestService(repo *memRepo) (*DefaultBookingService, *recordingOutbox, *fakeVerifier) {
	outbox := &recordingOutbox{}
	verifier := &fakeVerifier{result: &payment.Verified{AmountMinor: 25500000, Currency: "NGN"}}
	svc := &DefaultBookingService{
		Repo:     repo,
		Resolver: &availability.Resolver{Repo: repo},
		Payments: verifier,
		Storage:  &fakeStorage{url: "https://cdn.example.com/bookings/id.jpg"},
		Outbox:   outbox,
		Pricing:  testPricing(),
	}
	return svc, outbox, verifier
}

func validCreate() CreateRequest {
	return CreateRequest{
		RoomType: "entire",
		Guests:   2,
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-03",
		Name:     "Ada Obi",
		Email:    "ada@example.com",
		Phone:    "08012345678",
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(newMemRepo())
	req := validCreate()
	req.Email = ""

	_, err := svc.Create(context.Background(), req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestCreate_MinimumStayForSubRooms(t *testing.T) {
	// One night in a sub-room is below the minimum stay.
	svc, _, _ := newTestService(newMemRepo())
	req := validCreate()
	req.RoomType = "room1"
	req.CheckIn = "2025-06-01"
	req.CheckOut = "2025-06-02"

	_, err := svc.Create(context.Background(), req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "minimum of 2 nights")

	// The same single night is fine for the entire apartment.
	req.RoomType = "entire"
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreate_InvalidRangeIsValidationNotConflict(t *testing.T) {
	svc, _, _ := newTestService(newMemRepo())
	req := validCreate()
	req.CheckIn = "2025-06-05"
	req.CheckOut = "2025-06-01"

	_, err := svc.Create(context.Background(), req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "inverted range must surface as validation, got %v", err)
	var cerr *ConflictError
	assert.False(t, errors.As(err, &cerr))
}

func TestCreate_GarbageDatesReportInvalidRangeNotMinStay(t *testing.T) {
	// Unparseable dates yield zero nights, which must not masquerade as a
	// minimum-stay violation on sub-rooms.
	svc, _, _ := newTestService(newMemRepo())
	req := validCreate()
	req.RoomType = "room1"
	req.CheckIn = "not-a-date"
	req.CheckOut = "2025-06-03"

	_, err := svc.Create(context.Background(), req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, availability.ReasonInvalidRange, verr.Message)
	assert.NotContains(t, verr.Message, "minimum")
}

func TestCreate_PendingAndPricing(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestService(repo)
	req := validCreate()
	req.Guests = 3 // one extra guest over the included two

	res, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, res.Status)
	assert.Equal(t, models.PaymentPending, res.PaymentStatus)
	assert.Equal(t, models.SourceWebsite, res.Source)
	assert.NotEmpty(t, res.TransactionRef)
	// 100000*2 nights + 20000 + 25000 + 5000*1 extra*2 nights
	assert.Equal(t, float64(255000), res.Price)
}

func TestCreate_ConflictCarriesBlockingRecord(t *testing.T) {
	repo := newMemRepo()
	repo.rows["x"] = &models.Reservation{
		ID: "x", RoomType: "room2", CheckIn: "2025-06-02", CheckOut: "2025-06-04",
		Status: models.StatusConfirmed, TransactionRef: "tr-x",
	}
	svc, _, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), validCreate())
	var cerr *ConflictError
	require.True(t, errors.As(err, &cerr))
	require.NotNil(t, cerr.Blocking)
	assert.Equal(t, "room2", cerr.Blocking.RoomType)
}

func TestCreate_PendingRowsDoNotBlock(t *testing.T) {
	repo := newMemRepo()
	repo.rows["x"] = &models.Reservation{
		ID: "x", RoomType: "entire", CheckIn: "2025-06-01", CheckOut: "2025-06-03",
		Status: models.StatusBooked, TransactionRef: "tr-x",
	}
	svc, _, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), validCreate())
	assert.NoError(t, err)
}

func TestCreate_DuplicateKeyMapsToConflict(t *testing.T) {
	repo := newMemRepo()
	repo.insertErr = mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	svc, _, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), validCreate())
	var cerr *ConflictError
	require.True(t, errors.As(err, &cerr))
}

func TestQuoteStay(t *testing.T) {
	p := testPricing()

	q := p.QuoteStay("room1", 3, 2)
	assert.Equal(t, float64(60000*3+20000+25000), q.Total)
	assert.Zero(t, q.ExtraGuestFee)

	q = p.QuoteStay("entire", 2, 4)
	assert.Equal(t, float64(2*5000*2), q.ExtraGuestFee)
	assert.Equal(t, float64(100000*2+20000+25000+20000), q.Total)
}
