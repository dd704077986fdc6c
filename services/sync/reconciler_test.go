package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"bookastay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo implements the reservation repository over a map, mirroring the
// store's matching semantics for the methods the reconciler uses.
type fakeRepo struct {
	rows map[string]*models.Reservation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*models.Reservation)}
}

func (f *fakeRepo) Insert(_ context.Context, res *models.Reservation) error {
	for _, row := range f.rows {
		if res.AirbnbUID != "" && row.AirbnbUID == res.AirbnbUID {
			return fmt.Errorf("duplicate airbnb_uid %s", res.AirbnbUID)
		}
	}
	clone := *res
	f.rows[res.ID] = &clone
	return nil
}

func (f *fakeRepo) Update(_ context.Context, res *models.Reservation) error {
	clone := *res
	f.rows[res.ID] = &clone
	return nil
}

func (f *fakeRepo) DeleteByID(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	if row, ok := f.rows[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetByTransactionRef(_ context.Context, ref string) (*models.Reservation, error) {
	for _, row := range f.rows {
		if row.TransactionRef == ref {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetByAirbnbUID(_ context.Context, uid string) (*models.Reservation, error) {
	for _, row := range f.rows {
		if row.AirbnbUID == uid {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FirstActiveOverlap(_ context.Context, roomType, checkIn, checkOut string) (*models.Reservation, error) {
	for _, row := range f.rows {
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

func (f *fakeRepo) FindConfirmedStay(_ context.Context, roomType, checkIn, checkOut, excludeSource string) (*models.Reservation, error) {
	for _, row := range f.rows {
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

func (f *fakeRepo) SetVerification(context.Context, string, string, string, string) error {
	return nil
}

func (f *fakeRepo) UpdateVerificationByReference(context.Context, string, string, string, string) error {
	return nil
}

func (f *fakeRepo) ListDates(context.Context, []string) ([]models.BookingDates, error) {
	return nil, nil
}

func (f *fakeRepo) ListAll(context.Context) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeRepo) DeletePastSynced(_ context.Context, source, before string) (int64, error) {
	var deleted int64
	for id, row := range f.rows {
		if row.Source == source && row.CheckOut < before {
			delete(f.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

// fakeFetcher serves canned feed bytes per URL.
type fakeFetcher struct {
	feeds map[string][]byte
	errs  map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.feeds[url]; ok {
		return body, nil
	}
	return nil, errors.New("unknown feed")
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestReconciler(repo *fakeRepo, fetcher *fakeFetcher, feeds ...FeedConfig) *Reconciler {
	return &Reconciler{Repo: repo, Fetcher: fetcher, Feeds: feeds, Now: fixedNow}
}

func feedWith(events ...string) []byte {
	return []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Test//EN\r\n" +
		strings.Join(events, "") + "END:VCALENDAR\r\n")
}

func vevent(uid, dtstart, dtend string) string {
	return "BEGIN:VEVENT\r\n" +
		"DTSTART;VALUE=DATE:" + dtstart + "\r\n" +
		"DTEND;VALUE=DATE:" + dtend + "\r\n" +
		"UID:" + uid + "\r\n" +
		"SUMMARY:Reserved\r\n" +
		"END:VEVENT\r\n"
}

func TestRun_InsertsAndIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{feeds: map[string][]byte{
		"http://feed/entire": feedWith(
			vevent("a@airbnb.com", "20250610", "20250615"),
			vevent("b@airbnb.com", "20250620", "20250623"),
		),
	}}
	rec := newTestReconciler(repo, fetcher,
		FeedConfig{Name: "entire", URL: "http://feed/entire", RoomType: "entire"})

	report, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.New)
	assert.Equal(t, 0, report.Errors)
	assert.Len(t, repo.rows, 2)

	row, err := repo.GetByAirbnbUID(context.Background(), "a@airbnb.com")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, models.StatusBlocked, row.Status)
	assert.Equal(t, models.SourceAirbnb, row.Source)
	assert.Equal(t, "2025-06-10", row.CheckIn)
	assert.Equal(t, "2025-06-14", row.CheckOut)

	// A second run over the identical feed writes nothing.
	report, err = rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.New)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 2, report.Existing)
	assert.Len(t, repo.rows, 2)
}

func TestRun_UpdatesDriftedDatesInPlace(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{feeds: map[string][]byte{
		"http://feed/entire": feedWith(vevent("a@airbnb.com", "20250610", "20250615")),
	}}
	rec := newTestReconciler(repo, fetcher,
		FeedConfig{Name: "entire", URL: "http://feed/entire", RoomType: "entire"})

	_, err := rec.Run(context.Background())
	require.NoError(t, err)

	// The guest extended the stay on Airbnb's side.
	fetcher.feeds["http://feed/entire"] = feedWith(vevent("a@airbnb.com", "20250610", "20250618"))

	report, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.New)
	assert.Len(t, repo.rows, 1, "drift must not create a second row")

	row, _ := repo.GetByAirbnbUID(context.Background(), "a@airbnb.com")
	require.NotNil(t, row)
	assert.Equal(t, "2025-06-17", row.CheckOut)
}

func TestRun_UpdatesRoomWhenEventMovesFeeds(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{feeds: map[string][]byte{
		"http://feed/room1": feedWith(vevent("a@airbnb.com", "20250610", "20250615")),
		"http://feed/room2": feedWith(),
	}}
	rec := newTestReconciler(repo, fetcher,
		FeedConfig{Name: "room1", URL: "http://feed/room1", RoomType: "room1"},
		FeedConfig{Name: "room2", URL: "http://feed/room2", RoomType: "room2"})

	_, err := rec.Run(context.Background())
	require.NoError(t, err)

	// The host moved the hold to the other listing: same UID and dates,
	// now published by the room2 feed.
	fetcher.feeds["http://feed/room1"] = feedWith()
	fetcher.feeds["http://feed/room2"] = feedWith(vevent("a@airbnb.com", "20250610", "20250615"))

	report, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.New)
	assert.Len(t, repo.rows, 1, "moving feeds must not create a second row")

	row, _ := repo.GetByAirbnbUID(context.Background(), "a@airbnb.com")
	require.NotNil(t, row)
	assert.Equal(t, "room2", row.RoomType)
	assert.Equal(t, "2025-06-10", row.CheckIn)
	assert.Equal(t, "2025-06-14", row.CheckOut)
}

func TestRun_SkipsCollisionWithLocalReservation(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["local"] = &models.Reservation{
		ID: "local", RoomType: "entire", CheckIn: "2025-06-11", CheckOut: "2025-06-13",
		Status: models.StatusConfirmed, Source: models.SourceWebsite,
	}
	fetcher := &fakeFetcher{feeds: map[string][]byte{
		"http://feed/entire": feedWith(vevent("a@airbnb.com", "20250610", "20250615")),
	}}
	rec := newTestReconciler(repo, fetcher,
		FeedConfig{Name: "entire", URL: "http://feed/entire", RoomType: "entire"})

	report, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.New)
	assert.Equal(t, 1, report.Existing)
	assert.Len(t, repo.rows, 1, "the local reservation wins")
}

func TestRun_SkipsStayAlreadyConfirmedLocally(t *testing.T) {
	// The same stay booked directly on the website: both calendars agree,
	// so the event is recognized rather than treated as a conflict.
	repo := newFakeRepo()
	repo.rows["local"] = &models.Reservation{
		ID: "local", RoomType: "entire", CheckIn: "2025-06-10", CheckOut: "2025-06-14",
		Status: models.StatusConfirmed, Source: models.SourceWebsite,
	}
	fetcher := &fakeFetcher{feeds: map[string][]byte{
		"http://feed/entire": feedWith(vevent("a@airbnb.com", "20250610", "20250615")),
	}}
	rec := newTestReconciler(repo, fetcher,
		FeedConfig{Name: "entire", URL: "http://feed/entire", RoomType: "entire"})

	report, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.New)
	assert.Equal(t, 1, report.Existing)
	assert.Len(t, repo.rows, 1)
}

func TestRun_FeedFailureDoesNotAbortOtherFeeds(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{
		feeds: map[string][]byte{
			"http://feed/room2": feedWith(vevent("r2@airbnb.com", "20250701", "20250705")),
		},
		errs: map[string]error{
			"http://feed/room1": errors.New("503 from upstream"),
		},
	}
	rec := newTestReconciler(repo, fetcher,
		FeedConfig{Name: "room1", URL: "http://feed/room1", RoomType: "room1"},
		FeedConfig{Name: "room2", URL: "http://feed/room2", RoomType: "room2"})

	report, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 1, report.New)
}

func TestRun_EventsBeyondHorizonAreNotMirrored(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{feeds: map[string][]byte{
		"http://feed/entire": feedWith(vevent("far@airbnb.com", "20270610", "20270615")),
	}}
	rec := newTestReconciler(repo, fetcher,
		FeedConfig{Name: "entire", URL: "http://feed/entire", RoomType: "entire"})

	report, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.New)
	assert.Empty(t, repo.rows)
}

func TestCleanupPast(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["old"] = &models.Reservation{
		ID: "old", Source: models.SourceAirbnb, CheckOut: "2025-05-20",
	}
	repo.rows["current"] = &models.Reservation{
		ID: "current", Source: models.SourceAirbnb, CheckOut: "2025-06-10",
	}
	repo.rows["history"] = &models.Reservation{
		ID: "history", Source: models.SourceWebsite, CheckOut: "2025-05-01",
	}
	rec := newTestReconciler(repo, &fakeFetcher{})

	deleted, err := rec.CleanupPast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, hasCurrent := repo.rows["current"]
	_, hasHistory := repo.rows["history"]
	assert.True(t, hasCurrent)
	assert.True(t, hasHistory, "website rows are kept as history")
}
