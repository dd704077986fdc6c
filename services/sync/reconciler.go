package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookastay/config"
	reservationRepo "bookastay/database/repository/reservation"
	"bookastay/models"
	"bookastay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher retrieves raw iCal bytes for a feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches feeds over plain HTTP with a bounded timeout.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	return body, nil
}

// FeedConfig names one external calendar and the room scope it covers.
type FeedConfig struct {
	Name     string
	URL      string
	RoomType string
}

// FeedsFromConfig builds the feed list from application config, skipping
// feeds with no URL configured.
func FeedsFromConfig() []FeedConfig {
	candidates := []FeedConfig{
		{Name: "airbnb-entire", URL: config.AppConfig.AirbnbEntireFeedURL, RoomType: "entire"},
		{Name: "airbnb-room1", URL: config.AppConfig.AirbnbRoom1FeedURL, RoomType: "room1"},
		{Name: "airbnb-room2", URL: config.AppConfig.AirbnbRoom2FeedURL, RoomType: "room2"},
	}
	var feeds []FeedConfig
	for _, f := range candidates {
		if f.URL != "" {
			feeds = append(feeds, f)
		}
	}
	return feeds
}

// Reconciler mirrors external calendar feeds into the reservation store as
// blocked rows, keyed by the feed event UID so repeated runs are idempotent.
type Reconciler struct {
	Repo    reservationRepo.ReservationRepository
	Fetcher Fetcher
	Feeds   []FeedConfig

	// Horizon bounds how far ahead events are mirrored. Zero means one year.
	Horizon time.Duration
	// Now is overridable for tests.
	Now func() time.Time
}

func NewReconciler(repo reservationRepo.ReservationRepository, feeds []FeedConfig) *Reconciler {
	return &Reconciler{
		Repo:    repo,
		Fetcher: NewHTTPFetcher(),
		Feeds:   feeds,
	}
}

// Run reconciles every configured feed and returns the merged counters.
// Failures are per-feed and per-event: a broken feed or malformed event is
// counted and logged but never aborts the rest of the run.
func (r *Reconciler) Run(ctx context.Context) (*models.SyncReport, error) {
	logger := utils.GetLogger()
	total := &models.SyncReport{}

	for _, feed := range r.Feeds {
		report := r.runFeed(ctx, feed)
		logger.Info("calendar feed reconciled",
			zap.String("feed", feed.Name),
			zap.Int("new", report.New),
			zap.Int("updated", report.Updated),
			zap.Int("existing", report.Existing),
			zap.Int("errors", report.Errors),
			zap.Int("processed", report.Processed))
		total.Add(report)
	}

	logger.Info("calendar sync complete",
		zap.Int("new", total.New),
		zap.Int("updated", total.Updated),
		zap.Int("existing", total.Existing),
		zap.Int("errors", total.Errors),
		zap.Int("processed", total.Processed))
	return total, nil
}

func (r *Reconciler) runFeed(ctx context.Context, feed FeedConfig) models.SyncReport {
	logger := utils.GetLogger()
	report := models.SyncReport{}

	raw, err := r.Fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		logger.Error("failed to fetch calendar feed", zap.String("feed", feed.Name), zap.Error(err))
		report.Errors++
		return report
	}

	events, failures := parseEvents(raw)
	for _, perr := range failures {
		logger.Warn("skipping malformed feed event", zap.String("feed", feed.Name), zap.Error(perr))
		report.Errors++
	}

	horizon := r.horizonDate()
	for _, ev := range events {
		report.Processed++
		if ev.CheckIn > horizon {
			report.Existing++
			continue
		}
		if err := r.apply(ctx, feed, ev, &report); err != nil {
			logger.Error("failed to apply feed event",
				zap.String("feed", feed.Name),
				zap.String("uid", ev.UID),
				zap.Error(err))
			report.Errors++
		}
	}
	return report
}

// apply executes the decision for one event against the store.
func (r *Reconciler) apply(ctx context.Context, feed FeedConfig, ev Event, report *models.SyncReport) error {
	existing, err := r.Repo.GetByAirbnbUID(ctx, ev.UID)
	if err != nil {
		return err
	}

	// A locally confirmed identical stay means both sides already have the
	// booking; any other active overlap means the local calendar wins.
	var collision *models.Reservation
	if existing == nil {
		collision, err = r.Repo.FindConfirmedStay(ctx, feed.RoomType, ev.CheckIn, ev.CheckOut, models.SourceAirbnb)
		if err != nil {
			return err
		}
		if collision == nil {
			collision, err = r.Repo.FirstActiveOverlap(ctx, feed.RoomType, ev.CheckIn, ev.CheckOut)
			if err != nil {
				return err
			}
		}
	}

	switch Decide(existing, collision, ev, feed.RoomType) {
	case Skip:
		report.Existing++
		return nil

	case Update:
		existing.RoomType = feed.RoomType
		existing.CheckIn = ev.CheckIn
		existing.CheckOut = ev.CheckOut
		existing.Name = ev.Summary
		if err := r.Repo.Update(ctx, existing); err != nil {
			return err
		}
		report.Updated++
		return nil

	default:
		res := &models.Reservation{
			ID:             uuid.New().String(),
			TransactionRef: fmt.Sprintf("airbnb_%s", ev.UID),
			RoomType:       feed.RoomType,
			CheckIn:        ev.CheckIn,
			CheckOut:       ev.CheckOut,
			Status:         models.StatusBlocked,
			PaymentStatus:  models.PaymentPending,
			Source:         models.SourceAirbnb,
			AirbnbUID:      ev.UID,
			Name:           ev.Summary,
			Email:          "sync@airbnb",
			Guests:         0,
			CreatedAt:      time.Now(),
		}
		if err := r.Repo.Insert(ctx, res); err != nil {
			return err
		}
		report.New++
		return nil
	}
}

func (r *Reconciler) horizonDate() string {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	horizon := r.Horizon
	if horizon == 0 {
		horizon = 365 * 24 * time.Hour
	}
	return now.Add(horizon).Format(models.DateLayout)
}
