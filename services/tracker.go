package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flight-deals/metrics"
	"flight-deals/models"
	"flight-deals/notifier"
	"flight-deals/search/amadeus"
	"flight-deals/storage"
	"flight-deals/utils"
)

const (
	searchDirect    = "direct"
	searchWithStops = "with_stops"
)

// FlightSearcher resolves city codes and runs flight-offer searches
type FlightSearcher interface {
	ResolveCityCode(ctx context.Context, city string) (string, error)
	SearchFlights(ctx context.Context, q models.SearchQuery) (*models.FlightSearchResult, error)
}

// TrackerConfig holds the per-run search settings
type TrackerConfig struct {
	Origin      string
	HorizonDays int
	Currency    string
	Adults      int
	MaxOffers   int
}

// Dependencies for a DealTracker
type Dependencies struct {
	Destinations storage.DestinationStore
	Subscribers  storage.SubscriberStore
	Searcher     FlightSearcher
	Notifier     notifier.Notifier
	Metrics      *metrics.Metrics
	Logger       *utils.Logger
	Now          func() time.Time
}

// DealTracker runs one pass over all destinations and alerts subscribers about deals
type DealTracker struct {
	cfg          TrackerConfig
	destinations storage.DestinationStore
	subscribers  storage.SubscriberStore
	searcher     FlightSearcher
	notifier     notifier.Notifier
	cleaner      *DataCleaner
	metrics      *metrics.Metrics
	logger       *utils.Logger
	now          func() time.Time
}

// NewDealTracker creates a new DealTracker
func NewDealTracker(cfg TrackerConfig, dep Dependencies) *DealTracker {
	now := dep.Now
	if now == nil {
		now = time.Now
	}
	return &DealTracker{
		cfg:          cfg,
		destinations: dep.Destinations,
		subscribers:  dep.Subscribers,
		searcher:     dep.Searcher,
		notifier:     dep.Notifier,
		cleaner:      NewDataCleaner(dep.Logger),
		metrics:      dep.Metrics,
		logger:       dep.Logger,
		now:          now,
	}
}

// Run executes one sequential pass. On error the partial report is returned
// alongside it; IATA codes already written back stay written.
func (t *DealTracker) Run(ctx context.Context, runID string) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:     runID,
		StartedAt: t.now(),
		Origin:    t.cfg.Origin,
		Currency:  t.cfg.Currency,
	}
	defer func() { report.FinishedAt = t.now() }()

	t.logger.Info("Fetching destination data...")
	raw, err := t.destinations.ListDestinations(ctx)
	if err != nil {
		return report, err
	}
	rows := t.cleaner.Clean(raw)

	t.logger.Info("Getting IATA codes for cities...")
	resolved, err := t.resolveCodes(ctx, rows)
	if err != nil {
		return report, err
	}

	t.logger.Info("Getting subscriber list...")
	emails, err := t.subscribers.ListSubscribers(ctx)
	if err != nil {
		return report, err
	}
	report.Subscribers = len(emails)
	t.logger.Info("Found %d subscribers", len(emails))

	report.Window = models.NewSearchWindow(t.now(), t.cfg.HorizonDays)
	t.logger.Info("Searching for flights from %s to %s",
		report.Window.From.Format(models.DateLayout), report.Window.To.Format(models.DateLayout))

	for _, dest := range rows {
		result := models.DestinationResult{Destination: dest, ResolvedIATA: resolved[dest.ID]}
		if dest.NeedsIATACode() {
			result.SkipReason = "no IATA code"
			report.Results = append(report.Results, result)
			continue
		}

		t.logger.Info("Getting flights for %s (%s)...", dest.City, dest.IATACode)
		trip, err := t.cheapestTrip(ctx, dest, report.Window)
		if err != nil {
			report.Results = append(report.Results, result)
			return report, fmt.Errorf("search for %s failed: %w", dest.City, err)
		}
		result.Trip = trip

		if trip == nil {
			t.logger.Info("%s: no flights found", dest.City)
			report.Results = append(report.Results, result)
			continue
		}
		t.metrics.SetCheapestPrice(dest.IATACode, trip.Price)

		if !dest.IsDeal(trip.Price) {
			t.logger.Info("%s: %.2f is not below %.2f", dest.City, trip.Price, dest.LowestPrice)
			report.Results = append(report.Results, result)
			continue
		}

		result.Deal = true
		t.metrics.IncDeals()
		t.logger.Info("DEAL FOUND! %s at %.2f is below threshold %.2f", dest.City, trip.Price, dest.LowestPrice)
		t.notify(ctx, emails, *trip, &result)
		report.Results = append(report.Results, result)
	}

	t.metrics.MarkRunFinished(t.now())
	return report, nil
}

// resolveCodes fills in missing IATA codes in place and persists each one as it is found
func (t *DealTracker) resolveCodes(ctx context.Context, rows []models.Destination) (map[int]bool, error) {
	resolved := make(map[int]bool)
	for i := range rows {
		if !rows[i].NeedsIATACode() {
			continue
		}
		t.logger.Info("Getting IATA code for %s...", rows[i].City)

		code, err := t.searcher.ResolveCityCode(ctx, rows[i].City)
		if errors.Is(err, amadeus.ErrCityNotFound) {
			t.logger.Warn("No IATA code found for %s, skipping it this run", rows[i].City)
			continue
		}
		if err != nil {
			return resolved, fmt.Errorf("failed to resolve IATA code for %s: %w", rows[i].City, err)
		}

		if err := t.destinations.UpdateIATACode(ctx, rows[i].ID, code); err != nil {
			return resolved, err
		}
		rows[i].IATACode = code
		resolved[rows[i].ID] = true
		t.metrics.IncIATAResolved()
	}
	return resolved, nil
}

// cheapestTrip searches direct flights first and only falls back to flights with stops
// when the direct search has no usable offer
func (t *DealTracker) cheapestTrip(ctx context.Context, dest models.Destination, window models.SearchWindow) (*models.TripSummary, error) {
	q := models.SearchQuery{
		Origin:      t.cfg.Origin,
		Destination: dest.IATACode,
		Window:      window,
		NonStop:     true,
		Adults:      t.cfg.Adults,
		Currency:    t.cfg.Currency,
		MaxOffers:   t.cfg.MaxOffers,
	}

	trip, ok, err := t.search(ctx, q, searchDirect)
	if err != nil {
		return nil, err
	}
	if ok {
		t.logger.Info("%s: %s %.2f direct", dest.City, t.cfg.Currency, trip.Price)
		return &trip, nil
	}

	t.logger.Info("No direct flight to %s. Looking for indirect flights...", dest.City)
	q.NonStop = false
	trip, ok, err = t.search(ctx, q, searchWithStops)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	t.logger.Info("%s: cheapest indirect flight is %s %.2f with %d stop(s)", dest.City, t.cfg.Currency, trip.Price, trip.Stops)
	return &trip, nil
}

func (t *DealTracker) search(ctx context.Context, q models.SearchQuery, kind string) (models.TripSummary, bool, error) {
	start := time.Now()
	result, err := t.searcher.SearchFlights(ctx, q)
	t.metrics.ObserveSearch(kind, time.Since(start))
	if err != nil {
		return models.TripSummary{}, false, err
	}

	trip, ok := FindCheapestFlight(result)
	if !ok {
		t.metrics.IncNoOffers(kind)
	}
	return trip, ok, nil
}

func (t *DealTracker) notify(ctx context.Context, emails []string, trip models.TripSummary, result *models.DestinationResult) {
	if len(emails) == 0 {
		t.logger.Warn("No subscribers to notify about %s", result.Destination.City)
		return
	}

	body := ComposeDealMessage(trip, t.cfg.Currency)
	t.logger.Info("Sending notifications to %d subscribers...", len(emails))
	if err := t.notifier.Send(ctx, emails, DealSubject, body); err != nil {
		t.logger.Error("Notification for %s failed: %v", result.Destination.City, err)
		result.NotifyError = err.Error()
		t.metrics.IncNotifications(false)
		return
	}
	result.Notified = true
	t.metrics.IncNotifications(true)
}
