package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"flight-deals/config"
	"flight-deals/metrics"
	"flight-deals/notifier"
	"flight-deals/search/amadeus"
	"flight-deals/services"
	"flight-deals/storage"
	"flight-deals/utils"
)

func main() {
	// ================== Bootstrap ====================
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger = logger.WithRunID(runID)

	logger.Info("Flight Deals Tracker")
	logger.Info("Origin: %s | Horizon: %d days | Currency: %s", cfg.OriginCityIATA, cfg.SearchHorizonDays, cfg.Currency)
	logger.Info("Store: %s | Rate delay: %dms | Dry run: %t", cfg.StoreBackend, cfg.RateLimitDelay, cfg.NotifyDryRun)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =================== Storage ========================================
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Cannot open %s store: %v", cfg.StoreBackend, err)
		os.Exit(1)
	}
	defer store.Close()

	// =============== Collaborators ===================================
	searcher := amadeus.NewClient(ctx, cfg.Amadeus, cfg.RateLimitDelay, logger)

	var sender notifier.Notifier
	if cfg.NotifyDryRun {
		sender = notifier.NewLogNotifier(logger)
	} else {
		email, err := notifier.NewEmailNotifier(cfg.SMTP, logger)
		if err != nil {
			logger.Error("Cannot set up email notifier: %v", err)
			os.Exit(1)
		}
		sender = email
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())

	// =========== Run ======================
	tracker := services.NewDealTracker(services.TrackerConfig{
		Origin:      cfg.OriginCityIATA,
		HorizonDays: cfg.SearchHorizonDays,
		Currency:    cfg.Currency,
		Adults:      cfg.Amadeus.Adults,
		MaxOffers:   cfg.Amadeus.MaxOffers,
	}, services.Dependencies{
		Destinations: store,
		Subscribers:  store,
		Searcher:     searcher,
		Notifier:     sender,
		Metrics:      m,
		Logger:       logger,
	})

	report, runErr := tracker.Run(ctx, runID)
	if runErr != nil {
		logger.Error("Run failed: %v", runErr)
	}

	// ==== Insights ============================
	services.NewInsightService(logger).Generate(report)
	services.PrintRunReport(os.Stdout, report)

	if err := m.Push(ctx, cfg.PushgatewayURL, runID); err != nil {
		logger.Warn("Metrics not pushed: %v", err)
	}

	if runErr != nil {
		store.Close()
		os.Exit(1)
	}
	fmt.Printf(" Done! %d deal(s) found for %d subscriber(s)\n", report.Deals, report.Subscribers)
}
