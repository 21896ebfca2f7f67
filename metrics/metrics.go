package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const jobName = "flight_deals"

type Metrics struct {
	SearchesTotal      *prometheus.CounterVec
	SearchLatency      *prometheus.HistogramVec
	NoOffersTotal      *prometheus.CounterVec
	IATAResolvedTotal  prometheus.Counter
	DealsTotal         prometheus.Counter
	NotificationsTotal *prometheus.CounterVec
	CheapestPrice      *prometheus.GaugeVec
	LastRunTimestamp   prometheus.Gauge
	Registry           *prometheus.Registry
}

// Create Prometheus collectors and register them
func NewMetrics(r *prometheus.Registry) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdeals_searches_total",
			Help: "Flight searches issued, by kind (direct or with_stops)",
		}, []string{"kind"}),
		SearchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flightdeals_search_duration_seconds",
			Help:    "Latency of flight search calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		NoOffersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdeals_no_offers_total",
			Help: "Searches that returned no usable offer",
		}, []string{"kind"}),
		IATAResolvedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightdeals_iata_resolved_total",
			Help: "City IATA codes looked up and written back",
		}),
		DealsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightdeals_deals_total",
			Help: "Destinations priced below their threshold",
		}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdeals_notifications_total",
			Help: "Deal notifications by outcome",
		}, []string{"status"}),
		CheapestPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "flightdeals_cheapest_price",
			Help: "Cheapest price found in the last run",
		}, []string{"destination"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flightdeals_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		Registry: r,
	}

	r.MustRegister(
		m.SearchesTotal,
		m.SearchLatency,
		m.NoOffersTotal,
		m.IATAResolvedTotal,
		m.DealsTotal,
		m.NotificationsTotal,
		m.CheapestPrice,
		m.LastRunTimestamp,
	)

	return m
}

func (m *Metrics) ObserveSearch(kind string, d time.Duration) {
	m.SearchesTotal.WithLabelValues(kind).Inc()
	m.SearchLatency.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) IncNoOffers(kind string) { m.NoOffersTotal.WithLabelValues(kind).Inc() }

func (m *Metrics) IncIATAResolved() { m.IATAResolvedTotal.Inc() }
func (m *Metrics) IncDeals()        { m.DealsTotal.Inc() }

func (m *Metrics) IncNotifications(ok bool) {
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.NotificationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) SetCheapestPrice(destination string, price float64) {
	m.CheapestPrice.WithLabelValues(destination).Set(price)
}

func (m *Metrics) MarkRunFinished(t time.Time) {
	m.LastRunTimestamp.Set(float64(t.Unix()))
}

// Push sends the registry to a Prometheus Pushgateway, grouped by run ID.
// It is a no-op when url is empty.
func (m *Metrics) Push(ctx context.Context, url, runID string) error {
	if url == "" {
		return nil
	}
	err := push.New(url, jobName).
		Gatherer(m.Registry).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
