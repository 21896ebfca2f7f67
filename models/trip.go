package models

import "time"

// DateLayout is how dates are written on the wire and in messages
const DateLayout = "2006-01-02"

// TripSummary is the cheapest offer found for one route, reduced to what an alert needs
type TripSummary struct {
	Price              float64
	Currency           string
	OriginAirport      string
	DestinationAirport string
	DepartDate         string
	ReturnDate         string // empty for one-way offers
	Stops              int
}

// Direct reports whether the outbound leg has no stops
func (t TripSummary) Direct() bool {
	return t.Stops == 0
}

// RoundTrip reports whether the trip has a return leg
func (t TripSummary) RoundTrip() bool {
	return t.ReturnDate != ""
}

// DestinationResult records what one run did for one destination
type DestinationResult struct {
	Destination  Destination
	ResolvedIATA bool
	Trip         *TripSummary // nil when no offer was found
	Deal         bool
	Notified     bool
	SkipReason   string
	NotifyError  string
}

// RunReport holds the outcome and computed summary of one run
type RunReport struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Origin      string
	Currency    string // configured currency, used when an offer has none
	Window      SearchWindow
	Subscribers int
	Results     []DestinationResult

	// Filled in by the insight service
	Destinations   int
	Priced         int
	Skipped        int
	Deals          int
	NotifyFailures int
	ResolvedIATA   int
	DirectCount    int
	WithStopsCount int
	AveragePrice   float64
	Cheapest       *DestinationResult
	BiggestSaving  *DestinationResult
}
