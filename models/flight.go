package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FlightSearchResult is the decoded body of a flight-offers search.
// A nil *FlightSearchResult means no search result at all.
type FlightSearchResult struct {
	Offers []FlightOffer `json:"data"`
}

// FlightOffer is one priced itinerary combination
type FlightOffer struct {
	ID          string      `json:"id"`
	Price       OfferPrice  `json:"price"`
	Itineraries []Itinerary `json:"itineraries"`
}

// OfferPrice is nil-totalled when the offer carried no grandTotal (absent or null)
type OfferPrice struct {
	Currency   string  `json:"currency"`
	GrandTotal *Amount `json:"grandTotal"`
}

// Itinerary is one direction of travel. Index 0 of an offer is outbound,
// index 1 (when present) is the return leg.
type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Segment is a single flown leg: one takeoff, one landing
type Segment struct {
	Departure   FlightEndpoint `json:"departure"`
	Arrival     FlightEndpoint `json:"arrival"`
	CarrierCode string         `json:"carrierCode"`
	Number      string         `json:"number"`
}

type FlightEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"` // local ISO-8601 timestamp, e.g. 2024-05-01T10:00:00
}

// Amount decodes a price given either as a JSON string ("150.00") or a number
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", string(data), err)
	}
	*a = Amount(v)
	return nil
}

// SearchWindow is the departure range searched in one run
type SearchWindow struct {
	From time.Time
	To   time.Time
}

// NewSearchWindow returns tomorrow .. now+horizonDays
func NewSearchWindow(now time.Time, horizonDays int) SearchWindow {
	return SearchWindow{
		From: now.AddDate(0, 0, 1),
		To:   now.AddDate(0, 0, horizonDays),
	}
}

// SearchQuery is everything the flight search client needs for one call
type SearchQuery struct {
	Origin      string
	Destination string
	Window      SearchWindow
	NonStop     bool
	Adults      int
	Currency    string
	MaxOffers   int
}
