package services

import (
	"strings"

	"flight-deals/models"
)

// FindCheapestFlight picks the lowest grand-total offer, or false when there is no usable one.
// Any numeric total counts, zero included; ties keep the first offer seen.
func FindCheapestFlight(result *models.FlightSearchResult) (models.TripSummary, bool) {
	if result == nil || len(result.Offers) == 0 {
		return models.TripSummary{}, false
	}

	var cheapest *models.FlightOffer
	for i := range result.Offers {
		offer := &result.Offers[i]
		if !usable(offer) {
			continue
		}
		if cheapest == nil || *offer.Price.GrandTotal < *cheapest.Price.GrandTotal {
			cheapest = offer
		}
	}
	if cheapest == nil {
		return models.TripSummary{}, false
	}

	return summarize(cheapest), true
}

// usable offers have a grand total and at least one outbound segment
func usable(offer *models.FlightOffer) bool {
	return offer.Price.GrandTotal != nil && len(offer.Itineraries) > 0 && len(offer.Itineraries[0].Segments) > 0
}

func summarize(offer *models.FlightOffer) models.TripSummary {
	outbound := offer.Itineraries[0].Segments
	stops := len(outbound) - 1

	trip := models.TripSummary{
		Price:              float64(*offer.Price.GrandTotal),
		Currency:           offer.Price.Currency,
		OriginAirport:      outbound[0].Departure.IATACode,
		DestinationAirport: outbound[stops].Arrival.IATACode,
		DepartDate:         datePart(outbound[0].Departure.At),
		Stops:              stops,
	}
	if len(offer.Itineraries) > 1 && len(offer.Itineraries[1].Segments) > 0 {
		trip.ReturnDate = datePart(offer.Itineraries[1].Segments[0].Departure.At)
	}
	return trip
}

// datePart truncates an ISO-8601 timestamp to its date
func datePart(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}
