package services

import (
	"fmt"

	"flight-deals/models"
)

// DealSubject is the subject line of every alert email
const DealSubject = "New Low Price Flight!"

// ComposeDealMessage renders the alert body for a trip. fallbackCurrency is
// used when the offer did not carry its own currency.
func ComposeDealMessage(trip models.TripSummary, fallbackCurrency string) string {
	currency := trip.Currency
	if currency == "" {
		currency = fallbackCurrency
	}

	if trip.Direct() {
		msg := fmt.Sprintf("Low price alert! Only %s %.2f to fly direct from %s to %s, on %s",
			currency, trip.Price, trip.OriginAirport, trip.DestinationAirport, trip.DepartDate)
		if trip.RoundTrip() {
			msg += " until " + trip.ReturnDate
		}
		return msg + "."
	}

	msg := fmt.Sprintf("Low price alert! Only %s %.2f to fly from %s to %s, with %d stop(s) departing on %s",
		currency, trip.Price, trip.OriginAirport, trip.DestinationAirport, trip.Stops, trip.DepartDate)
	if trip.RoundTrip() {
		msg += " and returning on " + trip.ReturnDate
	}
	return msg + "."
}
