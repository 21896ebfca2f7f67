package services

import (
	"fmt"
	"io"
	"strings"

	"flight-deals/models"
)

// PrintRunReport formats the run summary and per-destination table to w
func PrintRunReport(w io.Writer, report *models.RunReport) {
	border := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("FLIGHT DEALS RUN SUMMARY", 60))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Run ID                  : %s\n", report.RunID)
	fmt.Fprintf(w, "  Origin                  : %s\n", report.Origin)
	if !report.Window.From.IsZero() {
		fmt.Fprintf(w, "  Search Window           : %s to %s\n",
			report.Window.From.Format(models.DateLayout), report.Window.To.Format(models.DateLayout))
	}
	fmt.Fprintf(w, "  Destinations            : %d\n", report.Destinations)
	fmt.Fprintf(w, "  Priced                  : %d (%d direct, %d with stops)\n",
		report.Priced, report.DirectCount, report.WithStopsCount)
	fmt.Fprintf(w, "  Skipped                 : %d\n", report.Skipped)
	fmt.Fprintf(w, "  IATA Codes Resolved     : %d\n", report.ResolvedIATA)
	fmt.Fprintf(w, "  Subscribers             : %d\n", report.Subscribers)
	fmt.Fprintf(w, "  Deals Found             : %d\n", report.Deals)
	fmt.Fprintf(w, "  Notification Failures   : %d\n", report.NotifyFailures)
	if report.Priced > 0 {
		fmt.Fprintf(w, "  Average Cheapest Price  : %.2f\n", report.AveragePrice)
	}

	if report.Cheapest != nil {
		fmt.Fprintf(w, "\n CHEAPEST DESTINATION\n%s\n", thin)
		printTrip(w, report.Cheapest, report.Currency)
	}

	if report.BiggestSaving != nil {
		r := report.BiggestSaving
		fmt.Fprintf(w, "\n BIGGEST SAVING\n%s\n", thin)
		printTrip(w, r, report.Currency)
		fmt.Fprintf(w, "  Saving   : %.2f below %.2f\n", r.Destination.LowestPrice-r.Trip.Price, r.Destination.LowestPrice)
	}

	if len(report.Results) > 0 {
		fmt.Fprintf(w, "\n DESTINATIONS\n%s\n", thin)
		for _, r := range report.Results {
			fmt.Fprintf(w, "  %-20s %-4s %s\n", truncate(r.Destination.City, 20), r.Destination.IATACode, status(r))
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func printTrip(w io.Writer, r *models.DestinationResult, fallbackCurrency string) {
	currency := r.Trip.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	fmt.Fprintf(w, "  City     : %s (%s)\n", r.Destination.City, r.Destination.IATACode)
	fmt.Fprintf(w, "  Price    : %s %.2f\n", currency, r.Trip.Price)
	fmt.Fprintf(w, "  Route    : %s -> %s\n", r.Trip.OriginAirport, r.Trip.DestinationAirport)
	if r.Trip.RoundTrip() {
		fmt.Fprintf(w, "  Dates    : %s to %s\n", r.Trip.DepartDate, r.Trip.ReturnDate)
	} else {
		fmt.Fprintf(w, "  Dates    : %s (one way)\n", r.Trip.DepartDate)
	}
}

func status(r models.DestinationResult) string {
	switch {
	case r.SkipReason != "":
		return "skipped: " + r.SkipReason
	case r.Trip == nil:
		return "no flights"
	case r.Deal && r.NotifyError != "":
		return fmt.Sprintf("DEAL %.2f (notify failed)", r.Trip.Price)
	case r.Deal:
		return fmt.Sprintf("DEAL %.2f", r.Trip.Price)
	default:
		return fmt.Sprintf("%.2f (threshold %.2f)", r.Trip.Price, r.Destination.LowestPrice)
	}
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
