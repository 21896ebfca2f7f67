package services

import (
	"flight-deals/models"
	"flight-deals/utils"
)

// InsightService computes the run summary from per-destination results
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate fills the summary fields of report in place and returns it
func (s *InsightService) Generate(report *models.RunReport) *models.RunReport {
	report.Destinations = len(report.Results)
	if report.Destinations == 0 {
		s.logger.Warn("No destinations to generate insights from")
		return report
	}

	var totalPrice float64
	var bestSaving float64
	for i := range report.Results {
		r := &report.Results[i]

		// Counts
		if r.ResolvedIATA {
			report.ResolvedIATA++
		}
		if r.SkipReason != "" {
			report.Skipped++
		}
		if r.NotifyError != "" {
			report.NotifyFailures++
		}
		if r.Trip == nil {
			continue
		}

		// Price stats
		report.Priced++
		totalPrice += r.Trip.Price
		if r.Trip.Direct() {
			report.DirectCount++
		} else {
			report.WithStopsCount++
		}
		if report.Cheapest == nil || r.Trip.Price < report.Cheapest.Trip.Price {
			report.Cheapest = r
		}

		if !r.Deal {
			continue
		}
		report.Deals++
		saving := r.Destination.LowestPrice - r.Trip.Price
		if report.BiggestSaving == nil || saving > bestSaving {
			report.BiggestSaving = r
			bestSaving = saving
		}
	}

	if report.Priced > 0 {
		report.AveragePrice = totalPrice / float64(report.Priced)
	}
	return report
}
