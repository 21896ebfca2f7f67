package services

import (
	"strings"

	"flight-deals/models"
	"flight-deals/utils"
)

// DataCleaner normalizes destination rows read from a store
type DataCleaner struct {
	logger *utils.Logger
}

// NewDataCleaner creates a new DataCleaner
func NewDataCleaner(logger *utils.Logger) *DataCleaner {
	return &DataCleaner{logger: logger}
}

// Clean trims names, upper-cases codes and drops rows that cannot be searched.
// Store order is kept.
func (c *DataCleaner) Clean(raw []models.Destination) []models.Destination {
	cleaned := make([]models.Destination, 0, len(raw))
	for _, d := range raw {
		d.City = strings.TrimSpace(d.City)
		d.IATACode = strings.ToUpper(strings.TrimSpace(d.IATACode))

		// Skip if both city and code are empty
		if d.City == "" && d.IATACode == "" {
			c.logger.Debug("Skipping destination row %d with no city", d.ID)
			continue
		}
		if d.LowestPrice <= 0 {
			c.logger.Warn("Destination %s has no positive price threshold, it can never alert", d.City)
		}
		cleaned = append(cleaned, d)
	}

	if len(cleaned) != len(raw) {
		c.logger.Info("Kept %d of %d destination rows", len(cleaned), len(raw))
	}
	return cleaned
}
