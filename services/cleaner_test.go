package services

import (
	"io"
	"testing"

	"github.com/go-playground/assert/v2"

	"flight-deals/models"
	"flight-deals/utils"
)

func TestDataCleanerClean(t *testing.T) {
	raw := []models.Destination{
		{ID: 1, City: "  Paris ", IATACode: " par", LowestPrice: 54},
		{ID: 2, City: " ", IATACode: "", LowestPrice: 10},
		{ID: 3, City: "Tokyo", IATACode: "", LowestPrice: 0},
	}

	got := NewDataCleaner(utils.NewLoggerTo(io.Discard)).Clean(raw)

	assert.Equal(t, []models.Destination{
		{ID: 1, City: "Paris", IATACode: "PAR", LowestPrice: 54},
		{ID: 3, City: "Tokyo", IATACode: "", LowestPrice: 0},
	}, got)
	assert.Equal(t, " par", raw[0].IATACode)
}
