package storage

import (
	"context"
	"io"
	"testing"

	"github.com/go-playground/assert/v2"

	"flight-deals/config"
	"flight-deals/utils"
)

func TestOpenSelectsBackend(t *testing.T) {
	logger := utils.NewLoggerTo(io.Discard)
	ctx := context.Background()

	store, err := Open(ctx, &config.Config{StoreBackend: config.BackendSheety}, logger)
	assert.Equal(t, nil, err)
	_, ok := store.(*SheetyStore)
	assert.Equal(t, true, ok)

	store, err = Open(ctx, &config.Config{StoreBackend: config.BackendCSV, DestinationsCSV: "d.csv", SubscribersCSV: "s.csv"}, logger)
	assert.Equal(t, nil, err)
	_, ok = store.(*CSVStore)
	assert.Equal(t, true, ok)

	_, err = Open(ctx, &config.Config{StoreBackend: "excel"}, logger)
	assert.NotEqual(t, nil, err)
}
