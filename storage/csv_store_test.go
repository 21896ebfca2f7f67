package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"

	"flight-deals/models"
	"flight-deals/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	assert.Equal(t, nil, os.WriteFile(path, []byte(content), 0644))
}

func newCSVTestStore(t *testing.T) (*CSVStore, string) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "destinations.csv")
	subs := filepath.Join(dir, "subscribers.csv")
	writeFile(t, dest, "id,city,iataCode,lowestPrice\n2,Paris,PAR,54\n3,Frankfurt,,42.5\n4,\"Sao Paulo, Brazil\",,505\n")
	writeFile(t, subs, "email,firstName\nada@example.com,Ada\n,Nobody\ncy@example.com,Cy\n")
	return NewCSVStore(dest, subs, utils.NewLoggerTo(io.Discard)), dest
}

func TestCSVListDestinations(t *testing.T) {
	store, _ := newCSVTestStore(t)

	rows, err := store.ListDestinations(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, []models.Destination{
		{ID: 2, City: "Paris", IATACode: "PAR", LowestPrice: 54},
		{ID: 3, City: "Frankfurt", LowestPrice: 42.5},
		{ID: 4, City: "Sao Paulo, Brazil", LowestPrice: 505},
	}, rows)
}

func TestCSVUpdateIATACodePersists(t *testing.T) {
	store, path := newCSVTestStore(t)
	ctx := context.Background()

	assert.Equal(t, nil, store.UpdateIATACode(ctx, 3, "FRA"))

	reopened := NewCSVStore(path, "", utils.NewLoggerTo(io.Discard))
	rows, err := reopened.ListDestinations(ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, "FRA", rows[1].IATACode)
	assert.Equal(t, "PAR", rows[0].IATACode)
	assert.Equal(t, "Sao Paulo, Brazil", rows[2].City)
	assert.Equal(t, 42.5, rows[1].LowestPrice)

	_, err = os.Stat(path + ".tmp")
	assert.Equal(t, true, os.IsNotExist(err))
}

func TestCSVUpdateIATACodeUnknownRow(t *testing.T) {
	store, _ := newCSVTestStore(t)

	err := store.UpdateIATACode(context.Background(), 42, "XXX")

	assert.NotEqual(t, nil, err)
}

func TestCSVListDestinationsBadRows(t *testing.T) {
	dir := t.TempDir()
	missingCol := filepath.Join(dir, "a.csv")
	writeFile(t, missingCol, "id,city,lowestPrice\n1,Paris,54\n")
	badPrice := filepath.Join(dir, "b.csv")
	writeFile(t, badPrice, "id,city,iataCode,lowestPrice\n1,Paris,PAR,cheap\n")

	_, err := NewCSVStore(missingCol, "", utils.NewLoggerTo(io.Discard)).ListDestinations(context.Background())
	assert.NotEqual(t, nil, err)

	_, err = NewCSVStore(badPrice, "", utils.NewLoggerTo(io.Discard)).ListDestinations(context.Background())
	assert.NotEqual(t, nil, err)
}

func TestCSVListSubscribers(t *testing.T) {
	store, _ := newCSVTestStore(t)

	emails, err := store.ListSubscribers(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"ada@example.com", "cy@example.com"}, emails)
}
