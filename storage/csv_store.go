package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"flight-deals/models"
	"flight-deals/utils"
)

var destinationHeader = []string{"id", "city", "iataCode", "lowestPrice"}

// CSVStore keeps destinations and subscribers in local CSV files.
// The destinations file is rewritten in full on every update.
type CSVStore struct {
	mu               sync.Mutex
	destinationsPath string
	subscribersPath  string
	logger           *utils.Logger
}

// NewCSVStore creates a new CSVStore
func NewCSVStore(destinationsPath, subscribersPath string, logger *utils.Logger) *CSVStore {
	return &CSVStore{
		destinationsPath: destinationsPath,
		subscribersPath:  subscribersPath,
		logger:           logger,
	}
}

// ListDestinations reads every destination row
func (s *CSVStore) ListDestinations(_ context.Context) ([]models.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readDestinations()
}

// UpdateIATACode rewrites the destinations file with the new code
func (s *CSVStore) UpdateIATACode(_ context.Context, id int, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readDestinations()
	if err != nil {
		return err
	}

	found := false
	for i := range rows {
		if rows[i].ID == id {
			rows[i].IATACode = code
			found = true
		}
	}
	if !found {
		return fmt.Errorf("failed to update destination %d: no such row", id)
	}
	return s.writeDestinations(rows)
}

// ListSubscribers returns the first column of the subscribers file, skipping the header
func (s *CSVStore) ListSubscribers(_ context.Context) ([]string, error) {
	records, err := readCSV(s.subscribersPath)
	if err != nil {
		return nil, err
	}

	var emails []string
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		email := strings.TrimSpace(rec[0])
		if email == "" || (i == 0 && strings.EqualFold(email, "email")) {
			continue
		}
		emails = append(emails, email)
	}
	return emails, nil
}

// Close is a no-op; files are opened per call
func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) readDestinations() ([]models.Destination, error) {
	records, err := readCSV(s.destinationsPath)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range destinationHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", s.destinationsPath, name)
		}
	}

	rows := make([]models.Destination, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		if len(rec) < len(records[0]) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", s.destinationsPath, line, len(records[0]), len(rec))
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[col["id"]]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid id: %w", s.destinationsPath, line, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[col["lowestPrice"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid lowestPrice: %w", s.destinationsPath, line, err)
		}
		rows = append(rows, models.Destination{
			ID:          id,
			City:        strings.TrimSpace(rec[col["city"]]),
			IATACode:    strings.TrimSpace(rec[col["iataCode"]]),
			LowestPrice: price,
		})
	}
	return rows, nil
}

func (s *CSVStore) writeDestinations(rows []models.Destination) error {
	// Ensure output directory exists
	dir := filepath.Dir(s.destinationsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := s.destinationsPath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(destinationHeader); err != nil {
		file.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, d := range rows {
		record := []string{
			strconv.Itoa(d.ID),
			d.City,
			d.IATACode,
			strconv.FormatFloat(d.LowestPrice, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			file.Close()
			return fmt.Errorf("failed to write CSV row for '%s': %w", d.City, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}

	if err := os.Rename(tmp, s.destinationsPath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.destinationsPath, err)
	}
	s.logger.Debug("Destinations written to: %s (%d rows)", s.destinationsPath, len(rows))
	return nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}
