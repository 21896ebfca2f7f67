package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"flight-deals/config"
	"flight-deals/models"
	"flight-deals/utils"
)

// SheetyStore reads and writes the Google Sheet through the Sheety API
type SheetyStore struct {
	cfg        config.SheetyConfig
	httpClient *http.Client
	logger     *utils.Logger
}

// NewSheetyStore creates a new SheetyStore
func NewSheetyStore(cfg config.SheetyConfig, logger *utils.Logger) *SheetyStore {
	return &SheetyStore{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ListDestinations returns every row of the prices sheet
func (s *SheetyStore) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	var rows []models.Destination
	if err := s.getSheet(ctx, s.cfg.PricesURL, s.cfg.PricesKey, true, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch destinations: %w", err)
	}
	s.logger.Info("Fetched %d destinations from sheet", len(rows))
	return rows, nil
}

// UpdateIATACode writes the resolved code back to one row
func (s *SheetyStore) UpdateIATACode(ctx context.Context, id int, code string) error {
	payload := map[string]map[string]string{
		s.cfg.PriceRowKey: {"iataCode": code},
	}
	rowURL := strings.TrimRight(s.cfg.PricesURL, "/") + "/" + strconv.Itoa(id)
	if err := s.do(ctx, http.MethodPut, rowURL, true, payload, nil); err != nil {
		return fmt.Errorf("failed to update row %d: %w", id, err)
	}
	s.logger.Debug("Row %d updated with IATA code %s", id, code)
	return nil
}

// ListSubscribers returns the email column of the users sheet.
// The users sheet is read without credentials unless UsersAuth is set.
func (s *SheetyStore) ListSubscribers(ctx context.Context) ([]string, error) {
	var rows []map[string]interface{}
	if err := s.getSheet(ctx, s.cfg.UsersURL, s.cfg.UsersKey, s.cfg.UsersAuth, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch subscribers: %w", err)
	}

	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		email, _ := row[s.cfg.EmailColumn].(string)
		if email = strings.TrimSpace(email); email == "" {
			s.logger.Debug("Skipping user row without %q", s.cfg.EmailColumn)
			continue
		}
		emails = append(emails, email)
	}
	return emails, nil
}

// Close is a no-op; the store holds no connection
func (s *SheetyStore) Close() error {
	return nil
}

// getSheet fetches url and decodes the array stored under key
func (s *SheetyStore) getSheet(ctx context.Context, url, key string, auth bool, out interface{}) error {
	var body map[string]json.RawMessage
	if err := s.do(ctx, http.MethodGet, url, auth, nil, &body); err != nil {
		return err
	}
	raw, ok := body[key]
	if !ok {
		return fmt.Errorf("response has no %q sheet", key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %q rows: %w", key, err)
	}
	return nil
}

func (s *SheetyStore) do(ctx context.Context, method, url string, auth bool, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && s.cfg.Username != "" {
		req.SetBasicAuth(s.cfg.Username, s.cfg.Password)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheety %s: %s: %s", method, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
