package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"flight-deals/config"
	"flight-deals/models"
	"flight-deals/utils"
)

const (
	tokenPath        = "/v1/security/oauth2/token"
	citySearchPath   = "/v1/reference-data/locations/cities"
	flightOffersPath = "/v2/shopping/flight-offers"
)

// ErrCityNotFound is returned when the city search has no match
var ErrCityNotFound = errors.New("city not found")

// APIError is a non-2xx response from the Amadeus API
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amadeus %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client talks to the Amadeus self-service API
type Client struct {
	cfg         config.AmadeusConfig
	httpClient  *http.Client
	logger      *utils.Logger
	rateLimiter *utils.RateLimiter
}

// NewClient creates a client that fetches and refreshes its OAuth2 token on demand.
// ctx scopes the token source's HTTP calls.
func NewClient(ctx context.Context, cfg config.AmadeusConfig, rateLimitDelayMs int, logger *utils.Logger) *Client {
	creds := &clientcredentials.Config{
		ClientID:     cfg.APIKey,
		ClientSecret: cfg.APISecret,
		TokenURL:     cfg.BaseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: 30 * time.Second})
	httpClient := creds.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		cfg:         cfg,
		httpClient:  httpClient,
		logger:      logger,
		rateLimiter: utils.NewRateLimiter(rateLimitDelayMs),
	}
}

// ResolveCityCode returns the IATA city code for a city name
func (c *Client) ResolveCityCode(ctx context.Context, city string) (string, error) {
	params := url.Values{}
	params.Set("keyword", strings.ToUpper(strings.TrimSpace(city)))
	params.Set("max", "2")
	params.Set("include", "AIRPORTS")

	var body struct {
		Data []struct {
			Name     string `json:"name"`
			IATACode string `json:"iataCode"`
		} `json:"data"`
	}
	if err := c.get(ctx, "city search", citySearchPath, params, &body); err != nil {
		return "", err
	}

	for _, loc := range body.Data {
		if loc.IATACode != "" {
			c.logger.Debug("Resolved %s -> %s (%s)", city, loc.IATACode, loc.Name)
			return loc.IATACode, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrCityNotFound, city)
}

// SearchFlights runs one flight-offers search. It departs on the window start and
// returns on the window end, matching how the destination sheet is priced.
func (c *Client) SearchFlights(ctx context.Context, q models.SearchQuery) (*models.FlightSearchResult, error) {
	adults := q.Adults
	if adults < 1 {
		adults = 1
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Window.From.Format(models.DateLayout))
	params.Set("returnDate", q.Window.To.Format(models.DateLayout))
	params.Set("adults", strconv.Itoa(adults))
	params.Set("nonStop", strconv.FormatBool(q.NonStop))
	if q.Currency != "" {
		params.Set("currencyCode", q.Currency)
	}
	if q.MaxOffers > 0 {
		params.Set("max", strconv.Itoa(q.MaxOffers))
	}

	var result models.FlightSearchResult
	if err := c.get(ctx, "flight offers", flightOffersPath, params, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("%s -> %s (nonStop=%t): %d offers", q.Origin, q.Destination, q.NonStop, len(result.Offers))
	return &result, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("amadeus %s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("amadeus %s: failed to decode response: %w", op, err)
	}
	return nil
}
