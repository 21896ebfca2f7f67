package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func setRequired(t *testing.T) {
	t.Setenv("AMADEUS_API_KEY", "key")
	t.Setenv("AMADEUS_SECRET", "secret")
	t.Setenv("SHEETY_PRICES_ENDPOINT", "https://api.sheety.co/x/flightDeals/prices")
	t.Setenv("SHEETY_USERS_ENDPOINT", "https://api.sheety.co/x/flightDeals/users")
	t.Setenv("SMTP_ADDRESS", "smtp.example.com")
	t.Setenv("EMAIL", "alerts@example.com")
	t.Setenv("PASSWORD", "pw")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	assert.Equal(t, "LON", cfg.OriginCityIATA)
	assert.Equal(t, 180, cfg.SearchHorizonDays)
	assert.Equal(t, "GBP", cfg.Currency)
	assert.Equal(t, 2000, cfg.RateLimitDelay)
	assert.Equal(t, BackendSheety, cfg.StoreBackend)
	assert.Equal(t, "https://test.api.amadeus.com", cfg.Amadeus.BaseURL)
	assert.Equal(t, 10, cfg.Amadeus.MaxOffers)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "alerts@example.com", cfg.SMTP.From)
	assert.Equal(t, "whatIsYourEmail?", cfg.Sheety.EmailColumn)
	assert.Equal(t, false, cfg.Sheety.UsersAuth)
	assert.Equal(t, nil, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ORIGIN_CITY_IATA", "man")
	t.Setenv("SEARCH_HORIZON_DAYS", "90")
	t.Setenv("RATE_LIMIT_DELAY_MS", "not-a-number")
	t.Setenv("STORE_BACKEND", "CSV")
	t.Setenv("NOTIFY_DRY_RUN", "true")
	t.Setenv("AMADEUS_BASE_URL", "https://api.amadeus.com/")
	t.Setenv("SHEETY_USERS_AUTH", "true")

	cfg := Load()

	assert.Equal(t, "MAN", cfg.OriginCityIATA)
	assert.Equal(t, 90, cfg.SearchHorizonDays)
	assert.Equal(t, 2000, cfg.RateLimitDelay)
	assert.Equal(t, BackendCSV, cfg.StoreBackend)
	assert.Equal(t, true, cfg.NotifyDryRun)
	assert.Equal(t, "https://api.amadeus.com", cfg.Amadeus.BaseURL)
	assert.Equal(t, true, cfg.Sheety.UsersAuth)
}

func TestValidateReportsEveryMissingSetting(t *testing.T) {
	cfg := &Config{
		OriginCityIATA:    "LON",
		SearchHorizonDays: 180,
		StoreBackend:      BackendPostgres,
	}

	err := cfg.Validate()

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, errors.Is(err, ErrMissingSetting))
	for _, name := range []string{"AMADEUS_API_KEY", "AMADEUS_SECRET", "DATABASE_URL", "SMTP_ADDRESS", "EMAIL", "PASSWORD"} {
		assert.Equal(t, true, strings.Contains(err.Error(), name))
	}
}

func TestValidateDryRunSkipsSMTP(t *testing.T) {
	cfg := &Config{
		OriginCityIATA:    "LON",
		SearchHorizonDays: 180,
		StoreBackend:      BackendCSV,
		DestinationsCSV:   "d.csv",
		SubscribersCSV:    "s.csv",
		NotifyDryRun:      true,
		Amadeus:           AmadeusConfig{APIKey: "k", APISecret: "s"},
	}

	assert.Equal(t, nil, cfg.Validate())
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := &Config{
		OriginCityIATA:    "LON",
		SearchHorizonDays: 180,
		StoreBackend:      "excel",
		NotifyDryRun:      true,
		Amadeus:           AmadeusConfig{APIKey: "k", APISecret: "s"},
	}

	err := cfg.Validate()

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, strings.Contains(err.Error(), `unknown STORE_BACKEND "excel"`))
}
