package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingSetting is wrapped by Validate for every required setting left empty
var ErrMissingSetting = errors.New("missing required setting")

// Store backends
const (
	BackendSheety   = "sheety"
	BackendPostgres = "postgres"
	BackendCSV      = "csv"
)

// Config holds all application-level configuration
type Config struct {
	// Search
	OriginCityIATA    string
	SearchHorizonDays int
	Currency          string
	RateLimitDelay    int // milliseconds between API calls

	// Storage
	StoreBackend    string
	DatabaseURL     string
	DestinationsCSV string
	SubscribersCSV  string
	Sheety          SheetyConfig

	Amadeus AmadeusConfig
	SMTP    SMTPConfig

	// Output
	NotifyDryRun   bool
	PushgatewayURL string
	Debug          bool
}

// SheetyConfig describes the spreadsheet API holding destinations and subscribers
type SheetyConfig struct {
	PricesURL   string
	UsersURL    string
	Username    string
	Password    string
	PricesKey   string // top-level key of the prices sheet, e.g. "prices"
	PriceRowKey string // singular row key used on PUT, e.g. "price"
	UsersKey    string
	EmailColumn string
	UsersAuth   bool // send basic auth to the users sheet too
}

// AmadeusConfig holds flight search API credentials
type AmadeusConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	MaxOffers int
	Adults    int
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads configuration from a .env file (if present), environment variables, or falls back to defaults
func Load() *Config {
	// A missing .env is fine; real deployments use the process environment.
	_ = godotenv.Load()

	email := getEnv("EMAIL", "")
	return &Config{
		OriginCityIATA:    strings.ToUpper(getEnv("ORIGIN_CITY_IATA", "LON")),
		SearchHorizonDays: getEnvInt("SEARCH_HORIZON_DAYS", 180),
		Currency:          strings.ToUpper(getEnv("CURRENCY", "GBP")),
		RateLimitDelay:    getEnvInt("RATE_LIMIT_DELAY_MS", 2000),

		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", BackendSheety)),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DestinationsCSV: getEnv("DESTINATIONS_CSV", "data/destinations.csv"),
		SubscribersCSV:  getEnv("SUBSCRIBERS_CSV", "data/subscribers.csv"),
		Sheety: SheetyConfig{
			PricesURL:   getEnv("SHEETY_PRICES_ENDPOINT", ""),
			UsersURL:    getEnv("SHEETY_USERS_ENDPOINT", ""),
			Username:    getEnv("SHEETY_USERNAME", ""),
			Password:    getEnv("SHEETY_PASSWORD", ""),
			PricesKey:   getEnv("SHEETY_PRICES_KEY", "prices"),
			PriceRowKey: getEnv("SHEETY_PRICE_ROW_KEY", "price"),
			UsersKey:    getEnv("SHEETY_USERS_KEY", "users"),
			EmailColumn: getEnv("SHEETY_EMAIL_COLUMN", "whatIsYourEmail?"),
			UsersAuth:   getEnvBool("SHEETY_USERS_AUTH", false),
		},

		Amadeus: AmadeusConfig{
			BaseURL:   strings.TrimRight(getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/"),
			APIKey:    getEnv("AMADEUS_API_KEY", ""),
			APISecret: getEnv("AMADEUS_SECRET", ""),
			MaxOffers: getEnvInt("AMADEUS_MAX_OFFERS", 10),
			Adults:    getEnvInt("AMADEUS_ADULTS", 1),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_ADDRESS", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: email,
			Password: getEnv("PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", email),
		},

		NotifyDryRun:   getEnvBool("NOTIFY_DRY_RUN", false),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		Debug:          getEnvBool("LOG_DEBUG", false),
	}
}

// Validate reports every required setting that is missing for the selected backends
func (c *Config) Validate() error {
	var errs []error
	require := func(name, val string) {
		if strings.TrimSpace(val) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSetting, name))
		}
	}

	require("ORIGIN_CITY_IATA", c.OriginCityIATA)
	require("AMADEUS_API_KEY", c.Amadeus.APIKey)
	require("AMADEUS_SECRET", c.Amadeus.APISecret)

	switch c.StoreBackend {
	case BackendSheety:
		require("SHEETY_PRICES_ENDPOINT", c.Sheety.PricesURL)
		require("SHEETY_USERS_ENDPOINT", c.Sheety.UsersURL)
	case BackendPostgres:
		require("DATABASE_URL", c.DatabaseURL)
	case BackendCSV:
		require("DESTINATIONS_CSV", c.DestinationsCSV)
		require("SUBSCRIBERS_CSV", c.SubscribersCSV)
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if !c.NotifyDryRun {
		require("SMTP_ADDRESS", c.SMTP.Host)
		require("EMAIL", c.SMTP.Username)
		require("PASSWORD", c.SMTP.Password)
	}

	if c.SearchHorizonDays < 1 {
		errs = append(errs, fmt.Errorf("SEARCH_HORIZON_DAYS must be positive, got %d", c.SearchHorizonDays))
	}
	if c.RateLimitDelay < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_DELAY_MS must not be negative, got %d", c.RateLimitDelay))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
