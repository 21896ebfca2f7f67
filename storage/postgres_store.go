package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"flight-deals/models"
	"flight-deals/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS destinations (
	id           SERIAL PRIMARY KEY,
	city         TEXT          NOT NULL,
	iata_code    VARCHAR(3)    NOT NULL DEFAULT '',
	lowest_price NUMERIC(10,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS subscribers (
	id         SERIAL PRIMARY KEY,
	email      TEXT      NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_destinations_iata ON destinations (iata_code);
`

// PostgresStore keeps destinations and subscribers in PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger *utils.Logger
}

// NewPostgresStore connects, pings the DB and makes sure the tables exist
func NewPostgresStore(ctx context.Context, connStr string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Minute * 5)

	s := &PostgresStore{db: db, logger: logger}
	if err := s.CreateTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Connected to PostgreSQL successfully")
	return s, nil
}

// NewPostgresStoreFromDB wraps an existing handle without touching the schema
func NewPostgresStoreFromDB(db *sqlx.DB, logger *utils.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// CreateTables creates the destinations and subscribers tables if they don't exist
func (s *PostgresStore) CreateTables(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	s.logger.Info("Tables 'destinations' and 'subscribers' are ready")
	return nil
}

// ListDestinations returns all destinations in id order
func (s *PostgresStore) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	var rows []models.Destination
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, city, iata_code, lowest_price
		FROM destinations
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	return rows, nil
}

// UpdateIATACode stores the resolved code for one destination
func (s *PostgresStore) UpdateIATACode(ctx context.Context, id int, code string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE destinations SET iata_code = $1 WHERE id = $2`, code, id)
	if err != nil {
		return fmt.Errorf("failed to update destination %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update destination %d: no such row", id)
	}
	return nil
}

// ListSubscribers returns subscriber emails in signup order
func (s *PostgresStore) ListSubscribers(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.SelectContext(ctx, &emails, `
		SELECT email
		FROM subscribers
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return emails, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
