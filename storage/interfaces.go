package storage

import (
	"context"

	"flight-deals/models"
)

// DestinationStore holds the watched destinations and their price thresholds
type DestinationStore interface {
	ListDestinations(ctx context.Context) ([]models.Destination, error)
	UpdateIATACode(ctx context.Context, id int, code string) error
}

// SubscriberStore holds the email addresses that receive deal alerts
type SubscriberStore interface {
	ListSubscribers(ctx context.Context) ([]string, error)
}

// Store is a backend that serves both destinations and subscribers
type Store interface {
	DestinationStore
	SubscriberStore
	Close() error
}
