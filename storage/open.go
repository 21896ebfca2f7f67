package storage

import (
	"context"
	"fmt"

	"flight-deals/config"
	"flight-deals/utils"
)

// Open returns the store backend selected by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config, logger *utils.Logger) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSheety:
		return NewSheetyStore(cfg.Sheety, logger), nil
	case config.BackendPostgres:
		pg, err := NewPostgresStore(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.BackendCSV:
		return NewCSVStore(cfg.DestinationsCSV, cfg.SubscribersCSV, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
