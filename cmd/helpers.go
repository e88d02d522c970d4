package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/aadhaar-nexus/nexus-cli/internal/equityfile"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
	"github.com/aadhaar-nexus/nexus-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "nexus.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadDataset reads the district CSV named by --data or config.
func loadDataset(path string) ([]model.DistrictRecord, error) {
	if path == "" {
		path = cfg.Data.Path
	}
	records, err := equityfile.Load(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("dataset %s has no districts", path)
	}
	return records, nil
}
