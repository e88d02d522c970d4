// Package store persists the district dataset and classification run
// snapshots. Two backends exist: SQLite for single-operator use and
// Postgres for shared deployments. The classification and aggregation
// core never touches a store directly; commands wire the two together.
package store

import (
	"context"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// DistrictFilter narrows ListDistricts.
type DistrictFilter struct {
	State string `json:"state,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Store defines the persistence interface.
type Store interface {
	// Districts
	ReplaceDistricts(ctx context.Context, records []model.DistrictRecord) error
	ListDistricts(ctx context.Context, filter DistrictFilter) ([]model.DistrictRecord, error)

	// Classification runs
	SaveClassificationRun(ctx context.Context, run model.ClassificationRun) error
	ListClassificationRuns(ctx context.Context, limit int) ([]model.ClassificationRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
