package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// Pool abstracts pgxpool.Pool for testability (pgxmock satisfies it).
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS districts (
	state    TEXT NOT NULL,
	district TEXT NOT NULL,
	dei      DOUBLE PRECISION NOT NULL,
	ahs      DOUBLE PRECISION NOT NULL,
	ubs      DOUBLE PRECISION NOT NULL,
	srs      DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (state, district)
);

CREATE TABLE IF NOT EXISTS classification_runs (
	id              TEXT PRIMARY KEY,
	state_filter    TEXT NOT NULL DEFAULT '',
	total_districts INTEGER NOT NULL,
	mean_dei        DOUBLE PRECISION NOT NULL,
	risk_mix        JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_districts_state ON districts(state);
CREATE INDEX IF NOT EXISTS idx_classification_runs_created_at ON classification_runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// ReplaceDistricts swaps the stored dataset for the given records in one
// transaction.
func (s *PostgresStore) ReplaceDistricts(ctx context.Context, records []model.DistrictRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace districts")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM districts`); err != nil {
		return eris.Wrap(err, "postgres: clear districts")
	}
	for _, r := range records {
		_, err := tx.Exec(ctx,
			`INSERT INTO districts (state, district, dei, ahs, ubs, srs) VALUES ($1, $2, $3, $4, $5, $6)`,
			r.State, r.District, r.DEI, r.AHS, r.UBS, r.SRS,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert district %s/%s", r.State, r.District)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace districts")
}

func (s *PostgresStore) ListDistricts(ctx context.Context, filter DistrictFilter) ([]model.DistrictRecord, error) {
	query := `SELECT state, district, dei, ahs, ubs, srs FROM districts`
	var args []any
	if filter.State != "" {
		query += ` WHERE state = $1`
		args = append(args, filter.State)
	}
	query += ` ORDER BY state, district`
	if filter.Limit > 0 {
		if filter.State != "" {
			query += ` LIMIT $2`
		} else {
			query += ` LIMIT $1`
		}
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query districts")
	}
	defer rows.Close()

	var records []model.DistrictRecord
	for rows.Next() {
		var r model.DistrictRecord
		if err := rows.Scan(&r.State, &r.District, &r.DEI, &r.AHS, &r.UBS, &r.SRS); err != nil {
			return nil, eris.Wrap(err, "postgres: scan district")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate districts")
}

func (s *PostgresStore) SaveClassificationRun(ctx context.Context, run model.ClassificationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	mix, err := json.Marshal(run.RiskMix)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal risk mix")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO classification_runs (id, state_filter, total_districts, mean_dei, risk_mix, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.StateFilter, run.TotalDistricts, run.MeanDEI, mix, run.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert classification run")
}

func (s *PostgresStore) ListClassificationRuns(ctx context.Context, limit int) ([]model.ClassificationRun, error) {
	query := `SELECT id, state_filter, total_districts, mean_dei, risk_mix, created_at
	          FROM classification_runs ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query classification runs")
	}
	defer rows.Close()

	var runs []model.ClassificationRun
	for rows.Next() {
		var run model.ClassificationRun
		var mix []byte
		if err := rows.Scan(&run.ID, &run.StateFilter, &run.TotalDistricts, &run.MeanDEI, &mix, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan classification run")
		}
		if err := json.Unmarshal(mix, &run.RiskMix); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal risk mix for run %s", run.ID)
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate classification runs")
}
