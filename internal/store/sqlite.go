package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS districts (
	state    TEXT NOT NULL,
	district TEXT NOT NULL,
	dei      REAL NOT NULL,
	ahs      REAL NOT NULL,
	ubs      REAL NOT NULL,
	srs      REAL NOT NULL,
	PRIMARY KEY (state, district)
);

CREATE TABLE IF NOT EXISTS classification_runs (
	id              TEXT PRIMARY KEY,
	state_filter    TEXT NOT NULL DEFAULT '',
	total_districts INTEGER NOT NULL,
	mean_dei        REAL NOT NULL,
	risk_mix        TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_districts_state ON districts(state);
CREATE INDEX IF NOT EXISTS idx_classification_runs_created_at ON classification_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceDistricts swaps the stored dataset for the given records in one
// transaction, so readers never observe a half-loaded file.
func (s *SQLiteStore) ReplaceDistricts(ctx context.Context, records []model.DistrictRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace districts")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM districts`); err != nil {
		return eris.Wrap(err, "sqlite: clear districts")
	}
	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO districts (state, district, dei, ahs, ubs, srs) VALUES (?, ?, ?, ?, ?, ?)`,
			r.State, r.District, r.DEI, r.AHS, r.UBS, r.SRS,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert district %s/%s", r.State, r.District)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace districts")
}

func (s *SQLiteStore) ListDistricts(ctx context.Context, filter DistrictFilter) ([]model.DistrictRecord, error) {
	query := `SELECT state, district, dei, ahs, ubs, srs FROM districts`
	var args []any
	if filter.State != "" {
		query += ` WHERE state = ?`
		args = append(args, filter.State)
	}
	query += ` ORDER BY state, district`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query districts")
	}
	defer rows.Close() //nolint:errcheck

	var records []model.DistrictRecord
	for rows.Next() {
		var r model.DistrictRecord
		if err := rows.Scan(&r.State, &r.District, &r.DEI, &r.AHS, &r.UBS, &r.SRS); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan district")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate districts")
}

func (s *SQLiteStore) SaveClassificationRun(ctx context.Context, run model.ClassificationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	mix, err := json.Marshal(run.RiskMix)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal risk mix")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO classification_runs (id, state_filter, total_districts, mean_dei, risk_mix, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StateFilter, run.TotalDistricts, run.MeanDEI, string(mix), run.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert classification run")
}

func (s *SQLiteStore) ListClassificationRuns(ctx context.Context, limit int) ([]model.ClassificationRun, error) {
	query := `SELECT id, state_filter, total_districts, mean_dei, risk_mix, created_at
	          FROM classification_runs ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query classification runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.ClassificationRun
	for rows.Next() {
		var run model.ClassificationRun
		var mix string
		if err := rows.Scan(&run.ID, &run.StateFilter, &run.TotalDistricts, &run.MeanDEI, &mix, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan classification run")
		}
		if err := json.Unmarshal([]byte(mix), &run.RiskMix); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal risk mix for run %s", run.ID)
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate classification runs")
}
