// Package store persists the run ledger: one row per parse invocation, so
// reruns over the same archives can be audited and compared.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Acehaidrey/acelife/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Platform model.Platform
	Status   model.RunStatus
	Limit    int
}

// Ledger defines the persistence interface for run history.
type Ledger interface {
	CreateRun(ctx context.Context, platform model.Platform, input, output string) (*model.Run, error)
	FinishRun(ctx context.Context, runID string, status model.RunStatus, counts model.RunCounts) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// SQLiteLedger implements Ledger using modernc.org/sqlite.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteLedger, error) {
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
	return &SQLiteLedger{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	platform     TEXT NOT NULL,
	input        TEXT NOT NULL,
	output       TEXT,
	status       TEXT NOT NULL DEFAULT 'running',
	messages     INTEGER NOT NULL DEFAULT 0,
	transactions INTEGER NOT NULL DEFAULT 0,
	errors       INTEGER NOT NULL DEFAULT 0,
	customers    INTEGER NOT NULL DEFAULT 0,
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_platform ON runs(platform);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

func (s *SQLiteLedger) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}

func (s *SQLiteLedger) CreateRun(ctx context.Context, platform model.Platform, input, output string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, platform, input, output, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(platform), input, output, string(model.RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Platform:  platform,
		Input:     input,
		Output:    output,
		Status:    model.RunStatusRunning,
		StartedAt: now,
	}, nil
}

func (s *SQLiteLedger) FinishRun(ctx context.Context, runID string, status model.RunStatus, counts model.RunCounts) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, messages = ?, transactions = ?, errors = ?, customers = ?, finished_at = ? WHERE id = ?`,
		string(status), counts.Messages, counts.Transactions, counts.Errors, counts.Customers, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteLedger) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, platform, input, output, status, messages, transactions, errors, customers, started_at, finished_at
		 FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row.Scan)
}

func (s *SQLiteLedger) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, platform, input, output, status, messages, transactions, errors, customers, started_at, finished_at
	          FROM runs WHERE 1=1`
	var args []any

	if filter.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, string(filter.Platform))
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY started_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func scanRun(scan func(dest ...any) error) (*model.Run, error) {
	var r model.Run
	var output sql.NullString
	var finished sql.NullTime
	err := scan(&r.ID, &r.Platform, &r.Input, &output, &r.Status,
		&r.Counts.Messages, &r.Counts.Transactions, &r.Counts.Errors, &r.Counts.Customers,
		&r.StartedAt, &finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.Output = output.String
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	return &r, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run not found: %s", runID)
	}
	return nil
}
