package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/contact-categorizer/internal/model"
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
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	list_id    TEXT NOT NULL,
	test_mode  INTEGER NOT NULL DEFAULT 1,
	status     TEXT NOT NULL DEFAULT 'running',
	total      INTEGER NOT NULL DEFAULT 0,
	attempted  INTEGER NOT NULL DEFAULT 0,
	succeeded  INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS contact_outcomes (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id           TEXT NOT NULL REFERENCES runs(id),
	contact_id       TEXT NOT NULL,
	identifier       TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	context_status   TEXT NOT NULL,
	context_fallback INTEGER NOT NULL DEFAULT 0,
	outcome          TEXT NOT NULL,
	processed_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_list_id ON runs(list_id);
CREATE INDEX IF NOT EXISTS idx_contact_outcomes_run_id ON contact_outcomes(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, listID string, testMode bool) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, list_id, test_mode, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, listID, testMode, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		ListID:    listID,
		TestMode:  testMode,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary model.Summary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, total = ?, attempted = ?, succeeded = ?, updated_at = ? WHERE id = ?`,
		string(status), summary.Total, summary.Attempted, summary.Succeeded, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, list_id, test_mode, status, total, attempted, succeeded, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, list_id, test_mode, status, total, attempted, succeeded, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.ListID != "" {
		query += ` AND list_id = ?`
		args = append(args, filter.ListID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, listLimit(filter.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) RecordOutcome(ctx context.Context, runID string, result model.ContactResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_outcomes (run_id, contact_id, identifier, category, context_status, context_fallback, outcome, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.ContactID, result.Identifier, result.Category,
		string(result.ContextStatus), result.ContextFallback, string(result.Outcome), result.ProcessedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: record outcome %s", result.ContactID)
}

func (s *SQLiteStore) ListOutcomes(ctx context.Context, runID string) ([]model.ContactResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT contact_id, identifier, category, context_status, context_fallback, outcome, processed_at
		 FROM contact_outcomes WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list outcomes")
	}
	defer rows.Close()

	var out []model.ContactResult
	for rows.Next() {
		var r model.ContactResult
		if err := rows.Scan(&r.ContactID, &r.Identifier, &r.Category, &r.ContextStatus, &r.ContextFallback, &r.Outcome, &r.ProcessedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outcome")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list outcomes iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	err := row.Scan(&r.ID, &r.ListID, &r.TestMode, &r.Status, &r.Total, &r.Attempted, &r.Succeeded, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	return &r, nil
}
