package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-categorizer/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a small connection pool. Runs are
// sequential, so a handful of connections is plenty.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MinConns = 1
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
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	list_id    TEXT NOT NULL,
	test_mode  BOOLEAN NOT NULL DEFAULT true,
	status     TEXT NOT NULL DEFAULT 'running',
	total      INTEGER NOT NULL DEFAULT 0,
	attempted  INTEGER NOT NULL DEFAULT 0,
	succeeded  INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contact_outcomes (
	id               BIGSERIAL PRIMARY KEY,
	run_id           TEXT NOT NULL REFERENCES runs(id),
	contact_id       TEXT NOT NULL,
	identifier       TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	context_status   TEXT NOT NULL,
	context_fallback BOOLEAN NOT NULL DEFAULT false,
	outcome          TEXT NOT NULL,
	processed_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_list_id ON runs(list_id);
CREATE INDEX IF NOT EXISTS idx_contact_outcomes_run_id ON contact_outcomes(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, listID string, testMode bool) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, list_id, test_mode, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, listID, testMode, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
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

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary model.Summary) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, total = $2, attempted = $3, succeeded = $4, updated_at = $5 WHERE id = $6`,
		string(status), summary.Total, summary.Attempted, summary.Succeeded, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT id, list_id, test_mode, status, total, attempted, succeeded, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.ListID, &r.TestMode, &status, &r.Total, &r.Attempted, &r.Succeeded, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: get run: run not found: %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	r.Status = model.RunStatus(status)
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, list_id, test_mode, status, total, attempted, succeeded, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	if filter.ListID != "" {
		args = append(args, filter.ListID)
		query += ` AND list_id = ` + placeholder(len(args))
	}
	args = append(args, listLimit(filter.Limit))
	query += ` ORDER BY created_at DESC LIMIT ` + placeholder(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var status string
		if err := rows.Scan(&r.ID, &r.ListID, &r.TestMode, &status, &r.Total, &r.Attempted, &r.Succeeded, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		r.Status = model.RunStatus(status)
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) RecordOutcome(ctx context.Context, runID string, result model.ContactResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO contact_outcomes (run_id, contact_id, identifier, category, context_status, context_fallback, outcome, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		runID, result.ContactID, result.Identifier, result.Category,
		string(result.ContextStatus), result.ContextFallback, string(result.Outcome), result.ProcessedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: record outcome %s", result.ContactID)
}

func (s *PostgresStore) ListOutcomes(ctx context.Context, runID string) ([]model.ContactResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT contact_id, identifier, category, context_status, context_fallback, outcome, processed_at
		 FROM contact_outcomes WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list outcomes")
	}
	defer rows.Close()

	var out []model.ContactResult
	for rows.Next() {
		var r model.ContactResult
		var contextStatus, outcome string
		if err := rows.Scan(&r.ContactID, &r.Identifier, &r.Category, &contextStatus, &r.ContextFallback, &outcome, &r.ProcessedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan outcome")
		}
		r.ContextStatus = model.ContextStatus(contextStatus)
		r.Outcome = model.Outcome(outcome)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list outcomes iterate")
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
