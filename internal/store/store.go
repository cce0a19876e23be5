// Package store persists the run ledger: one row per batch run and one row
// per contact outcome. It never stores CRM contact data beyond the outcome.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-categorizer/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	ListID string          `json:"list_id,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 100

// Store defines the persistence interface for the run ledger.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, listID string, testMode bool) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary model.Summary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Outcomes
	RecordOutcome(ctx context.Context, runID string, result model.ContactResult) error
	ListOutcomes(ctx context.Context, runID string) ([]model.ContactResult, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the Store for a driver name. Driver "none" returns nil, nil:
// the ledger is disabled.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch strings.ToLower(driver) {
	case "none", "":
		return nil, nil
	case "sqlite":
		st, err := NewSQLite(databaseURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := NewPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
