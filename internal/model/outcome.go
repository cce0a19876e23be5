package model

import "time"

// Outcome is the terminal state of one contact.
type Outcome string

const (
	OutcomeSucceeded              Outcome = "succeeded"
	OutcomeSkippedFetchFailed     Outcome = "skipped_fetch_failed"
	OutcomeSkippedNoIdentifier    Outcome = "skipped_no_identifier"
	OutcomeSkippedNoCategoryField Outcome = "skipped_no_category_field"
	OutcomeFailedCategoryWrite    Outcome = "failed_category_write"
)

// Succeeded reports whether the outcome counts toward the success total.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSucceeded
}

// ContextStatus records what happened to the context write of a contact.
type ContextStatus string

const (
	ContextNotAttempted ContextStatus = "not_attempted"
	ContextWritten      ContextStatus = "written"
	ContextWriteFailed  ContextStatus = "write_failed"
	ContextUnconfigured ContextStatus = "skipped_unconfigured"
)

// ContactResult is the per-contact record of a run.
type ContactResult struct {
	ContactID       string        `json:"contact_id"`
	Identifier      string        `json:"identifier,omitempty"`
	Category        string        `json:"category,omitempty"`
	ContextStatus   ContextStatus `json:"context_status"`
	ContextFallback bool          `json:"context_fallback"`
	Outcome         Outcome       `json:"outcome"`
	ProcessedAt     time.Time     `json:"processed_at"`
}

// RunStatus represents the state of a categorization run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a single batch execution over a list.
type Run struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	TestMode  bool      `json:"test_mode"`
	Status    RunStatus `json:"status"`
	Total     int       `json:"total"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is what a batch run reports back to its caller.
type Summary struct {
	RunID     string          `json:"run_id,omitempty"`
	ListID    string          `json:"list_id"`
	TestMode  bool            `json:"test_mode"`
	Total     int             `json:"total"`
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Results   []ContactResult `json:"results"`
}
