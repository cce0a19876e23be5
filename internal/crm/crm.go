// Package crm adapts CRM clients to the two operations the pipeline needs:
// enumerating list members and reading/writing single contact fields.
// Remote failures are logged and downgraded here; nothing returns an error.
package crm

import "context"

// DefaultMaxPages bounds list pagination when no limit is configured.
const DefaultMaxPages = 20

// MemberSource enumerates the contact IDs of a list.
type MemberSource interface {
	// FetchAllMemberIDs returns member IDs in first-seen order. On any
	// failure it returns whatever was accumulated; an empty slice is valid.
	FetchAllMemberIDs(ctx context.Context, listID string) []string
}

// Repository reads and writes single contact records.
type Repository interface {
	// Get returns the requested fields of a contact. ok is false if the
	// contact could not be fetched.
	Get(ctx context.Context, contactID string, fields []string) (props map[string]string, ok bool)
	// Update writes one field and reports success. Other fields are untouched.
	Update(ctx context.Context, contactID, field, value string) bool
}
