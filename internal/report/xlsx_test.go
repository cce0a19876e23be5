package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/contact-categorizer/internal/model"
)

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}

func TestWriteXLSX(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	run := &model.Run{
		ID:        "run-1",
		ListID:    "42",
		TestMode:  false,
		Status:    model.RunStatusComplete,
		Total:     2,
		Attempted: 2,
		Succeeded: 1,
		CreatedAt: at,
		UpdatedAt: at.Add(time.Minute),
	}
	outcomes := []model.ContactResult{
		{ContactID: "101", Identifier: "Acme", Category: "SaaS", ContextStatus: model.ContextWritten, Outcome: model.OutcomeSucceeded, ProcessedAt: at},
		{ContactID: "102", ContextStatus: model.ContextNotAttempted, Outcome: model.OutcomeSkippedNoIdentifier, ProcessedAt: at},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, run, outcomes))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	summary, ok := f.Sheet[SummarySheet]
	require.True(t, ok)
	assert.Equal(t, []string{"Run ID", "run-1"}, rowStrings(summary.Rows[0]))
	assert.Equal(t, []string{"Status", "complete"}, rowStrings(summary.Rows[2]))
	assert.Equal(t, []string{"Test Mode", "no"}, rowStrings(summary.Rows[3]))
	assert.Equal(t, []string{"Succeeded", "1"}, rowStrings(summary.Rows[6]))
	assert.Equal(t, []string{"Started", "2026-03-01T12:30:00Z"}, rowStrings(summary.Rows[7]))

	sheet, ok := f.Sheet[OutcomesSheet]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, outcomeHeader, rowStrings(sheet.Rows[0]))
	assert.Equal(t, []string{"101", "Acme", "SaaS", "succeeded", "written", "no", "2026-03-01T12:30:00Z"}, rowStrings(sheet.Rows[1]))
	assert.Equal(t, "skipped_no_identifier", rowStrings(sheet.Rows[2])[3])
}

func TestBuildWorkbook_NoOutcomes(t *testing.T) {
	f, err := BuildWorkbook(&model.Run{ID: "run-1", Status: model.RunStatusRunning}, nil)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Len(t, f.Sheet[OutcomesSheet].Rows, 1)
}

func TestBuildWorkbook_NilRun(t *testing.T) {
	_, err := BuildWorkbook(nil, nil)
	require.Error(t, err)
}
