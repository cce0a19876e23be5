// Package report exports run ledger data as spreadsheets.
package report

import (
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/contact-categorizer/internal/model"
)

// Sheet names in an exported workbook.
const (
	SummarySheet  = "Summary"
	OutcomesSheet = "Outcomes"
)

var outcomeHeader = []string{
	"Contact ID", "Company", "Category", "Outcome", "Context", "Fallback Context", "Processed At",
}

// BuildWorkbook lays out a run and its outcomes as a two-sheet workbook.
func BuildWorkbook(run *model.Run, outcomes []model.ContactResult) (*xlsx.File, error) {
	if run == nil {
		return nil, eris.New("report: run is required")
	}
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add summary sheet")
	}
	addPair(summary, "Run ID", run.ID)
	addPair(summary, "List ID", run.ListID)
	addPair(summary, "Status", string(run.Status))
	addPair(summary, "Test Mode", yesNo(run.TestMode))
	addCount(summary, "Total", run.Total)
	addCount(summary, "Attempted", run.Attempted)
	addCount(summary, "Succeeded", run.Succeeded)
	addPair(summary, "Started", formatTime(run.CreatedAt))
	addPair(summary, "Updated", formatTime(run.UpdatedAt))

	sheet, err := f.AddSheet(OutcomesSheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add outcomes sheet")
	}
	header := sheet.AddRow()
	for _, h := range outcomeHeader {
		header.AddCell().SetString(h)
	}
	for _, o := range outcomes {
		row := sheet.AddRow()
		for _, v := range []string{
			o.ContactID,
			o.Identifier,
			o.Category,
			string(o.Outcome),
			string(o.ContextStatus),
			yesNo(o.ContextFallback),
			formatTime(o.ProcessedAt),
		} {
			row.AddCell().SetString(v)
		}
	}
	return f, nil
}

// WriteXLSX writes the workbook for a run to w.
func WriteXLSX(w io.Writer, run *model.Run, outcomes []model.ContactResult) error {
	f, err := BuildWorkbook(run, outcomes)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "report: write workbook")
}

func addPair(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

func addCount(sheet *xlsx.Sheet, label string, n int) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetInt(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
