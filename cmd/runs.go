package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-categorizer/internal/model"
	"github.com/sells-group/contact-categorizer/internal/report"
	"github.com/sells-group/contact-categorizer/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect categorization run history",
	Long:  "Commands for listing, viewing, and exporting categorization runs recorded in the run ledger.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categorization runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := requireStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		listID, _ := cmd.Flags().GetString("list")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			ListID: listID,
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

// -- runs show --

// runDetail is the JSON shape printed by runs show.
type runDetail struct {
	Run      *model.Run            `json:"run"`
	Outcomes []model.ContactResult `json:"outcomes"`
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its per-contact outcomes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := requireStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, outcomes, err := loadRun(ctx, st, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runDetail{Run: run, Outcomes: outcomes})
	},
}

// -- runs export --

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run and its outcomes to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := requireStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, outcomes, err := loadRun(ctx, st, args[0])
		if err != nil {
			return eris.Wrap(err, "runs export")
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = "run-" + truncateID(run.ID) + ".xlsx"
		}

		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "runs export: create file")
		}
		defer f.Close() //nolint:errcheck

		if err := report.WriteXLSX(f, run, outcomes); err != nil {
			return eris.Wrap(err, "runs export")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d outcomes to %s\n", len(outcomes), path)
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().String("list", "", "filter by CRM list ID")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsExportCmd.Flags().String("out", "", "output path (default run-<id>.xlsx)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}

type runReader interface {
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListOutcomes(ctx context.Context, runID string) ([]model.ContactResult, error)
}

func loadRun(ctx context.Context, st runReader, runID string) (*model.Run, []model.ContactResult, error) {
	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	outcomes, err := st.ListOutcomes(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	return run, outcomes, nil
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLIST\tMODE\tSTATUS\tTOTAL\tATTEMPTED\tSUCCEEDED\tCREATED\tDURATION")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t------\t-----\t---------\t---------\t-------\t--------")

	for _, r := range runs {
		dur := r.UpdatedAt.Sub(r.CreatedAt).Round(time.Second).String()

		mode := "full"
		if r.TestMode {
			mode = "test"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			truncateID(r.ID),
			r.ListID,
			mode,
			r.Status,
			r.Total,
			r.Attempted,
			r.Succeeded,
			r.CreatedAt.Format("2006-01-02 15:04"),
			dur,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
