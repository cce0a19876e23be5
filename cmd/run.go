package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/internal/model"
)

var (
	runFull   bool
	runListID string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Categorize every contact in the configured CRM list",
	Long:  "Fetches list members, then searches, classifies and writes back each contact in order. Test mode (the default) stops after the first contact; pass --full to process the whole list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if runListID != "" {
			cfg.CRM.ListID = runListID
		}

		env, err := initPipeline(ctx, cfg, cfg.Validate)
		if err != nil {
			return err
		}
		defer env.Close()

		testMode := cfg.Run.TestMode && !runFull
		zap.L().Info("starting run",
			zap.String("list_id", cfg.CRM.ListID),
			zap.Bool("test_mode", testMode),
			zap.Strings("categories", env.Pipeline.Categories()),
		)

		summary := env.Pipeline.Run(ctx, cfg.CRM.ListID, testMode)
		formatSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runFull, "full", false, "process the whole list instead of only the first contact")
	runCmd.Flags().StringVar(&runListID, "list", "", "CRM list ID (overrides crm.list_id)")
	rootCmd.AddCommand(runCmd)
}

// formatSummary writes a one-line-per-contact report followed by totals.
func formatSummary(out io.Writer, s model.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTACT\tIDENTIFIER\tCATEGORY\tCONTEXT\tOUTCOME")
	for _, r := range s.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ContactID,
			dash(r.Identifier),
			dash(r.Category),
			r.ContextStatus,
			r.Outcome,
		)
	}
	_ = w.Flush()

	mode := "full"
	if s.TestMode {
		mode = "test"
	}
	fmt.Fprintf(out, "\nrun %s (%s mode): list %s, %d members, %d attempted, %d succeeded\n",
		dash(truncateID(s.RunID)), mode, s.ListID, s.Total, s.Attempted, s.Succeeded)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
