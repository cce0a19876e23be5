package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var membersListID string

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the contact IDs in a CRM list without processing them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if membersListID != "" {
			cfg.CRM.ListID = membersListID
		}
		if err := cfg.ValidateMembers(); err != nil {
			return err
		}

		members, _, err := initCRM(cfg)
		if err != nil {
			return err
		}

		ids := members.FetchAllMemberIDs(ctx, cfg.CRM.ListID)
		printMembers(cmd.OutOrStdout(), ids)
		return nil
	},
}

func init() {
	membersCmd.Flags().StringVar(&membersListID, "list", "", "CRM list ID (overrides crm.list_id)")
	rootCmd.AddCommand(membersCmd)
}

func printMembers(out io.Writer, ids []string) {
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	fmt.Fprintf(out, "%d members\n", len(ids))
}
