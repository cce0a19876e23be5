package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:   "contact <contact-id>",
	Short: "Categorize a single contact and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, cfg, cfg.ValidateContact)
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.Pipeline.ProcessContact(ctx, args[0])

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "encode result")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)
}
