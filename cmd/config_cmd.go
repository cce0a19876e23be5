package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/contact-categorizer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func writeConfig(out io.Writer, c *config.Config) error {
	redacted := c.Redacted()
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&redacted); err != nil {
		return eris.Wrap(err, "encode config")
	}
	return enc.Close()
}
