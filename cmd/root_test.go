//go:build !integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"run", "contact", "members", "runs", "config"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "contact-categorizer", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRunCommand_Flags(t *testing.T) {
	full := runCmd.Flags().Lookup("full")
	require.NotNil(t, full)
	assert.Equal(t, "false", full.DefValue)

	require.NotNil(t, runCmd.Flags().Lookup("list"))
	require.NotNil(t, membersCmd.Flags().Lookup("list"))
}

func TestContactCommand_RequiresID(t *testing.T) {
	assert.Error(t, contactCmd.Args(contactCmd, nil))
	assert.NoError(t, contactCmd.Args(contactCmd, []string{"101"}))
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "export"} {
		assert.True(t, names[name], "expected runs subcommand %q not found", name)
	}

	limit := runsListCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "50", limit.DefValue)
}
