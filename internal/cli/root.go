package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hedge",
		Short: "Hedge plans, checks, and safely executes multi-step git workflows",
		Long: `Hedge plans, checks, and safely executes multi-step git workflows.

Every command builds a plan of primitive git steps, runs it through a
safety gate, and executes it with automatic rollback on failure. Use
--dry-run on any command to see the exact steps without running them.`,
		SilenceUsage: true,
	}

	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	// Add subcommands
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newSquashCmd())
	rootCmd.AddCommand(newSnipCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "hedge %s (commit %s, built %s)\n", version, commit, date)
			return err
		},
	}
}
