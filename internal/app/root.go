package app

import (
	"github.com/spf13/cobra"
)

// RootCmd is the root command for dirsnap
var RootCmd = &cobra.Command{
	Use:   "dirsnap",
	Short: "Versioned directory snapshots with automatic change tracking",
	Long: `dirsnap watches a directory and records a snapshot after every burst of
changes, building a browsable version history you can roll back to at any
point.

Each tracked directory gets its own version store (default: ~/.dirsnap/...)
holding the snapshots, their metadata, and an event journal.

Backends:
  • fullcopy  full directory copies (default, simplest to inspect)
  • archive   tar.gz archives (compact)
  • git       commits in a bare repository (deduplicated)

Examples:
  # Track a directory, snapshotting 2s after each burst of changes
  dirsnap track -i ~/notes

  # Keep only the 5 most recent snapshots
  dirsnap track -i ~/notes -k 5

  # Keep one day of history using the archive backend
  dirsnap track -i ~/notes -k 1d --backend archive

  # List recorded snapshots
  dirsnap list -i ~/notes

  # Roll back to the snapshot before the latest one
  dirsnap recover -i ~/notes -r 1

  # Roll back to the state one hour ago
  dirsnap recover -i ~/notes -r 1h

  # Show recent store activity
  dirsnap history -i ~/notes`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	// Register subcommands
	RootCmd.AddCommand(trackCmd)
	RootCmd.AddCommand(recoverCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(historyCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
