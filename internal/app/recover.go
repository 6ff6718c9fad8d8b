package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	recoverInput string
	recoverStore string
	recoverPoint string

	recoverCmd = &cobra.Command{
		Use:   "recover",
		Short: "Restore a directory to a recorded snapshot",
		Long: `Restore the tracked directory to the state captured by one snapshot.

The recovery point accepts several forms, tried in order:
  index          0 = most recent, 1 = one before, -1 = earliest
  timeframe      30m, 1h, 2d: the state as of that long ago
  unix time      1717000000 or 1717000000.5
  ISO datetime   2026-08-31T14:00:00, 2026-08-31 14:00, 2026-08-31

For the time forms, the latest snapshot at or before the target is used.
The restore synchronizes the live tree in place: files the snapshot lacks
are removed, everything else is overwritten from the snapshot.`,
		Example: `  # Roll back to the most recent snapshot
  dirsnap recover -i ~/notes -r 0

  # Roll back to the state one hour ago
  dirsnap recover -i ~/notes -r 1h

  # Roll back to a specific moment
  dirsnap recover -i ~/notes -r "2026-08-31 14:00"`,
		RunE: runRecover,
	}
)

func init() {
	addStoreFlags(recoverCmd, &recoverInput, &recoverStore)
	recoverCmd.Flags().StringVarP(&recoverPoint, "recover-point", "r", "", "snapshot to restore (required)")
	recoverCmd.MarkFlagRequired("recover-point")
}

func runRecover(cmd *cobra.Command, args []string) error {
	store, err := openStore(recoverInput, recoverStore, "")
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Recover(recoverPoint)
	if err != nil {
		return err
	}

	fmt.Printf("Restored '%s' to snapshot id=%d created at %s\n", store.Source, snap.ID, snap.ISO)
	fmt.Printf("Version store: %s\n", store.Root)
	return nil
}
