package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dirsnap/internal/output"
)

var (
	historyInput string
	historyStore string
	historyLimit int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recent version store activity",
		Long: `Show the event journal of a version store: baselines, snapshots, prunes,
and restores, newest first.`,
		Example: `  # Show the 20 most recent events
  dirsnap history -i ~/notes

  # Show more
  dirsnap history -i ~/notes -n 100`,
		RunE: runHistory,
	}
)

func init() {
	addStoreFlags(historyCmd, &historyInput, &historyStore)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of events to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit := historyLimit
	if limit <= 0 {
		limit = loadConfig().HistoryLimit
	}

	store, err := openStore(historyInput, historyStore, "")
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.History(limit)
	if err != nil {
		return err
	}
	fmt.Print(output.RenderHistoryTable(events))
	return nil
}
