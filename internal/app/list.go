package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dirsnap/internal/output"
)

var (
	listInput string
	listStore string

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List recorded snapshots",
		Long: `List the snapshots recorded for a tracked directory, newest first.

The Index column is what the recover command accepts as -r: index 0 is
always the most recent snapshot.`,
		Example: `  dirsnap list -i ~/notes`,
		RunE:    runList,
	}
)

func init() {
	addStoreFlags(listCmd, &listInput, &listStore)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore(listInput, listStore, "")
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("Version store: %s (backend: %s)\n\n", store.Root, store.Backend())
	fmt.Print(output.RenderSnapshotTable(store.Snapshots()))
	return nil
}
