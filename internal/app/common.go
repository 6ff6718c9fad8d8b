package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dirsnap/internal/config"
	"github.com/blackwell-systems/dirsnap/internal/pathutil"
	"github.com/blackwell-systems/dirsnap/internal/version"
)

// addStoreFlags registers the flags shared by every command that opens a
// version store.
func addStoreFlags(cmd *cobra.Command, input, store *string) {
	cmd.Flags().StringVarP(input, "input", "i", "", "directory to track (required)")
	cmd.Flags().StringVarP(store, "output", "o", "", "version store location (default: ~/.dirsnap/<hash>)")
	cmd.MarkFlagRequired("input")
}

// loadConfig reads the user config, falling back to defaults with a
// warning when the file is malformed.
func loadConfig() *config.Config {
	dir, err := config.Dir()
	if err != nil {
		return config.Default()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
		return config.Default()
	}
	return cfg
}

// openStore opens the version store for the given input, deriving the
// default store location when none was specified.
func openStore(input, store, backendName string) (*version.Store, error) {
	if store == "" {
		abs, err := pathutil.Resolve(input)
		if err != nil {
			return nil, fmt.Errorf("resolve input path: %w", err)
		}
		store, err = config.DefaultStoreRoot(abs)
		if err != nil {
			return nil, fmt.Errorf("derive store location: %w", err)
		}
	}
	return version.Open(input, store, backendName)
}
