package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dirsnap/internal/retention"
	"github.com/blackwell-systems/dirsnap/internal/version"
)

var (
	trackInput    string
	trackStore    string
	trackKeep     string
	trackBackend  string
	trackPoll     float64
	trackDebounce float64

	trackCmd = &cobra.Command{
		Use:   "track",
		Short: "Watch a directory and snapshot it after each burst of changes",
		Long: `Watch a directory tree and record a snapshot after every burst of changes.

A snapshot is taken once the tree has been quiet for the debounce window
(default 2s), so rapid sequences of writes collapse into a single version.
An empty store gets a baseline snapshot immediately.

Retention accepts either a count or a timeframe:
  -k 5     keep the 5 most recent snapshots
  -k 30m   keep 30 minutes of history
  -k 1d    keep one day of history

Without -k, every snapshot is kept.`,
		Example: `  # Track with defaults (fullcopy backend, keep everything)
  dirsnap track -i ~/notes

  # Keep the last 10 snapshots, checking twice a second
  dirsnap track -i ~/notes -k 10 -p 0.5

  # Compact archives, one hour of history
  dirsnap track -i ~/notes -k 1h --backend archive`,
		RunE: runTrack,
	}
)

func init() {
	addStoreFlags(trackCmd, &trackInput, &trackStore)
	trackCmd.Flags().StringVarP(&trackKeep, "keep", "k", "", "retention: a count or a timeframe like 30m, 1h, 1d")
	trackCmd.Flags().StringVar(&trackBackend, "backend", "", "snapshot backend: fullcopy, archive, or git")
	trackCmd.Flags().Float64VarP(&trackPoll, "poll-interval", "p", 0, "seconds between change checks")
	trackCmd.Flags().Float64Var(&trackDebounce, "debounce-window", 0, "quiet seconds required before a snapshot")
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	keep := trackKeep
	if keep == "" {
		keep = cfg.Keep
	}
	var spec *retention.Spec
	if keep != "" {
		parsed, err := retention.Parse(keep)
		if err != nil {
			return err
		}
		spec = &parsed
	}

	backendName := trackBackend
	if backendName == "" {
		backendName = cfg.Backend
	}

	poll := cfg.PollDuration()
	if trackPoll > 0 {
		poll = time.Duration(trackPoll * float64(time.Second))
	}
	window := cfg.WindowDuration()
	if trackDebounce > 0 {
		window = time.Duration(trackDebounce * float64(time.Second))
	}

	store, err := openStore(trackInput, trackStore, backendName)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = store.Track(ctx, version.TrackOptions{
		Retention:    spec,
		PollInterval: poll,
		Window:       window,
	})
	if err != nil {
		return err
	}

	fmt.Println("Stopping tracking...")
	return nil
}
