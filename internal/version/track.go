package version

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/debounce"
	"github.com/blackwell-systems/dirsnap/internal/journal"
	"github.com/blackwell-systems/dirsnap/internal/retention"
	"github.com/blackwell-systems/dirsnap/internal/watcher"
)

// TrackOptions tune the tracking loop.
type TrackOptions struct {
	// Retention prunes after every snapshot; nil keeps everything.
	Retention *retention.Spec

	// PollInterval is how often the debouncer is checked.
	PollInterval time.Duration

	// Window is the quiet period required before a snapshot is taken.
	Window time.Duration
}

// Track watches the bound directory and snapshots it after each quiet
// period, until ctx is cancelled. An empty store gets a baseline snapshot
// before watching starts.
func (s *Store) Track(ctx context.Context, opts TrackOptions) error {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.Window <= 0 {
		opts.Window = debounce.Window
	}

	if len(s.Snapshots()) == 0 {
		snap, ok, err := s.capture(opts.Retention, journal.KindBaseline)
		if err != nil {
			return fmt.Errorf("create baseline snapshot: %w", err)
		}
		if ok {
			fmt.Printf("[init] Created baseline snapshot id=%d at %s\n", snap.ID, snap.ISO)
		}
	}

	deb := debounce.New(s.Source)
	w, err := watcher.New(s.Source, deb)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Printf("Tracking %s\n", s.Source)
	fmt.Printf("Version store: %s (backend: %s)\n", s.Root, s.Backend())
	if opts.Retention != nil {
		fmt.Printf("Retention: keep %s\n", opts.Retention)
	}

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if !deb.ShouldSnapshot(now, opts.Window) {
				continue
			}
			snap, ok, err := s.capture(opts.Retention, journal.KindSnapshot)
			if err != nil {
				return fmt.Errorf("create snapshot: %w", err)
			}
			if ok {
				fmt.Printf("[snapshot] id=%d at %s (total kept: %d)\n",
					snap.ID, snap.ISO, len(s.Snapshots()))
			}
		}
	}
}
