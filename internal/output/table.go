// Package output provides terminal output utilities for dirsnap.
//
// This package includes:
//   - Table rendering for snapshots and journal history
//   - Human-readable ages and timestamps
//
// All table rendering uses ASCII characters and ANSI color codes for
// terminal output.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/dirsnap/internal/journal"
	"github.com/blackwell-systems/dirsnap/internal/meta"
)

// ANSI color codes for table highlights
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// RenderSnapshotTable renders the snapshots of a store, newest first.
// The Index column matches the index accepted by the recover command,
// so index 0 is always the most recent snapshot.
func RenderSnapshotTable(snapshots []meta.Snapshot) string {
	if len(snapshots) == 0 {
		return "No snapshots found.\n"
	}

	// Display newest first.
	sorted := make([]meta.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-6s %-5s %-20s %-15s %s\n",
		"Index", "ID", "Created", "Age", "Locator"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	// Rows
	for i, snap := range sorted {
		created := snap.Time().Format("2006-01-02 15:04:05")
		age := humanize.Time(snap.Time())

		row := fmt.Sprintf("%-6d %-5d %-20s %-15s %s\n",
			i, snap.ID, created, age, truncate(snap.Locator, 32))

		// Highlight the most recent snapshot.
		if i == 0 && IsColorEnabled() {
			sb.WriteString(colorCyan + strings.TrimSuffix(row, "\n") + colorReset + "\n")
		} else {
			sb.WriteString(row)
		}
	}

	return sb.String()
}

// RenderHistoryTable renders journal events, newest first.
func RenderHistoryTable(events []*journal.Event) string {
	if len(events) == 0 {
		return "No history recorded.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-20s %-10s %-5s %s\n",
		"When", "Event", "ID", "Detail"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	// Rows
	for _, e := range events {
		when := "unknown"
		if !e.OccurredAt.IsZero() {
			when = humanize.Time(e.OccurredAt)
		}
		sb.WriteString(fmt.Sprintf("%-20s %-10s %-5d %s\n",
			when, e.Kind, e.SnapshotID, truncate(e.Detail, 36)))
	}

	return sb.String()
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
