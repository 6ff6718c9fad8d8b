// Package retention decides which snapshots survive each snapshot cycle.
package retention

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/meta"
)

// ErrInvalidSpec marks a retention value matching neither accepted grammar.
var ErrInvalidSpec = errors.New("invalid retention spec")

var timeframeRe = regexp.MustCompile(`^(\d+)\s*([smhdSMHD])$`)

var unitSeconds = map[string]int64{"s": 1, "m": 60, "h": 3600, "d": 86400}

// Spec is a parsed retention policy: keep the last Count snapshots, or keep
// everything younger than MaxAge. Exactly one field is set.
type Spec struct {
	Count  int
	MaxAge time.Duration
}

// Parse accepts either a positive integer N (keep the N most recent
// snapshots) or a timeframe like "30m", "1h", "1d".
func Parse(value string) (Spec, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		if n <= 0 {
			return Spec{}, fmt.Errorf("%w: %q (count must be positive)", ErrInvalidSpec, value)
		}
		return Spec{Count: n}, nil
	}
	m := timeframeRe.FindStringSubmatch(value)
	if m == nil {
		return Spec{}, fmt.Errorf("%w: %q (use an integer N or a timeframe like 30m, 1h, 1d)", ErrInvalidSpec, value)
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || amount <= 0 {
		return Spec{}, fmt.Errorf("%w: %q (amount must be positive)", ErrInvalidSpec, value)
	}
	secs := unitSeconds[strings.ToLower(m[2])]
	return Spec{MaxAge: time.Duration(amount*secs) * time.Second}, nil
}

func (s Spec) String() string {
	if s.Count > 0 {
		return fmt.Sprintf("last %d snapshots", s.Count)
	}
	return fmt.Sprintf("snapshots newer than %s", s.MaxAge)
}

// Keep returns the set of snapshot ids retained under s at the given time.
// snaps must be in ascending timestamp order. Pure and idempotent: applying
// Keep to an already pruned collection keeps everything.
func (s Spec) Keep(snaps []meta.Snapshot, now time.Time) map[int]bool {
	keep := make(map[int]bool, len(snaps))
	if s.Count > 0 {
		start := 0
		if len(snaps) > s.Count {
			start = len(snaps) - s.Count
		}
		for _, snap := range snaps[start:] {
			keep[snap.ID] = true
		}
		return keep
	}
	cutoff := meta.TimestampOf(now) - s.MaxAge.Seconds()
	for _, snap := range snaps {
		if snap.Timestamp >= cutoff {
			keep[snap.ID] = true
		}
	}
	return keep
}
