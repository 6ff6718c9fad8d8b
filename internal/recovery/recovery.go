// Package recovery resolves a user-supplied recovery point into exactly one
// snapshot.
package recovery

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/meta"
)

// ErrNoSnapshots is returned when the store holds no snapshots at all.
var ErrNoSnapshots = errors.New("no snapshots available to recover from")

// ErrInvalidPoint marks a recovery point matching none of the accepted
// grammars.
var ErrInvalidPoint = errors.New("invalid recovery point")

// IndexError reports an index-form recovery point outside the valid range.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("revision index %d out of range (0..%d)", e.Index, e.Count-1)
}

// BeforeTimeError reports a time-form recovery point older than every
// snapshot.
type BeforeTimeError struct {
	Target time.Time
}

func (e *BeforeTimeError) Error() string {
	return fmt.Sprintf("no snapshot found at or before %s", meta.ISOTime(e.Target))
}

var (
	timeframeRe = regexp.MustCompile(`^(\d+)\s*([smhdSMHD])$`)
	timestampRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

var unitSeconds = map[string]float64{"s": 1, "m": 60, "h": 3600, "d": 86400}

// isoLayouts are the datetime forms accepted for absolute recovery points,
// interpreted in local time. A single space may stand in for the T
// separator.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Resolve maps value to one snapshot of snaps, which must be in ascending
// timestamp order. Interpretations are tried in order; the first that
// parses wins:
//
//  1. signed integer index: 0 = most recent, 1 = one before, -1 = earliest
//  2. relative duration before now: "30m", "1h", "2d"
//  3. unix timestamp: all digits, optional fraction
//  4. ISO-8601-like datetime
//
// For the time forms the answer is the latest snapshot whose timestamp does
// not exceed the target.
func Resolve(value string, snaps []meta.Snapshot, now time.Time) (meta.Snapshot, error) {
	if len(snaps) == 0 {
		return meta.Snapshot{}, ErrNoSnapshots
	}
	value = strings.TrimSpace(value)

	if idx, err := strconv.Atoi(value); err == nil {
		return byIndex(idx, snaps)
	}

	var target float64
	switch {
	case timeframeRe.MatchString(value):
		m := timeframeRe.FindStringSubmatch(value)
		amount, _ := strconv.ParseFloat(m[1], 64)
		target = meta.TimestampOf(now) - amount*unitSeconds[strings.ToLower(m[2])]
	case timestampRe.MatchString(value):
		ts, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return meta.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidPoint, value)
		}
		target = ts
	default:
		t, err := parseISO(value)
		if err != nil {
			return meta.Snapshot{}, fmt.Errorf(
				"%w: %q (use an index, a unix timestamp, an ISO datetime, or a duration like 1h)",
				ErrInvalidPoint, value)
		}
		target = meta.TimestampOf(t)
	}
	return byTime(target, snaps)
}

// byIndex maps 0 to the most recent snapshot and -1 to the earliest.
func byIndex(idx int, snaps []meta.Snapshot) (meta.Snapshot, error) {
	n := len(snaps)
	var pos int
	if idx >= 0 {
		pos = n - 1 - idx
	} else {
		pos = -(idx + 1)
	}
	if pos < 0 || pos >= n {
		return meta.Snapshot{}, &IndexError{Index: idx, Count: n}
	}
	return snaps[pos], nil
}

// byTime scans in ascending order and keeps the latest snapshot whose
// timestamp is <= target.
func byTime(target float64, snaps []meta.Snapshot) (meta.Snapshot, error) {
	found := -1
	for i, s := range snaps {
		if s.Timestamp > target {
			break
		}
		found = i
	}
	if found < 0 {
		return meta.Snapshot{}, &BeforeTimeError{Target: meta.TimeOf(target)}
	}
	return snaps[found], nil
}

func parseISO(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if strings.Contains(s, " ") && !strings.Contains(s, "T") {
		s = strings.Replace(s, " ", "T", 1)
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}
