package retention

import (
	"errors"
	"testing"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/meta"
)

func TestParse(t *testing.T) {
	tests := []struct {
		value   string
		count   int
		maxAge  time.Duration
		wantErr bool
	}{
		{value: "10", count: 10},
		{value: " 3 ", count: 3},
		{value: "30m", maxAge: 30 * time.Minute},
		{value: "1h", maxAge: time.Hour},
		{value: "2D", maxAge: 48 * time.Hour},
		{value: "45s", maxAge: 45 * time.Second},
		{value: "0", wantErr: true},
		{value: "-2", wantErr: true},
		{value: "1w", wantErr: true},
		{value: "abc", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		spec, err := Parse(tt.value)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("Parse(%q): expected ErrInvalidSpec, got %v", tt.value, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.value, err)
			continue
		}
		if spec.Count != tt.count || spec.MaxAge != tt.maxAge {
			t.Errorf("Parse(%q) = %+v, want count=%d maxAge=%v", tt.value, spec, tt.count, tt.maxAge)
		}
	}
}

func TestKeepCount(t *testing.T) {
	snaps := []meta.Snapshot{
		{ID: 1, Timestamp: 1000},
		{ID: 2, Timestamp: 1100},
		{ID: 3, Timestamp: 1200},
	}

	keep := Spec{Count: 2}.Keep(snaps, time.Now())
	if len(keep) != 2 || !keep[2] || !keep[3] {
		t.Errorf("Count(2) kept %v, want {2,3}", keep)
	}

	// Fewer snapshots than the count keeps everything.
	keep = Spec{Count: 10}.Keep(snaps, time.Now())
	if len(keep) != 3 {
		t.Errorf("Count(10) kept %d snapshots, want all 3", len(keep))
	}
}

func TestKeepDuration(t *testing.T) {
	now := time.Now()
	snaps := []meta.Snapshot{
		{ID: 1, Timestamp: meta.TimestampOf(now.Add(-2 * time.Hour))},
		{ID: 2, Timestamp: meta.TimestampOf(now.Add(-time.Minute))},
	}

	keep := Spec{MaxAge: time.Hour}.Keep(snaps, now)
	if len(keep) != 1 || !keep[2] {
		t.Errorf("Duration(1h) kept %v, want only {2}", keep)
	}
}

func TestKeepIdempotent(t *testing.T) {
	snaps := []meta.Snapshot{
		{ID: 4, Timestamp: 2000},
		{ID: 7, Timestamp: 2100},
	}
	spec := Spec{Count: 2}

	keep := spec.Keep(snaps, time.Now())
	if len(keep) != 2 {
		t.Fatalf("first pass kept %d, want 2", len(keep))
	}
	// Re-running against the already pruned collection changes nothing.
	again := spec.Keep(snaps, time.Now())
	if len(again) != len(keep) {
		t.Errorf("second pass kept %d, want %d", len(again), len(keep))
	}
}
