package perf

import (
	"testing"

	"github.com/evanjt/veloq-sub002/internal/section"
)

func candidate(id string, date int64, timeSec, pace float64, dir section.Direction) section.DirectionalCandidate {
	return section.DirectionalCandidate{
		ActivityID:    id,
		ActivityName:  "Activity " + id,
		ActivityDate:  date,
		BestTime:      timeSec,
		BestPace:      pace,
		Direction:     dir,
		SectionMeters: 1000,
	}
}

func TestApplyWindowCutoff(t *testing.T) {
	now := int64(100 * secondsPerDay)
	candidates := []section.DirectionalCandidate{
		candidate("old", 10*secondsPerDay, 150, 6.6, section.Same),
		candidate("edge", 70*secondsPerDay, 200, 5.0, section.Same),
		candidate("new", 99*secondsPerDay, 210, 4.7, section.Same),
	}

	w := ApplyWindow(candidates, 30, now)
	if len(w.Filtered) != 2 {
		t.Fatalf("expected two candidates in window, got %d", len(w.Filtered))
	}
	for _, c := range w.Filtered {
		if c.ActivityID == "old" {
			t.Fatalf("old candidate must be filtered out")
		}
	}
}

func TestApplyWindowGlobalPRIgnoresRange(t *testing.T) {
	now := int64(100 * secondsPerDay)
	candidates := []section.DirectionalCandidate{
		candidate("old", 10*secondsPerDay, 150, 6.6, section.Same),
		candidate("new", 99*secondsPerDay, 210, 4.7, section.Same),
	}

	w := ApplyWindow(candidates, 30, now)
	if w.GlobalPR == nil || w.GlobalPR.ActivityID != "old" {
		t.Fatalf("global PR must survive outside the window: %+v", w.GlobalPR)
	}
}

func TestApplyWindowUnbounded(t *testing.T) {
	candidates := []section.DirectionalCandidate{
		candidate("a", 0, 100, 10, section.Same),
		candidate("b", -secondsPerDay, 90, 11, section.Reverse),
	}
	w := ApplyWindow(candidates, 0, 100*secondsPerDay)
	if len(w.Filtered) != 2 {
		t.Fatalf("days=0 must keep everything, got %d", len(w.Filtered))
	}
}

func TestApplyWindowMonotonic(t *testing.T) {
	now := int64(400 * secondsPerDay)
	var candidates []section.DirectionalCandidate
	for day := int64(0); day < 400; day += 13 {
		candidates = append(candidates, candidate("a", day*secondsPerDay, 100, 10, section.Same))
	}

	prev := -1
	for _, days := range []int{30, 90, 180, 365, 0} {
		w := ApplyWindow(candidates, days, now)
		n := len(w.Filtered)
		if days == 0 {
			n = len(candidates)
		}
		if n < prev {
			t.Fatalf("widening the window from %d shrank output: %d < %d", days, n, prev)
		}
		prev = n
	}
}

func TestApplyWindowIgnoresZeroTimeForPR(t *testing.T) {
	candidates := []section.DirectionalCandidate{
		candidate("broken", 10, 0, 0, section.Same),
		candidate("real", 20, 120, 8.3, section.Same),
	}
	w := ApplyWindow(candidates, 0, 100)
	if w.GlobalPR == nil || w.GlobalPR.ActivityID != "real" {
		t.Fatalf("zero-time candidate must never be the PR: %+v", w.GlobalPR)
	}
}

func TestApplyWindowEmpty(t *testing.T) {
	w := ApplyWindow(nil, 30, 0)
	if len(w.Filtered) != 0 || w.GlobalPR != nil {
		t.Fatalf("empty input must yield empty window")
	}
}

func TestRangeDays(t *testing.T) {
	cases := map[string]int{"1m": 30, "3m": 90, "6m": 180, "1y": 365, "all": 0, "": 0}
	for in, want := range cases {
		got, err := RangeDays(in)
		if err != nil || got != want {
			t.Fatalf("RangeDays(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := RangeDays("2w"); err == nil {
		t.Fatalf("expected error for unknown range")
	}
}
