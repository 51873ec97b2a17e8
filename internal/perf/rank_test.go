package perf

import (
	"math"
	"testing"

	"github.com/evanjt/veloq-sub002/internal/section"
)

func TestRankOrdersByPaceDescending(t *testing.T) {
	view := Rank([]section.DirectionalCandidate{
		candidate("mid", 10, 200, 5.0, section.Same),
		candidate("fast", 20, 150, 6.6, section.Same),
		candidate("slow", 30, 250, 4.0, section.Same),
	})

	if len(view.Candidates) != 3 {
		t.Fatalf("expected three ranked candidates, got %d", len(view.Candidates))
	}
	for i := 1; i < len(view.Candidates); i++ {
		if view.Candidates[i-1].BestPace < view.Candidates[i].BestPace {
			t.Fatalf("pace not descending at index %d", i)
		}
		if view.Candidates[i].Rank != i+1 {
			t.Fatalf("rank %d at index %d", view.Candidates[i].Rank, i)
		}
	}
	if view.Candidates[0].ActivityID != "fast" || view.Candidates[0].Rank != 1 {
		t.Fatalf("rank 1 must be the fastest: %+v", view.Candidates[0])
	}
	if view.Best == nil || view.Best.ActivityID != "fast" {
		t.Fatalf("best mismatch: %+v", view.Best)
	}
}

func TestRankStableOnTies(t *testing.T) {
	view := Rank([]section.DirectionalCandidate{
		candidate("first", 10, 200, 5.0, section.Same),
		candidate("second", 20, 200, 5.0, section.Same),
	})
	if view.Candidates[0].ActivityID != "first" || view.Candidates[1].ActivityID != "second" {
		t.Fatalf("equal paces must keep input order")
	}
}

func TestRankAverageExcludesNonPositive(t *testing.T) {
	view := Rank([]section.DirectionalCandidate{
		candidate("a", 10, 100, 10, section.Same),
		candidate("b", 20, 200, 5, section.Same),
		candidate("zero", 30, 0, 0, section.Same),
	})
	if view.AvgTime != 150 {
		t.Fatalf("average must skip non-positive times: %v", view.AvgTime)
	}
	if len(view.Candidates) != 3 {
		t.Fatalf("zero-time candidate must stay in the list")
	}
	last := view.Candidates[len(view.Candidates)-1]
	if last.ActivityID != "zero" {
		t.Fatalf("zero-time candidate must rank last, got %s", last.ActivityID)
	}
}

func TestRankDropsMalformedPace(t *testing.T) {
	bad := candidate("bad", 10, 100, math.NaN(), section.Same)
	bad.SectionMeters = 0 // nothing to recompute from
	view := Rank([]section.DirectionalCandidate{
		bad,
		candidate("good", 20, 100, 10, section.Same),
	})
	if len(view.Candidates) != 1 || view.Candidates[0].ActivityID != "good" {
		t.Fatalf("malformed candidate must be dropped: %+v", view.Candidates)
	}
}

func TestRankRecomputesPaceWhenPossible(t *testing.T) {
	bad := candidate("fixable", 10, 200, math.Inf(1), section.Same)
	view := Rank([]section.DirectionalCandidate{bad})
	if len(view.Candidates) != 1 || view.Candidates[0].BestPace != 5.0 {
		t.Fatalf("expected recomputed pace: %+v", view.Candidates)
	}
}

func TestRankEmpty(t *testing.T) {
	view := Rank(nil)
	if len(view.Candidates) != 0 || view.Best != nil || view.AvgTime != 0 {
		t.Fatalf("empty input must yield empty view: %+v", view)
	}
}
