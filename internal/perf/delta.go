package perf

import (
	"fmt"
	"math"

	"github.com/evanjt/veloq-sub002/internal/section"
)

// significanceSeconds suppresses near-zero deltas: below one second (or one
// second per kilometer for pace deltas) the label would just be noise.
const significanceSeconds = 1.0

// DeltaResult is a formatted relative difference for a leaderboard row badge.
// Display is nil when the candidate is the best itself or the difference is
// below the significance threshold.
type DeltaResult struct {
	Display  *string `json:"display"`
	IsFaster bool    `json:"is_faster"`
}

// Delta formats the gap between a candidate and the set's best. Running-style
// sections compare pace converted to seconds per kilometer; everything else
// compares raw section time. Positive means slower, negative means faster.
func Delta(candidate, best section.DirectionalCandidate, running bool) DeltaResult {
	if candidate.ActivityID == best.ActivityID && candidate.Direction == best.Direction {
		return DeltaResult{IsFaster: true}
	}

	var delta float64
	if running {
		delta = perKm(candidate.BestPace) - perKm(best.BestPace)
	} else {
		delta = candidate.BestTime - best.BestTime
	}

	result := DeltaResult{IsFaster: delta <= 0}
	if math.IsNaN(delta) || math.IsInf(delta, 0) || math.Abs(delta) < significanceSeconds {
		return result
	}
	s := formatDelta(delta)
	result.Display = &s
	return result
}

// perKm converts a speed in m/s to seconds per kilometer. Zero speed maps to
// +Inf, which the caller suppresses.
func perKm(paceMps float64) float64 {
	return 1000 / paceMps
}

// formatDelta renders a signed gap: "+M:SS" past a minute, "+Ns" below it.
func formatDelta(delta float64) string {
	sign := "+"
	if delta < 0 {
		sign = "-"
	}
	total := int(math.Abs(delta))
	if total >= 60 {
		return fmt.Sprintf("%s%d:%02d", sign, total/60, total%60)
	}
	return fmt.Sprintf("%s%ds", sign, total)
}
