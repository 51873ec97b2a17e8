package perf

import (
	"math"

	"github.com/evanjt/veloq-sub002/internal/section"
)

// Flatten reduces each record's laps to at most one candidate per direction,
// keeping the fastest valid lap. A direction whose laps are all degenerate
// (time <= 0) still yields a candidate with zero time and zero pace so the
// traversal stays visible; it will rank last.
func Flatten(records []section.PerformanceRecord) []section.DirectionalCandidate {
	candidates := make([]section.DirectionalCandidate, 0, len(records))

	for _, rec := range records {
		var best [2]*section.Lap
		var seen [2]bool

		for i := range rec.Laps {
			lap := &rec.Laps[i]
			dir := lap.Direction
			seen[dir] = true
			if lap.TimeSeconds <= 0 {
				continue
			}
			if best[dir] == nil || lap.TimeSeconds < best[dir].TimeSeconds {
				best[dir] = lap
			}
		}

		for _, dir := range []section.Direction{section.Same, section.Reverse} {
			if !seen[dir] {
				continue
			}
			cand := section.DirectionalCandidate{
				ActivityID:    rec.ActivityID,
				ActivityName:  rec.ActivityName,
				ActivityDate:  rec.ActivityDate,
				Direction:     dir,
				SectionMeters: rec.SectionMeters,
			}
			if lap := best[dir]; lap != nil {
				cand.BestTime = lap.TimeSeconds
				cand.BestPace = lapPace(lap)
			}
			candidates = append(candidates, cand)
		}
	}
	return candidates
}

// lapPace returns the lap's pace, recomputing it from distance and time when
// the recorded value is unusable. Zero-duration laps get zero speed.
func lapPace(lap *section.Lap) float64 {
	if lap.PaceMps > 0 && !math.IsInf(lap.PaceMps, 0) && !math.IsNaN(lap.PaceMps) {
		return lap.PaceMps
	}
	if lap.TimeSeconds > 0 && lap.DistanceMeters > 0 {
		return lap.DistanceMeters / lap.TimeSeconds
	}
	return 0
}
