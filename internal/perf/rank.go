package perf

import (
	"math"
	"sort"

	"github.com/evanjt/veloq-sub002/internal/section"
)

// RankedCandidate is a candidate annotated with its 1-based leaderboard rank.
type RankedCandidate struct {
	section.DirectionalCandidate
	Rank int `json:"rank"`
}

// RankedView is the candidate set ordered fastest first. Rank 1 is the best
// within whatever set the caller chose (window or bucketed).
type RankedView struct {
	Candidates []RankedCandidate             `json:"candidates"`
	Best       *section.DirectionalCandidate `json:"best,omitempty"`
	AvgTime    float64                       `json:"avg_time"`
}

// Rank orders candidates by pace descending and assigns ranks. Ties keep the
// input order; there is deliberately no secondary key, since reordering equal
// paces would reshuffle established leaderboard rows. Candidates with
// malformed paces are dropped; zero-time candidates stay at zero pace and
// rank last. The average covers positive times only.
func Rank(candidates []section.DirectionalCandidate) RankedView {
	var view RankedView

	kept := make([]section.DirectionalCandidate, 0, len(candidates))
	var timeSum float64
	var timed int
	for i := range candidates {
		c := candidates[i]
		pace, ok := sanitizePace(c)
		if !ok {
			continue
		}
		c.BestPace = pace
		kept = append(kept, c)
		if c.BestTime > 0 {
			timeSum += c.BestTime
			timed++
		}
	}
	if len(kept) == 0 {
		return view
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].BestPace > kept[j].BestPace
	})

	view.Candidates = make([]RankedCandidate, len(kept))
	for i := range kept {
		view.Candidates[i] = RankedCandidate{DirectionalCandidate: kept[i], Rank: i + 1}
	}
	best := kept[0]
	view.Best = &best
	if timed > 0 {
		view.AvgTime = timeSum / float64(timed)
	}
	return view
}

// sanitizePace normalizes a candidate's pace for ranking. Zero-duration
// traversals become zero speed rather than an error so the row stays visible;
// NaN, Inf, or negative paces that cannot be recomputed drop the candidate so
// one malformed record cannot corrupt rank order or chart bounds.
func sanitizePace(c section.DirectionalCandidate) (float64, bool) {
	if c.BestTime <= 0 {
		return 0, true
	}
	pace := c.BestPace
	if math.IsNaN(pace) || math.IsInf(pace, 0) || pace < 0 {
		if c.SectionMeters > 0 {
			pace = c.SectionMeters / c.BestTime
		} else {
			return 0, false
		}
	}
	if math.IsNaN(pace) || math.IsInf(pace, 0) || pace < 0 {
		return 0, false
	}
	return pace, true
}
