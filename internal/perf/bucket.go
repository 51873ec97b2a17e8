package perf

import (
	"fmt"
	"sort"
	"time"

	"github.com/evanjt/veloq-sub002/internal/section"
)

// Granularity selects the calendar bucket size for chart grouping.
type Granularity int

const (
	Weekly Granularity = iota
	Monthly
	Quarterly
	Yearly
)

// ParseGranularity maps the UI's granularity selection onto the enum.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "weekly":
		return Weekly, nil
	case "monthly", "":
		return Monthly, nil
	case "quarterly":
		return Quarterly, nil
	case "yearly":
		return Yearly, nil
	}
	return Monthly, fmt.Errorf("%w: unknown granularity %q", ErrBadSelection, s)
}

// Bucket holds the fastest candidate within one (bucket key, direction) cell
// plus how many traversals fell into it.
type Bucket struct {
	Candidate   section.DirectionalCandidate `json:"candidate"`
	Occurrences int                          `json:"occurrences"`
}

// DirectionStats summarizes all filtered traversals of one direction before
// bucketing collapses them.
type DirectionStats struct {
	AvgTime      float64 `json:"avg_time"`
	LastActivity int64   `json:"last_activity"`
	Count        int     `json:"count"`
}

// BucketResult is the bucketed view of a filtered candidate set.
type BucketResult struct {
	Buckets         []Bucket                      `json:"buckets"`
	ForwardStats    *DirectionStats               `json:"forward_stats,omitempty"`
	ReverseStats    *DirectionStats               `json:"reverse_stats,omitempty"`
	WindowPR        *section.DirectionalCandidate `json:"window_pr,omitempty"`
	TotalTraversals int                           `json:"total_traversals"`
}

type bucketKey struct {
	period    int64
	direction section.Direction
}

// BucketBest groups filtered candidates into calendar buckets per direction,
// keeping the fastest candidate in each and counting occurrences. Buckets come
// back sorted ascending by the retained candidate's date. An empty input
// yields empty buckets and nil stats.
func BucketBest(filtered []section.DirectionalCandidate, g Granularity) BucketResult {
	var result BucketResult
	result.TotalTraversals = len(filtered)
	if len(filtered) == 0 {
		return result
	}

	cells := make(map[bucketKey]*Bucket)
	for i := range filtered {
		c := filtered[i]
		key := bucketKey{period: periodIndex(g, c.ActivityDate), direction: c.Direction}
		cell, ok := cells[key]
		if !ok {
			cells[key] = &Bucket{Candidate: c, Occurrences: 1}
			continue
		}
		cell.Occurrences++
		if beats(c, cell.Candidate) {
			cell.Candidate = c
		}
	}

	result.Buckets = make([]Bucket, 0, len(cells))
	for _, cell := range cells {
		result.Buckets = append(result.Buckets, *cell)
	}
	sort.SliceStable(result.Buckets, func(i, j int) bool {
		return result.Buckets[i].Candidate.ActivityDate < result.Buckets[j].Candidate.ActivityDate
	})

	result.ForwardStats = directionStats(filtered, section.Same)
	result.ReverseStats = directionStats(filtered, section.Reverse)

	for i := range filtered {
		c := filtered[i]
		if c.BestTime > 0 && (result.WindowPR == nil || c.BestTime < result.WindowPR.BestTime) {
			pr := c
			result.WindowPR = &pr
		}
	}
	return result
}

// beats reports whether a should replace b as a bucket's retained candidate.
// Degenerate zero-time candidates never displace a measured one.
func beats(a, b section.DirectionalCandidate) bool {
	if a.BestTime <= 0 {
		return false
	}
	return b.BestTime <= 0 || a.BestTime < b.BestTime
}

// periodIndex computes the calendar bucket index for a unix timestamp.
// Weekly is a rolling 7-day index from the epoch, deliberately not aligned to
// any day-of-week boundary; changing it would silently reshape historical
// chart groupings. Month-based keys use UTC.
func periodIndex(g Granularity, unix int64) int64 {
	if g == Weekly {
		return floorDiv(unix, 7*secondsPerDay)
	}
	t := time.Unix(unix, 0).UTC()
	year := int64(t.Year())
	month0 := int64(t.Month()) - 1
	switch g {
	case Monthly:
		return year*12 + month0
	case Quarterly:
		return year*4 + month0/3
	default:
		return year
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func directionStats(candidates []section.DirectionalCandidate, dir section.Direction) *DirectionStats {
	var stats DirectionStats
	var timeSum float64
	var timed int

	for i := range candidates {
		c := candidates[i]
		if c.Direction != dir {
			continue
		}
		stats.Count++
		if c.ActivityDate > stats.LastActivity {
			stats.LastActivity = c.ActivityDate
		}
		if c.BestTime > 0 {
			timeSum += c.BestTime
			timed++
		}
	}
	if stats.Count == 0 {
		return nil
	}
	if timed > 0 {
		stats.AvgTime = timeSum / float64(timed)
	}
	return &stats
}
