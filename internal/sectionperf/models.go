package sectionperf

import (
	"github.com/evanjt/veloq-sub002/internal/perf"
	"github.com/evanjt/veloq-sub002/internal/section"
)

// View names the variant carried by a PerformanceResponse.
const (
	ViewRaw      = "raw"
	ViewBucketed = "bucketed"
)

// Row is one leaderboard entry: a ranked candidate plus its delta badge
// against the window best.
type Row struct {
	perf.RankedCandidate
	Delta perf.DeltaResult `json:"delta"`
}

// PerformanceResponse is the chart/leaderboard payload for one section. View
// tags which variant was chosen; Buckets is populated only for the bucketed
// variant. GlobalPR ignores the selected range, WindowPR does not.
type PerformanceResponse struct {
	SectionID       string                        `json:"section_id"`
	View            string                        `json:"view"`
	Rows            []Row                         `json:"rows"`
	Buckets         []perf.Bucket                 `json:"buckets,omitempty"`
	ForwardStats    *perf.DirectionStats          `json:"forward_stats,omitempty"`
	ReverseStats    *perf.DirectionStats          `json:"reverse_stats,omitempty"`
	WindowPR        *section.DirectionalCandidate `json:"window_pr,omitempty"`
	GlobalPR        *section.DirectionalCandidate `json:"global_pr,omitempty"`
	AvgTime         float64                       `json:"avg_time"`
	TotalTraversals int                           `json:"total_traversals"`
}

// PolylineResponse carries a simplified section polyline for map rendering.
// LengthMeters is the great-circle length of the simplified line.
type PolylineResponse struct {
	SectionID    string          `json:"section_id"`
	Tolerance    float64         `json:"tolerance"`
	PointCount   int             `json:"point_count"`
	LengthMeters float64         `json:"length_meters"`
	Points       []section.Point `json:"points"`
}

// CalendarResponse is the engine's calendar summary with trophy annotation.
type CalendarResponse struct {
	SectionID string                  `json:"section_id"`
	Years     section.CalendarSummary `json:"years"`
}
