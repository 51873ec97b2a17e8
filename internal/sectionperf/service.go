package sectionperf

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/evanjt/veloq-sub002/internal/config"
	"github.com/evanjt/veloq-sub002/internal/db"
	"github.com/evanjt/veloq-sub002/internal/perf"
	"github.com/evanjt/veloq-sub002/internal/section"
	"github.com/evanjt/veloq-sub002/internal/shared/geo"
	"github.com/evanjt/veloq-sub002/internal/simplify"

	"github.com/redis/go-redis/v9"
)

var nowFn = func() int64 { return time.Now().Unix() }

// Service assembles the analytics pipeline over records supplied by the
// activity-stream analysis process. The pipeline itself is pure; this layer
// only loads inputs and caches simplified polylines.
type Service struct {
	db        db.Querier
	redis     *redis.Client
	cache     *simplify.Cache
	cacheTTL  time.Duration
	tolerance float64
	threshold int
}

func NewService(querier db.Querier, redisClient *redis.Client, cache *simplify.Cache, cfg config.Config) *Service {
	threshold := cfg.VolumeThreshold
	if threshold <= 0 {
		threshold = 100
	}
	tolerance := cfg.SimplifyTolerance
	if tolerance <= 0 {
		tolerance = simplify.DefaultTolerance
	}
	ttl := time.Duration(cfg.PolylineCacheTTLSec) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		db:        querier,
		redis:     redisClient,
		cache:     cache,
		cacheTTL:  ttl,
		tolerance: tolerance,
		threshold: threshold,
	}
}

// Descriptor loads a section as supplied by the route-matching engine.
func (s *Service) Descriptor(ctx context.Context, sectionID string) (section.Descriptor, error) {
	var desc section.Descriptor
	var polylineJSON []byte
	row := s.db.QueryRow(ctx, `
		SELECT id, name, sport_type, distance_meters, polyline
		FROM sections WHERE id=$1
	`, sectionID)
	if err := row.Scan(&desc.ID, &desc.Name, &desc.SportType, &desc.DistanceMeters, &polylineJSON); err != nil {
		return section.Descriptor{}, err
	}
	if len(polylineJSON) > 0 {
		if err := json.Unmarshal(polylineJSON, &desc.Polyline); err != nil {
			return section.Descriptor{}, fmt.Errorf("section %s polyline: %w", sectionID, err)
		}
	}
	if desc.DistanceMeters <= 0 && len(desc.Polyline) > 1 {
		desc.DistanceMeters = geo.PolylineMeters(desc.Polyline)
	}

	rows, err := s.db.Query(ctx, `
		SELECT activity_id FROM section_records WHERE section_id=$1 ORDER BY activity_date
	`, sectionID)
	if err != nil {
		return section.Descriptor{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return section.Descriptor{}, err
		}
		desc.ActivityIDs = append(desc.ActivityIDs, id)
	}
	return desc, nil
}

// Records loads every performance record for a section, oldest activity
// first. Direction strings are resolved to the enum here, at the boundary.
func (s *Service) Records(ctx context.Context, sectionID string) ([]section.PerformanceRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.activity_id, r.activity_name, r.activity_date, r.section_distance,
		       l.direction, l.time_seconds, l.pace_mps, l.distance_meters
		FROM section_records r
		JOIN section_laps l ON l.section_id = r.section_id AND l.activity_id = r.activity_id
		WHERE r.section_id=$1
		ORDER BY r.activity_date, r.activity_id
	`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []section.PerformanceRecord
	index := map[string]int{}
	for rows.Next() {
		var activityID, activityName, direction string
		var activityDate int64
		var sectionDist, lapTime, lapPace, lapDist float64
		if err := rows.Scan(&activityID, &activityName, &activityDate, &sectionDist,
			&direction, &lapTime, &lapPace, &lapDist); err != nil {
			return nil, err
		}

		i, ok := index[activityID]
		if !ok {
			records = append(records, section.PerformanceRecord{
				ActivityID:    activityID,
				ActivityName:  activityName,
				ActivityDate:  activityDate,
				SectionMeters: sectionDist,
			})
			i = len(records) - 1
			index[activityID] = i
		}
		records[i].Laps = append(records[i].Laps, section.Lap{
			Direction:      section.ParseDirection(direction),
			TimeSeconds:    lapTime,
			PaceMps:        lapPace,
			DistanceMeters: lapDist,
		})
	}
	return records, nil
}

// Performance runs the full pipeline for one section. rangeSel and granSel
// are the raw query selections; viewSel is "auto", "raw", or "buckets".
func (s *Service) Performance(ctx context.Context, sectionID, rangeSel, granSel, viewSel string) (PerformanceResponse, error) {
	days, err := perf.RangeDays(rangeSel)
	if err != nil {
		return PerformanceResponse{}, err
	}
	granularity, err := perf.ParseGranularity(granSel)
	if err != nil {
		return PerformanceResponse{}, err
	}

	desc, err := s.Descriptor(ctx, sectionID)
	if err != nil {
		return PerformanceResponse{}, err
	}
	records, err := s.Records(ctx, sectionID)
	if err != nil {
		return PerformanceResponse{}, err
	}

	candidates := perf.Flatten(records)
	window := perf.ApplyWindow(candidates, days, nowFn())
	bucketed := perf.BucketBest(window.Filtered, granularity)

	resp := PerformanceResponse{
		SectionID:       sectionID,
		ForwardStats:    bucketed.ForwardStats,
		ReverseStats:    bucketed.ReverseStats,
		WindowPR:        bucketed.WindowPR,
		GlobalPR:        window.GlobalPR,
		TotalTraversals: bucketed.TotalTraversals,
	}

	useBuckets := false
	switch viewSel {
	case "buckets":
		useBuckets = true
	case "raw":
	case "auto", "":
		useBuckets = bucketed.TotalTraversals >= s.threshold
	default:
		return PerformanceResponse{}, fmt.Errorf("%w: unknown view %q", perf.ErrBadSelection, viewSel)
	}

	running := desc.IsRunning()
	if useBuckets {
		resp.View = ViewBucketed
		resp.Buckets = bucketed.Buckets
		retained := make([]section.DirectionalCandidate, len(bucketed.Buckets))
		for i, b := range bucketed.Buckets {
			retained[i] = b.Candidate
		}
		resp.Rows, resp.AvgTime = rankRows(retained, running)
	} else {
		resp.View = ViewRaw
		resp.Rows, resp.AvgTime = rankRows(window.Filtered, running)
	}
	return resp, nil
}

// rankRows ranks a candidate set and attaches delta badges against the
// ranked best.
func rankRows(candidates []section.DirectionalCandidate, running bool) ([]Row, float64) {
	view := perf.Rank(candidates)
	rows := make([]Row, len(view.Candidates))
	for i, rc := range view.Candidates {
		rows[i] = Row{RankedCandidate: rc}
		if view.Best != nil {
			rows[i].Delta = perf.Delta(rc.DirectionalCandidate, *view.Best, running)
		}
	}
	return rows, view.AvgTime
}

// Polyline returns a simplified section polyline, consulting the in-process
// LRU first and redis second; simplification is deterministic, so entries are
// cacheable by section identity plus tolerance.
func (s *Service) Polyline(ctx context.Context, sectionID string, tolerance float64) (PolylineResponse, error) {
	if tolerance <= 0 {
		tolerance = s.tolerance
	}
	key := simplify.CacheKey(sectionID, tolerance)

	if s.cache != nil {
		if points, ok := s.cache.Get(key); ok {
			return polylineResponse(sectionID, tolerance, points), nil
		}
	}
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var points []section.Point
			if json.Unmarshal(data, &points) == nil {
				if s.cache != nil {
					s.cache.Put(key, points)
				}
				return polylineResponse(sectionID, tolerance, points), nil
			}
		}
	}

	desc, err := s.Descriptor(ctx, sectionID)
	if err != nil {
		return PolylineResponse{}, err
	}
	points := simplify.Polyline(desc.Polyline, tolerance)

	if s.cache != nil {
		s.cache.Put(key, points)
	}
	if s.redis != nil {
		if data, err := json.Marshal(points); err == nil {
			s.redis.Set(ctx, key, data, s.cacheTTL)
			// the index lets ingest invalidate every tolerance on a geometry change
			s.redis.SAdd(ctx, simplify.CacheKeyIndex(sectionID), key)
		}
	}
	return polylineResponse(sectionID, tolerance, points), nil
}

func polylineResponse(sectionID string, tolerance float64, points []section.Point) PolylineResponse {
	return PolylineResponse{
		SectionID:    sectionID,
		Tolerance:    tolerance,
		PointCount:   len(points),
		LengthMeters: geo.PolylineMeters(points),
		Points:       points,
	}
}

// Calendar loads the engine's pre-computed calendar summary and marks the
// all-time PR month. The summary is never recomputed here.
func (s *Service) Calendar(ctx context.Context, sectionID string) (CalendarResponse, error) {
	var data []byte
	row := s.db.QueryRow(ctx, `
		SELECT summary FROM section_calendar WHERE section_id=$1
	`, sectionID)
	if err := row.Scan(&data); err != nil {
		return CalendarResponse{}, err
	}

	var summary section.CalendarSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return CalendarResponse{}, fmt.Errorf("section %s calendar: %w", sectionID, err)
	}

	records, err := s.Records(ctx, sectionID)
	if err != nil {
		return CalendarResponse{}, err
	}
	window := perf.ApplyWindow(perf.Flatten(records), 0, nowFn())

	return CalendarResponse{
		SectionID: sectionID,
		Years:     perf.AnnotateCalendar(summary, window.GlobalPR),
	}, nil
}
