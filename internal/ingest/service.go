package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/evanjt/veloq-sub002/internal/db"
	"github.com/evanjt/veloq-sub002/internal/section"
	"github.com/evanjt/veloq-sub002/internal/simplify"
	"github.com/evanjt/veloq-sub002/internal/stream"
)

// ErrBadPayload marks an ingest body the decoder could not make sense of.
var ErrBadPayload = errors.New("bad payload")

// Payload is what the route-matching engine pushes after analysing a batch of
// activities against one section.
type Payload struct {
	Records  []json.RawMessage `json:"records"`
	Polyline []section.Point   `json:"polyline,omitempty"`
}

// Result summarises one ingest run.
type Result struct {
	SectionID       string `json:"section_id"`
	RecordsIngested int    `json:"records_ingested"`
	LapsIngested    int    `json:"laps_ingested"`
	PolylineUpdated bool   `json:"polyline_updated"`
}

// Service persists engine output and notifies stream subscribers. The ingest
// path is the only writer of section_records and section_laps.
type Service struct {
	db    db.Querier
	redis *redis.Client
	hub   *stream.Hub
	cache *simplify.Cache
}

func NewService(querier db.Querier, redisClient *redis.Client, hub *stream.Hub, cache *simplify.Cache) *Service {
	return &Service{db: querier, redis: redisClient, hub: hub, cache: cache}
}

// Ingest upserts the payload's records for one section. Laps are replaced
// wholesale per activity so re-analysis of an activity never duplicates them.
func (s *Service) Ingest(ctx context.Context, sectionID string, body []byte) (Result, error) {
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	raw, err := json.Marshal(payload.Records)
	if err != nil {
		return Result{}, err
	}
	records, err := section.DecodeRecords(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	result := Result{SectionID: sectionID}
	for _, rec := range records {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO section_records (section_id, activity_id, activity_name, activity_date, section_distance)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (section_id, activity_id) DO UPDATE
			SET activity_name = EXCLUDED.activity_name,
			    activity_date = EXCLUDED.activity_date,
			    section_distance = EXCLUDED.section_distance
		`, sectionID, rec.ActivityID, rec.ActivityName, rec.ActivityDate, rec.SectionMeters); err != nil {
			return Result{}, err
		}
		if _, err := s.db.Exec(ctx, `
			DELETE FROM section_laps WHERE section_id=$1 AND activity_id=$2
		`, sectionID, rec.ActivityID); err != nil {
			return Result{}, err
		}
		for _, lap := range rec.Laps {
			if _, err := s.db.Exec(ctx, `
				INSERT INTO section_laps (id, section_id, activity_id, direction, time_seconds, pace_mps, distance_meters)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, uuid.NewString(), sectionID, rec.ActivityID, lap.Direction.String(),
				lap.TimeSeconds, lap.PaceMps, lap.DistanceMeters); err != nil {
				return Result{}, err
			}
			result.LapsIngested++
		}
		result.RecordsIngested++
	}

	if len(payload.Polyline) > 0 {
		if err := s.updatePolyline(ctx, sectionID, payload.Polyline); err != nil {
			return Result{}, err
		}
		result.PolylineUpdated = true
	}

	if s.hub != nil && result.RecordsIngested > 0 {
		event, _ := json.Marshal(updateEvent{
			SectionID: sectionID,
			Records:   result.RecordsIngested,
			Laps:      result.LapsIngested,
		})
		s.hub.Broadcast(sectionID, event)
	}
	return result, nil
}

type updateEvent struct {
	SectionID string `json:"section_id"`
	Records   int    `json:"records"`
	Laps      int    `json:"laps"`
}

// updatePolyline replaces the section geometry and drops every cached
// simplification derived from the old one.
func (s *Service) updatePolyline(ctx context.Context, sectionID string, points []section.Point) error {
	data, err := json.Marshal(points)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE sections SET polyline=$2 WHERE id=$1
	`, sectionID, data); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Clear()
	}
	if s.redis != nil {
		// drop every cached tolerance for this section, not just the default
		index := simplify.CacheKeyIndex(sectionID)
		if keys, err := s.redis.SMembers(ctx, index).Result(); err == nil && len(keys) > 0 {
			s.redis.Del(ctx, keys...)
		}
		s.redis.Del(ctx, index)
	}
	return nil
}
