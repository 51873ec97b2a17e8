package section

import (
	"encoding/json"
	"fmt"
)

// ParseDirection maps the engine's string forms onto the Direction enum.
// The engine has emitted both "same"/"reverse" and "forward"/"backward"
// depending on version; anything unrecognized (including empty) is treated
// as the canonical direction.
func ParseDirection(s string) Direction {
	switch s {
	case "reverse", "backward":
		return Reverse
	}
	return Same
}

// engineLap mirrors the wire shape the engine emits for a single lap.
type engineLap struct {
	Direction string  `json:"direction"`
	Time      float64 `json:"time"`
	Pace      float64 `json:"pace"`
	Distance  float64 `json:"distance"`
}

// engineRecord mirrors the engine's per-activity record. Older engine
// versions flatten a single lap into the record itself instead of carrying a
// laps array, so both shapes are accepted.
type engineRecord struct {
	ActivityID   string      `json:"activityId"`
	ActivityName string      `json:"activityName"`
	ActivityDate int64       `json:"activityDate"`
	SectionDist  float64     `json:"sectionDistance"`
	Laps         []engineLap `json:"laps"`

	// Legacy single-lap shape.
	BestTime  float64 `json:"bestTime"`
	BestPace  float64 `json:"bestPace"`
	Direction string  `json:"direction"`
}

// DecodeRecords converts the engine's JSON payload into PerformanceRecords,
// resolving the record-shape variant once at the boundary so the pipeline
// never probes optional fields.
func DecodeRecords(data []byte) ([]PerformanceRecord, error) {
	var raw []engineRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]PerformanceRecord, 0, len(raw))
	for _, r := range raw {
		rec := PerformanceRecord{
			ActivityID:    r.ActivityID,
			ActivityName:  r.ActivityName,
			ActivityDate:  r.ActivityDate,
			SectionMeters: r.SectionDist,
		}
		if len(r.Laps) > 0 {
			rec.Laps = make([]Lap, 0, len(r.Laps))
			for _, l := range r.Laps {
				rec.Laps = append(rec.Laps, Lap{
					Direction:      ParseDirection(l.Direction),
					TimeSeconds:    l.Time,
					PaceMps:        l.Pace,
					DistanceMeters: l.Distance,
				})
			}
		} else if r.Direction != "" || r.BestTime > 0 || r.BestPace > 0 {
			// degenerate legacy laps are kept; the flattener ranks them last
			rec.Laps = []Lap{{
				Direction:      ParseDirection(r.Direction),
				TimeSeconds:    r.BestTime,
				PaceMps:        r.BestPace,
				DistanceMeters: r.SectionDist,
			}}
		}
		if len(rec.Laps) == 0 {
			// A record with no laps carries no information.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
