package section

// Direction is the orientation of a traversal relative to the section's
// canonical polyline.
type Direction int

const (
	Same Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "same"
}

// Point is a single GPS coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Descriptor identifies a section as supplied by the route-matching engine.
type Descriptor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	SportType      string   `json:"sport_type"`
	DistanceMeters float64  `json:"distance_meters"`
	ActivityIDs    []string `json:"activity_ids"`
	Polyline       []Point  `json:"polyline"`
}

// IsRunning reports whether deltas for this section should be shown as pace
// (seconds per kilometer) rather than raw time.
func (d Descriptor) IsRunning() bool {
	switch d.SportType {
	case "Run", "TrailRun", "VirtualRun", "Walk", "Hike":
		return true
	}
	return false
}

// Lap is one measured traversal of the section within a single activity.
type Lap struct {
	Direction      Direction `json:"direction"`
	TimeSeconds    float64   `json:"time_seconds"`
	PaceMps        float64   `json:"pace_mps"`
	DistanceMeters float64   `json:"distance_meters"`
}

// PerformanceRecord holds every lap a single activity produced on a section,
// as measured by the activity-stream analysis process.
type PerformanceRecord struct {
	ActivityID     string  `json:"activity_id"`
	ActivityName   string  `json:"activity_name"`
	ActivityDate   int64   `json:"activity_date"`
	SectionMeters  float64 `json:"section_distance"`
	Laps           []Lap   `json:"laps"`
}

// DirectionalCandidate is an activity's best lap in one direction. An activity
// yields at most one candidate per direction.
type DirectionalCandidate struct {
	ActivityID    string    `json:"activity_id"`
	ActivityName  string    `json:"activity_name"`
	ActivityDate  int64     `json:"activity_date"`
	BestTime      float64   `json:"best_time"`
	BestPace      float64   `json:"best_pace"`
	Direction     Direction `json:"direction"`
	SectionMeters float64   `json:"section_distance"`
}

// MonthCell is one month of the pre-computed calendar summary. Forward and
// Reverse hold the fastest time observed that month in each direction, when
// one exists.
type MonthCell struct {
	Forward        *float64 `json:"forward,omitempty"`
	Reverse        *float64 `json:"reverse,omitempty"`
	TraversalCount int      `json:"traversal_count"`
	HasTrophy      bool     `json:"has_trophy,omitempty"`
}

// CalendarSummary maps year -> month (1-12) -> cell. It is produced by the
// engine and consumed read-only here; annotation only sets HasTrophy.
type CalendarSummary map[int]map[int]*MonthCell
