package perf

import (
	"time"

	"github.com/evanjt/veloq-sub002/internal/section"
)

// AnnotateCalendar returns a copy of the engine's pre-computed calendar
// summary with the cell holding the all-time PR flagged. The summary itself is
// never recomputed here; only the trophy flag is derived.
func AnnotateCalendar(summary section.CalendarSummary, pr *section.DirectionalCandidate) section.CalendarSummary {
	if summary == nil {
		return nil
	}

	out := make(section.CalendarSummary, len(summary))
	for year, months := range summary {
		out[year] = make(map[int]*section.MonthCell, len(months))
		for month, cell := range months {
			if cell == nil {
				out[year][month] = nil
				continue
			}
			copied := *cell
			out[year][month] = &copied
		}
	}

	if pr == nil {
		return out
	}
	t := time.Unix(pr.ActivityDate, 0).UTC()
	if months, ok := out[t.Year()]; ok {
		if cell := months[int(t.Month())]; cell != nil {
			cell.HasTrophy = true
		}
	}
	return out
}
