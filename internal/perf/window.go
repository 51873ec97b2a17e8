package perf

import (
	"errors"
	"fmt"

	"github.com/evanjt/veloq-sub002/internal/section"
)

const secondsPerDay = 86400

// ErrBadSelection marks a request parameter the pipeline does not recognize.
var ErrBadSelection = errors.New("bad selection")

// Window is the outcome of restricting candidates to a trailing time range.
// GlobalPR ignores the range entirely: the all-time record stays visible even
// when the active chart window excludes it.
type Window struct {
	Filtered []section.DirectionalCandidate
	GlobalPR *section.DirectionalCandidate
}

// ApplyWindow keeps candidates whose activity date falls within the trailing
// window of the given day count ending at now. days == 0 means unbounded.
func ApplyWindow(candidates []section.DirectionalCandidate, days int, now int64) Window {
	var w Window

	cutoff := int64(0)
	bounded := days > 0
	if bounded {
		cutoff = now - int64(days)*secondsPerDay
	}

	for i := range candidates {
		c := candidates[i]
		if !bounded || c.ActivityDate >= cutoff {
			w.Filtered = append(w.Filtered, c)
		}
		if c.BestTime > 0 && (w.GlobalPR == nil || c.BestTime < w.GlobalPR.BestTime) {
			pr := c
			w.GlobalPR = &pr
		}
	}
	return w
}

// RangeDays maps the UI's time-range selection onto a trailing day count.
func RangeDays(selection string) (int, error) {
	switch selection {
	case "1m":
		return 30, nil
	case "3m":
		return 90, nil
	case "6m":
		return 180, nil
	case "1y":
		return 365, nil
	case "all", "":
		return 0, nil
	}
	return 0, fmt.Errorf("%w: unknown time range %q", ErrBadSelection, selection)
}
