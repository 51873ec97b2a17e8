// Package simplify reduces GPS polylines for map rendering using
// Douglas-Peucker. Output is always a subsequence of the input with both
// endpoints preserved; no point is ever interpolated.
package simplify

import (
	"math"

	"github.com/evanjt/veloq-sub002/internal/section"
)

// DefaultTolerance is roughly five meters at the equator, expressed in
// degrees. At that scale a planar distance formula is accurate enough.
const DefaultTolerance = 0.00005

// Polyline simplifies points with the given tolerance in degrees. Tolerance
// values <= 0 fall back to DefaultTolerance. Inputs of two points or fewer
// come back unchanged.
func Polyline(points []section.Point, tolerance float64) []section.Point {
	if len(points) <= 2 {
		return points
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return douglasPeucker(points, tolerance)
}

func douglasPeucker(points []section.Point, tolerance float64) []section.Point {
	if len(points) <= 2 {
		return points
	}

	first, last := points[0], points[len(points)-1]
	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(points)-1; i++ {
		if d := perpendicularDistance(points[i], first, last); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= tolerance {
		return []section.Point{first, last}
	}

	left := douglasPeucker(points[:maxIdx+1], tolerance)
	right := douglasPeucker(points[maxIdx:], tolerance)
	// The junction point appears at the end of left and the start of right.
	return append(left[:len(left):len(left)], right[1:]...)
}

// perpendicularDistance is the planar distance from p to the chord a-b,
// via the cross-product area formula.
func perpendicularDistance(p, a, b section.Point) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(p.Lng-a.Lng, p.Lat-a.Lat)
	}
	return math.Abs(dx*(a.Lat-p.Lat)-dy*(a.Lng-p.Lng)) / length
}
