package simplify

import "strconv"

// CacheKey names the shared redis entry holding one simplified polyline.
func CacheKey(sectionID string, tolerance float64) string {
	return "polyline:" + sectionID + ":" + strconv.FormatFloat(tolerance, 'g', -1, 64)
}

// CacheKeyIndex names the redis set tracking every CacheKey written for a
// section, so a geometry change can invalidate all tolerances at once.
func CacheKeyIndex(sectionID string) string {
	return "polyline-keys:" + sectionID
}
