package utils

import "time"

// DefaultAvailabilityWindow is the display window used when the caller does
// not supply one.
const DefaultAvailabilityWindow = 2 * time.Hour

// Overlaps reports whether [s1,e1) and [s2,e2) share at least one instant.
// Half-open semantics: touching boundaries do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ValidInterval reports whether end is strictly after start.
func ValidInterval(start, end time.Time) bool {
	return end.After(start)
}
