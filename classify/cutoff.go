package classify

import "time"

// DefaultCutoffDay is the day of month shipping for a cycle starts
const DefaultCutoffDay = 5

// Cutoff returns the naive midnight of the cutoff day in the month of now, seen from zone.
// Days beyond the month length are clamped to its last day.
func Cutoff(now time.Time, zone *time.Location, day int) time.Time {
	if zone == nil {
		zone = time.UTC
	}
	if day < 1 {
		day = DefaultCutoffDay
	}
	local := now.In(zone)
	last := time.Date(local.Year(), local.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(local.Year(), local.Month(), day, 0, 0, 0, 0, time.UTC)
}
