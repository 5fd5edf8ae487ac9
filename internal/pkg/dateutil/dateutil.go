package dateutil

import (
	"math"
	"time"
)

// DurationDays is the planned span between two dates in whole days, rounded
// up, never negative.
func DurationDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// DaysRemaining counts whole days from now until end, rounded up; 0 once the
// date has passed.
func DaysRemaining(end, now time.Time) int {
	diff := end.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
