package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDurationDays(t *testing.T) {
	assert.Equal(t, 31, DurationDays(day(2026, 1, 1), day(2026, 2, 1)))
	assert.Equal(t, 1, DurationDays(day(2026, 1, 1), day(2026, 1, 2)))
	assert.Equal(t, 0, DurationDays(day(2026, 1, 2), day(2026, 1, 1)))
	assert.Equal(t, 0, DurationDays(day(2026, 1, 1), day(2026, 1, 1)))
}

func TestDurationDays_PartialDayRoundsUp(t *testing.T) {
	start := day(2026, 1, 1)
	end := start.Add(36 * time.Hour)
	assert.Equal(t, 2, DurationDays(start, end))
}

func TestDaysRemaining(t *testing.T) {
	now := day(2026, 6, 1)

	assert.Equal(t, 14, DaysRemaining(now.AddDate(0, 0, 14), now))
	assert.Equal(t, 1, DaysRemaining(now.Add(2*time.Hour), now))
	// past deadlines clamp to zero instead of going negative
	assert.Equal(t, 0, DaysRemaining(now.AddDate(0, 0, -30), now))
	assert.Equal(t, 0, DaysRemaining(now, now))
}
