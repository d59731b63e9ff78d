package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		totalXP int64
		level   int
	}{
		{0, 1},
		{-50, 1},
		{1, 1},
		{99, 1},
		{100, 2},
		{300, 2},
		{399, 2},
		{400, 3},
		{1000, 4},
		{100000, 32},
	}

	for _, c := range cases {
		assert.Equal(t, c.level, Level(c.totalXP), "Level(%d)", c.totalXP)
	}
}

func TestLevelNonDecreasing(t *testing.T) {
	prev := Level(0)
	for xp := int64(0); xp <= 5000; xp += 7 {
		lvl := Level(xp)
		assert.GreaterOrEqual(t, lvl, prev, "level dropped at %d", xp)
		prev = lvl
	}
}

func TestDayStartUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	// 02:30 on Jan 2 in UTC+7 is still Jan 1 in UTC
	ts := time.Date(2025, time.January, 2, 2, 30, 0, 0, loc)

	got := DayStartUTC(ts)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestStreakWindowStart(t *testing.T) {
	now := time.Date(2025, time.March, 30, 15, 0, 0, 0, time.UTC)

	got := StreakWindowStart(now)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestDistinctDays(t *testing.T) {
	day := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)

	ts := []time.Time{
		day,
		day.Add(4 * time.Hour),  // same day
		day.AddDate(0, 0, 1),    // next day
		day.AddDate(0, 0, 1).Add(10 * time.Hour),
		day.AddDate(0, 0, 3),
	}

	assert.Equal(t, 3, DistinctDays(ts))
	assert.Equal(t, 0, DistinctDays(nil))
}
