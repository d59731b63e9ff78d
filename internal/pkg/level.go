package pkg

import (
	"math"
	"time"
)

// StreakWindowDays is the trailing window considered for login streaks.
const StreakWindowDays = 30

// Level maps accumulated XP to a level: floor(sqrt(totalXP/100)) + 1.
// Level(0) == 1 and the function is non-decreasing, so a user's level can
// never go down as long as the ledger only grows.
func Level(totalXP int64) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(totalXP)/100)) + 1
}

// DayStartUTC truncates t to the start of its UTC calendar day. All
// once-per-day bucketing uses UTC as the fixed reference timezone.
func DayStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StreakWindowStart returns the start of the trailing 30-day window ending
// on t's day: the window covers 30 calendar days including t's own.
func StreakWindowStart(t time.Time) time.Time {
	return DayStartUTC(t).AddDate(0, 0, -(StreakWindowDays - 1))
}

// DistinctDays counts the distinct UTC calendar days covered by ts.
func DistinctDays(ts []time.Time) int {
	days := map[string]bool{}
	for _, t := range ts {
		days[t.UTC().Format("2006-01-02")] = true
	}
	return len(days)
}
