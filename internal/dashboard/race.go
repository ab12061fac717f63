package dashboard

import (
	"math"
	"time"
)

// DaysUntil returns the signed whole-day countdown from now to the
// target date's midnight: positive for future dates, zero for today,
// negative for past dates.
func DaysUntil(targetMidnight, now time.Time) int {
	return int(math.Ceil(targetMidnight.Sub(now).Hours() / 24))
}

// BuildRaceInfo computes the countdown for a configured race.
// Pure: no I/O beyond its arguments.
func BuildRaceInfo(name string, targetMidnight, now time.Time) *RaceInfo {
	return &RaceInfo{
		Name:      name,
		Date:      targetMidnight.Format("2006-01-02"),
		DaysUntil: DaysUntil(targetMidnight, now),
	}
}
