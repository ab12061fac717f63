package dashboard

import (
	"time"

	"runboard/internal/strava"
)

var dayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekStart returns the Monday-anchored week containing now, truncated
// to midnight in now's location.
func WeekStart(now time.Time) time.Time {
	// Sunday=0..Saturday=6, so the offset back to Monday is (weekday+6) mod 7
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -offset)
}

// BuildWeeklySummary buckets activities by day of week relative to
// weekStart. Only activities of type "Run" are counted. An activity
// whose whole-day offset falls outside [0,6] is discarded, a guard
// against clock skew or upstream timezone artifacts.
func BuildWeeklySummary(activities []strava.Activity, weekStart time.Time) *WeeklySummary {
	summary := &WeeklySummary{
		WeekStart: weekStart.Format("2006-01-02"),
		Days:      make([]DayBucket, 7),
	}
	for i := range summary.Days {
		summary.Days[i].Day = dayLabels[i]
	}

	for _, a := range activities {
		if a.Type != "Run" {
			continue
		}

		elapsed := a.StartDate.Sub(weekStart)
		if elapsed < 0 {
			continue
		}
		day := int(elapsed / (24 * time.Hour))
		if day > 6 {
			continue
		}

		km := a.Distance / 1000
		summary.Days[day].DistanceKm += km
		summary.TotalDistanceKm += km
		summary.TotalElevGainM += a.TotalElevationGain
	}

	return summary
}
