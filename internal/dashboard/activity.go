package dashboard

import (
	"fmt"
	"math"

	"runboard/internal/polyline"
	"runboard/internal/strava"
)

// FormatPace renders the per-kilometer pace as "m:ss". An activity with
// zero distance has undefined pace and yields the literal "0:00".
func FormatPace(distanceMeters float64, movingTimeSec int64) string {
	if distanceMeters <= 0 {
		return "0:00"
	}

	paceSec := float64(movingTimeSec) / (distanceMeters / 1000)
	minutes := int(paceSec / 60)
	seconds := int(math.Round(math.Mod(paceSec, 60)))
	if seconds == 60 {
		minutes++
		seconds = 0
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// buildActivity derives the display view of one upstream activity
func buildActivity(a strava.Activity) Activity {
	out := Activity{
		ID:               a.ID,
		Name:             a.Name,
		Type:             a.Type,
		StartDate:        a.StartDate,
		DistanceKm:       a.Distance / 1000,
		MovingTimeSec:    a.MovingTime,
		ElevGainMeters:   a.TotalElevationGain,
		PacePerKm:        FormatPace(a.Distance, a.MovingTime),
		AverageHeartRate: a.AverageHeartrate,
	}

	if a.Map.SummaryPolyline != "" {
		p := a.Map.SummaryPolyline
		out.MapPolyline = &p
		out.MapBounds = polyline.BoundsOf(polyline.Decode(p))
	}

	return out
}

// buildActivities maps a list of upstream activities, preserving
// upstream ordering
func buildActivities(activities []strava.Activity) []Activity {
	out := make([]Activity, len(activities))
	for i, a := range activities {
		out[i] = buildActivity(a)
	}
	return out
}
