package dashboard

import (
	"time"

	"runboard/internal/polyline"
	"runboard/internal/weather"
)

// Activity is the display-ready view of a single activity. Field names
// match what the e-ink renderer consumes.
type Activity struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	StartDate        time.Time        `json:"startDate"`
	DistanceKm       float64          `json:"distanceKm"`
	MovingTimeSec    int64            `json:"movingTimeSec"`
	ElevGainMeters   float64          `json:"elevGainMeters"`
	PacePerKm        string           `json:"pacePerKm"`
	AverageHeartRate *float64         `json:"averageHeartRate"`
	MapPolyline      *string          `json:"mapPolyline"`
	MapBounds        *polyline.Bounds `json:"mapBounds,omitempty"`
}

// DayBucket is one of the 7 fixed Monday-to-Sunday weekly slots
type DayBucket struct {
	Day        string  `json:"day"`
	DistanceKm float64 `json:"distanceKm"`
}

// WeeklySummary aggregates the current calendar week's runs
type WeeklySummary struct {
	WeekStart       string      `json:"weekStart"` // YYYY-MM-DD
	TotalDistanceKm float64     `json:"totalDistanceKm"`
	TotalElevGainM  float64     `json:"totalElevGainMeters"`
	Days            []DayBucket `json:"days"` // exactly 7, Monday first
}

// RaceInfo is the countdown to the configured target race
type RaceInfo struct {
	Name      string `json:"name"`
	Date      string `json:"date"` // YYYY-MM-DD
	DaysUntil int    `json:"daysUntil"`
}

// Payload is the full dashboard response. Any upstream-derived field
// may independently be null or empty when its section is unavailable.
type Payload struct {
	LastActivity     *Activity      `json:"lastActivity"`
	RecentActivities []Activity     `json:"recentActivities"`
	WeeklySummary    *WeeklySummary `json:"weeklySummary"`
	Weather          []weather.Day  `json:"weather"`
	Race             *RaceInfo      `json:"race"`
	GeneratedAt      time.Time      `json:"generatedAt"`
}
