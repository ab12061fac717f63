package dashboard

import (
	"math"
	"testing"
	"time"

	"runboard/internal/strava"
)

func TestWeekStartIsAlwaysMondayMidnight(t *testing.T) {
	// One of each weekday
	for days := 0; days < 7; days++ {
		now := time.Date(2025, 10, 13, 15, 42, 7, 0, time.UTC).AddDate(0, 0, days)
		ws := WeekStart(now)

		if ws.Weekday() != time.Monday {
			t.Errorf("WeekStart(%v) = %v, not a Monday", now, ws)
		}
		if ws.Hour() != 0 || ws.Minute() != 0 || ws.Second() != 0 {
			t.Errorf("WeekStart(%v) = %v, not midnight", now, ws)
		}
		if ws.After(now) {
			t.Errorf("WeekStart(%v) = %v, after now", now, ws)
		}
		if !ws.After(now.AddDate(0, 0, -7)) {
			t.Errorf("WeekStart(%v) = %v, more than 7 days back", now, ws)
		}
	}
}

func TestWeekStartOnSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday
	sunday := time.Date(2025, 10, 19, 23, 59, 0, 0, time.UTC)
	ws := WeekStart(sunday)

	want := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	if !ws.Equal(want) {
		t.Errorf("WeekStart(%v) = %v, want %v", sunday, ws, want)
	}
}

func TestBuildWeeklySummary(t *testing.T) {
	weekStart := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC) // Monday

	activities := []strava.Activity{
		{Type: "Run", StartDate: weekStart.Add(7 * time.Hour), Distance: 5000, TotalElevationGain: 50},                  // Monday
		{Type: "Run", StartDate: weekStart.AddDate(0, 0, 2).Add(18 * time.Hour), Distance: 8000, TotalElevationGain: 80}, // Wednesday
		{Type: "Run", StartDate: weekStart.AddDate(0, 0, 2).Add(6 * time.Hour), Distance: 3000, TotalElevationGain: 10},  // Wednesday again
		{Type: "Ride", StartDate: weekStart.Add(9 * time.Hour), Distance: 40000, TotalElevationGain: 400},               // filtered out
		{Type: "Run", StartDate: weekStart.AddDate(0, 0, 6).Add(8 * time.Hour), Distance: 21097, TotalElevationGain: 150}, // Sunday
	}

	summary := BuildWeeklySummary(activities, weekStart)

	if len(summary.Days) != 7 {
		t.Fatalf("Expected exactly 7 buckets, got %d", len(summary.Days))
	}

	wantLabels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	for i, label := range wantLabels {
		if summary.Days[i].Day != label {
			t.Errorf("Expected bucket %d labeled %s, got %s", i, label, summary.Days[i].Day)
		}
	}

	if summary.Days[0].DistanceKm != 5.0 {
		t.Errorf("Expected Monday distance 5.0, got %v", summary.Days[0].DistanceKm)
	}
	if summary.Days[2].DistanceKm != 11.0 {
		t.Errorf("Expected Wednesday distance 11.0, got %v", summary.Days[2].DistanceKm)
	}
	if summary.Days[1].DistanceKm != 0 {
		t.Errorf("Expected empty Tuesday bucket, got %v", summary.Days[1].DistanceKm)
	}
	if summary.Days[6].DistanceKm != 21.097 {
		t.Errorf("Expected Sunday distance 21.097, got %v", summary.Days[6].DistanceKm)
	}

	// Sum of buckets equals total within floating-point tolerance
	var sum float64
	for _, d := range summary.Days {
		sum += d.DistanceKm
	}
	if math.Abs(sum-summary.TotalDistanceKm) > 1e-9 {
		t.Errorf("Expected bucket sum %v to equal total %v", sum, summary.TotalDistanceKm)
	}

	if summary.TotalElevGainM != 290 {
		t.Errorf("Expected total elevation 290 (runs only), got %v", summary.TotalElevGainM)
	}
	if summary.WeekStart != "2025-10-13" {
		t.Errorf("Expected week start 2025-10-13, got %s", summary.WeekStart)
	}
}

func TestBuildWeeklySummaryDiscardsOutOfRange(t *testing.T) {
	weekStart := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	activities := []strava.Activity{
		{Type: "Run", StartDate: weekStart.Add(-2 * time.Hour), Distance: 5000},            // before the week
		{Type: "Run", StartDate: weekStart.AddDate(0, 0, 7).Add(time.Hour), Distance: 5000}, // after the week
		{Type: "Run", StartDate: weekStart.Add(10 * time.Hour), Distance: 4000},             // in range
	}

	summary := BuildWeeklySummary(activities, weekStart)

	if summary.TotalDistanceKm != 4.0 {
		t.Errorf("Expected only in-range activity counted, total %v", summary.TotalDistanceKm)
	}
}

func TestBuildWeeklySummaryEmpty(t *testing.T) {
	weekStart := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	summary := BuildWeeklySummary(nil, weekStart)

	if len(summary.Days) != 7 {
		t.Fatalf("Expected 7 buckets even with no activity, got %d", len(summary.Days))
	}
	if summary.TotalDistanceKm != 0 {
		t.Errorf("Expected zero total, got %v", summary.TotalDistanceKm)
	}
}
