package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"runboard/internal/metrics"
)

// Activity is the subset of a Strava activity summary the dashboard
// consumes. Fields are validated at this boundary so downstream code
// never touches untyped JSON.
type Activity struct {
	ID                 int64       `json:"id"`
	Name               string      `json:"name"`
	Type               string      `json:"type"`
	StartDate          time.Time   `json:"start_date"`
	Distance           float64     `json:"distance"`             // meters
	MovingTime         int64       `json:"moving_time"`          // seconds
	TotalElevationGain float64     `json:"total_elevation_gain"` // meters
	AverageHeartrate   *float64    `json:"average_heartrate"`
	Map                ActivityMap `json:"map"`
}

// ActivityMap carries the encoded summary route, if any
type ActivityMap struct {
	SummaryPolyline string `json:"summary_polyline"`
}

// ListActivities fetches the athlete's activities in upstream order
// (most recent first). perPage bounds the page size; after, when
// positive, is an inclusive epoch-seconds lower bound on start time.
func (c *Client) ListActivities(ctx context.Context, accessToken string, perPage int, after int64) ([]Activity, error) {
	if perPage < 1 {
		perPage = 1
	}
	if perPage > 200 {
		perPage = 200 // Strava max
	}

	params := url.Values{
		"per_page": {strconv.Itoa(perPage)},
	}
	if after > 0 {
		params.Set("after", strconv.FormatInt(after, 10))
	}

	body, err := c.get(ctx, metrics.OpListActivities, "/athlete/activities?"+params.Encode(), accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	var activities []Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
	}

	return activities, nil
}
