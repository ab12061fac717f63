// Package weather fetches an OpenWeatherMap multi-point forecast and
// collapses its 3-hour samples into daily summaries.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"runboard/internal/config"
	"runboard/internal/metrics"
)

const (
	// DefaultBaseURL is the production OpenWeatherMap API root
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	requestTimeout = 10 * time.Second
)

// HTTPError represents a non-2xx response from the forecast API
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("forecast request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client fetches forecasts for a fixed coordinate pair
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	lat        float64
	lon        float64
	logger     *slog.Logger
}

// NewClient creates a forecast client from configuration.
// Call only when cfg.WeatherConfigured() is true.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    DefaultBaseURL,
		apiKey:     cfg.WeatherAPIKey,
		lat:        cfg.WeatherLat,
		lon:        cfg.WeatherLon,
		logger:     slog.Default(),
	}
}

// SetBaseURL overrides the API root. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// forecastResponse and forecastSample mirror the fields of the
// 5-day/3-hour forecast feed the summarizer consumes
type forecastResponse struct {
	List []forecastSample `json:"list"`
}

type forecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
}

// Forecast fetches the multi-day forecast and returns up to 7 daily
// summaries in ascending date order. A feed with zero samples yields
// nil rather than an empty slice.
func (c *Client) Forecast(ctx context.Context) ([]Day, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	params := url.Values{
		"lat":   {strconv.FormatFloat(c.lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(c.lon, 'f', -1, 64)},
		"units": {"metric"},
		"appid": {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OpForecast, "error").Inc()
		c.logger.Error("forecast request failed", "error", err, "duration_ms", duration.Milliseconds())
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	statusStr := strconv.Itoa(resp.StatusCode)
	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OpForecast, statusStr).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(metrics.OpForecast, statusStr).Observe(duration.Seconds())

	c.logger.Info("forecast_request", "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var feed forecastResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forecast: %w", err)
	}

	return summarize(feed.List), nil
}
