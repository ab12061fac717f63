package strava

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"runboard/internal/metrics"
)

const (
	// DefaultBaseURL is the production Strava API root
	DefaultBaseURL = "https://www.strava.com/api/v3"

	requestTimeout = 10 * time.Second
)

// HTTPError represents a non-2xx response from the Strava API,
// carrying status and body for diagnostics
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("strava request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client is a Strava API client. Tokens are passed per call; credential
// lifecycle lives in the oauth package.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	limits     *RateLimits
}

// NewClient creates a new Strava API client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    DefaultBaseURL,
		logger:     slog.Default(),
		limits:     NewRateLimits(),
	}
}

// SetBaseURL overrides the API root. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// get performs an authenticated GET against the API and returns the
// response body. Non-2xx responses become an *HTTPError.
func (c *Client) get(ctx context.Context, operation, path, accessToken string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.logger.Error("strava request failed", "operation", operation, "error", err, "duration_ms", duration.Milliseconds())
		return nil, fmt.Errorf("strava request failed: %w", err)
	}
	defer resp.Body.Close()

	c.parseRateLimitHeaders(resp.Header)

	statusStr := strconv.Itoa(resp.StatusCode)
	metrics.UpstreamRequestsTotal.WithLabelValues(operation, statusStr).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(operation, statusStr).Observe(duration.Seconds())

	c.logger.Info("strava_api_request", "operation", operation, "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// parseRateLimitHeaders extracts rate limit information from response headers
func (c *Client) parseRateLimitHeaders(headers http.Header) {
	limitHeader := headers.Get("X-RateLimit-Limit")
	usageHeader := headers.Get("X-RateLimit-Usage")
	if limitHeader == "" || usageHeader == "" {
		return
	}

	limits := strings.Split(limitHeader, ",")
	usages := strings.Split(usageHeader, ",")
	if len(limits) != 2 || len(usages) != 2 {
		return
	}

	limit15, _ := strconv.Atoi(strings.TrimSpace(limits[0]))
	limitDaily, _ := strconv.Atoi(strings.TrimSpace(limits[1]))
	usage15, _ := strconv.Atoi(strings.TrimSpace(usages[0]))
	usageDaily, _ := strconv.Atoi(strings.TrimSpace(usages[1]))

	c.limits.Update(limit15, usage15, limitDaily, usageDaily)

	c.logger.Debug("rate_limit",
		"limit_15min", limit15,
		"usage_15min", usage15,
		"limit_daily", limitDaily,
		"usage_daily", usageDaily,
	)
}

// RateLimitStatus returns the most recently observed rate limit state
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.limits.Status()
}
