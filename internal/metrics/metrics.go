package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// HTTP endpoints
	EndpointDashboard     = "dashboard"
	EndpointLastActivity  = "last_activity"
	EndpointHealth        = "health"
	EndpointOAuthStart    = "oauth_start"
	EndpointOAuthCallback = "oauth_callback"

	// Upstream operations
	OpListActivities = "list_activities"
	OpForecast       = "forecast"
	OpExchangeCode   = "exchange_code"
	OpRefreshToken   = "refresh_token"

	// Refresh outcomes
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Rate limit types
	RateLimit15Min = "15min"
	RateLimitDaily = "daily"

	// Rate limit buckets
	BucketLimit = "limit"
	BucketUsage = "usage"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "status_code"},
	)
)

// Upstream API Metrics
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"operation", "status_code"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API request latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation", "status_code"},
	)

	StravaRateLimit = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strava_rate_limit",
			Help: "Strava API rate limit state from response headers",
		},
		[]string{"limit_type", "bucket"},
	)
)

// Credential Metrics
var (
	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refresh_total",
			Help: "Total number of OAuth token refresh attempts",
		},
		[]string{"result"},
	)
)

// Dashboard Metrics
var (
	DashboardBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_build_duration_seconds",
			Help:    "Time to assemble a full dashboard payload",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	DashboardBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_builds_total",
			Help: "Total number of dashboard builds by outcome",
		},
		[]string{"result"},
	)
)
