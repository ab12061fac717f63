package strava

import (
	"sync"
	"time"

	"runboard/internal/metrics"
)

// RateLimits tracks the Strava API quota headers observed on responses.
// The whole service shares one athlete's quota, so the latest
// observation is the whole picture.
type RateLimits struct {
	mu          sync.RWMutex
	limit15Min  int
	usage15Min  int
	limitDaily  int
	usageDaily  int
	lastUpdated time.Time
}

// RateLimitStatus is a snapshot of the observed quota state
type RateLimitStatus struct {
	Limit15Min  int
	Usage15Min  int
	LimitDaily  int
	UsageDaily  int
	LastUpdated time.Time
}

// NewRateLimits creates a tracker seeded with Strava's default limits
func NewRateLimits() *RateLimits {
	return &RateLimits{
		limit15Min: 200,
		limitDaily: 2000,
	}
}

// Update records the latest quota headers and exports them as gauges
func (rl *RateLimits) Update(limit15Min, usage15Min, limitDaily, usageDaily int) {
	rl.mu.Lock()
	rl.limit15Min = limit15Min
	rl.usage15Min = usage15Min
	rl.limitDaily = limitDaily
	rl.usageDaily = usageDaily
	rl.lastUpdated = time.Now()
	rl.mu.Unlock()

	metrics.StravaRateLimit.WithLabelValues(metrics.RateLimit15Min, metrics.BucketLimit).Set(float64(limit15Min))
	metrics.StravaRateLimit.WithLabelValues(metrics.RateLimit15Min, metrics.BucketUsage).Set(float64(usage15Min))
	metrics.StravaRateLimit.WithLabelValues(metrics.RateLimitDaily, metrics.BucketLimit).Set(float64(limitDaily))
	metrics.StravaRateLimit.WithLabelValues(metrics.RateLimitDaily, metrics.BucketUsage).Set(float64(usageDaily))
}

// Status returns the current snapshot
func (rl *RateLimits) Status() RateLimitStatus {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return RateLimitStatus{
		Limit15Min:  rl.limit15Min,
		Usage15Min:  rl.usage15Min,
		LimitDaily:  rl.limitDaily,
		UsageDaily:  rl.usageDaily,
		LastUpdated: rl.lastUpdated,
	}
}
