package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// RateLimit returns a middleware enforcing a global token-bucket limit
// on the API surface. The service is single-athlete, so one bucket for
// all callers is enough; the point is to keep a runaway poller from
// burning the upstream quota.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				slog.Warn("rate limit exceeded", "path", r.URL.Path, "remote", r.RemoteAddr)
				writeRateLimitResponse(w, rps)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeRateLimitResponse writes a 429 with a Retry-After estimating
// when one token is replenished
func writeRateLimitResponse(w http.ResponseWriter, rps float64) {
	retryAfterSec := int(math.Ceil(1.0 / rps))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"error": "too many requests",
	})
}
