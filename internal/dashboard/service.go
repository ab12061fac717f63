package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"runboard/internal/config"
	"runboard/internal/metrics"
	"runboard/internal/strava"
	"runboard/internal/weather"
)

const recentCount = 3

// TokenProvider yields a non-expired upstream access token
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// ActivitySource lists upstream activities, most recent first
type ActivitySource interface {
	ListActivities(ctx context.Context, accessToken string, perPage int, after int64) ([]strava.Activity, error)
}

// WeatherSource fetches the daily forecast summaries
type WeatherSource interface {
	Forecast(ctx context.Context) ([]weather.Day, error)
}

// Service assembles the dashboard payload from the upstream sources.
// It is the sole entry point the HTTP handlers call for data.
type Service struct {
	tokens     TokenProvider
	activities ActivitySource
	weather    WeatherSource // nil when weather is not configured
	raceName   string
	raceDate   time.Time
	raceSet    bool
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates the dashboard service. weatherSrc may be nil when
// the weather configuration is absent; the weather section is then
// omitted rather than treated as an error.
func NewService(tokens TokenProvider, activities ActivitySource, weatherSrc WeatherSource, cfg *config.Config) *Service {
	s := &Service{
		tokens:     tokens,
		activities: activities,
		weather:    weatherSrc,
		raceName:   cfg.RaceName,
		logger:     slog.Default(),
		now:        time.Now,
	}
	if cfg.RaceConfigured() {
		s.raceDate = cfg.RaceTime()
		s.raceSet = true
	}
	return s
}

// BuildDashboard obtains one valid access token, issues the three
// upstream fetches concurrently, and assembles the payload. Any single
// upstream failure aborts the whole build; the countdown is computed
// synchronously and never fails.
func (s *Service) BuildDashboard(ctx context.Context) (*Payload, error) {
	start := time.Now()

	// Token first: all athlete fetches depend on it, so a refresh
	// round-trip is not worth parallelizing against the fan-out
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		metrics.DashboardBuildsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	var (
		recent []strava.Activity
		weekly *WeeklySummary
		days   []weather.Day
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		recent, err = s.activities.ListActivities(gctx, token, recentCount, 0)
		return err
	})

	g.Go(func() error {
		weekStart := WeekStart(s.now())
		acts, err := s.activities.ListActivities(gctx, token, 200, weekStart.Unix())
		if err != nil {
			return err
		}
		weekly = BuildWeeklySummary(acts, weekStart)
		return nil
	})

	if s.weather != nil {
		g.Go(func() error {
			var err error
			days, err = s.weather.Forecast(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		metrics.DashboardBuildsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	payload := &Payload{
		RecentActivities: buildActivities(recent),
		WeeklySummary:    weekly,
		Weather:          days,
		GeneratedAt:      s.now(),
	}
	if len(payload.RecentActivities) > 0 {
		payload.LastActivity = &payload.RecentActivities[0]
	}
	if s.raceSet {
		payload.Race = BuildRaceInfo(s.raceName, s.raceDate, s.now())
	}

	duration := time.Since(start)
	metrics.DashboardBuildsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.DashboardBuildDuration.Observe(duration.Seconds())

	s.logger.Info("dashboard_build",
		"duration_ms", duration.Milliseconds(),
		"recent", len(payload.RecentActivities),
		"weather_days", len(days))

	return payload, nil
}

// LastActivity returns the most recent activity, or nil if the account
// has none.
func (s *Service) LastActivity(ctx context.Context) (*Activity, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	acts, err := s.activities.ListActivities(ctx, token, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, nil
	}

	a := buildActivity(acts[0])
	return &a, nil
}
