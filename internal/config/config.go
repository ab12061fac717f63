package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Host string
	Port int

	// Database configuration
	DatabasePath string

	// Strava API configuration
	StravaClientID     string
	StravaClientSecret string

	// Weather configuration (optional; dashboard degrades to a null
	// weather section when absent)
	WeatherAPIKey string
	WeatherLat    float64
	WeatherLon    float64

	// Race configuration (optional)
	RaceName string
	RaceDate string // YYYY-MM-DD

	// Metrics configuration
	MetricsEnabled bool
	MetricsHost    string
	MetricsPort    int

	// API rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Logging configuration
	LogLevel string
}

// Load reads configuration from environment variables
// It fails fast if required variables are missing
func Load() (*Config, error) {
	cfg := &Config{
		// Optional values with defaults
		Host:           getEnv("HOST", "localhost"),
		Port:           getEnvInt("PORT", 4000),
		DatabasePath:   getEnv("DATABASE_PATH", "./data.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherLat:     getEnvFloat("WEATHER_LAT", 0),
		WeatherLon:     getEnvFloat("WEATHER_LON", 0),
		RaceName:       os.Getenv("RACE_NAME"),
		RaceDate:       os.Getenv("RACE_DATE"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsHost:    getEnv("METRICS_HOST", "localhost"),
		MetricsPort:    getEnvInt("METRICS_PORT", 9090),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}

	// Required values
	var missingVars []string

	cfg.StravaClientID = os.Getenv("STRAVA_CLIENT_ID")
	if cfg.StravaClientID == "" {
		missingVars = append(missingVars, "STRAVA_CLIENT_ID")
	}

	cfg.StravaClientSecret = os.Getenv("STRAVA_CLIENT_SECRET")
	if cfg.StravaClientSecret == "" {
		missingVars = append(missingVars, "STRAVA_CLIENT_SECRET")
	}

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	if cfg.RaceDate != "" {
		if _, err := time.Parse("2006-01-02", cfg.RaceDate); err != nil {
			return nil, fmt.Errorf("invalid RACE_DATE %q: expected YYYY-MM-DD", cfg.RaceDate)
		}
	}

	return cfg, nil
}

// WeatherConfigured reports whether the weather section can be served.
// The API key and a coordinate pair are both required; an all-zero
// coordinate pair is treated as unset.
func (c *Config) WeatherConfigured() bool {
	return c.WeatherAPIKey != "" && (c.WeatherLat != 0 || c.WeatherLon != 0)
}

// RaceConfigured reports whether a race countdown can be computed.
func (c *Config) RaceConfigured() bool {
	return c.RaceDate != ""
}

// RaceTime returns the configured race date at local midnight.
// Call only when RaceConfigured returns true.
func (c *Config) RaceTime() time.Time {
	t, _ := time.ParseInLocation("2006-01-02", c.RaceDate, time.Local)
	return t
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
