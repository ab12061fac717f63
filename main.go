package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"runboard/internal/config"
	"runboard/internal/dashboard"
	"runboard/internal/database"
	"runboard/internal/handlers"
	"runboard/internal/metrics"
	"runboard/internal/middleware"
	"runboard/internal/oauth"
	"runboard/internal/strava"
	"runboard/internal/weather"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting runboard server",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DatabasePath,
		"log_level", cfg.LogLevel,
		"weather_configured", cfg.WeatherConfigured(),
		"race_configured", cfg.RaceConfigured())

	// Open database
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("Database opened successfully")

	// Wire components
	oauthManager := oauth.NewManager(cfg, db)
	stravaClient := strava.NewClient()

	var weatherClient dashboard.WeatherSource
	if cfg.WeatherConfigured() {
		weatherClient = weather.NewClient(cfg)
	} else {
		logger.Info("Weather not configured; dashboard will omit the weather section")
	}

	service := dashboard.NewService(oauthManager, stravaClient, weatherClient, cfg)

	oauthHandler := handlers.NewOAuthHandler(oauthManager)
	dashboardHandler := handlers.NewDashboardHandler(service, db)

	// Set up HTTP routes
	r := chi.NewRouter()

	// OAuth endpoints
	r.Method(http.MethodGet, "/oauth-start", middleware.WrapHandler(metrics.EndpointOAuthStart, oauthHandler.HandleAuthStart))
	r.Method(http.MethodGet, "/oauth-callback", middleware.WrapHandler(metrics.EndpointOAuthCallback, oauthHandler.HandleCallback))

	// Dashboard API, rate limited as a group
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Method(http.MethodGet, "/api/dashboard", middleware.WrapHandler(metrics.EndpointDashboard, dashboardHandler.HandleDashboard))
		r.Method(http.MethodGet, "/api/last-activity", middleware.WrapHandler(metrics.EndpointLastActivity, dashboardHandler.HandleLastActivity))
	})

	// Health check endpoint
	r.Method(http.MethodGet, "/api/health", middleware.WrapHandler(metrics.EndpointHealth, dashboardHandler.HandleHealth))

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  35 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start metrics server if enabled
	var metricsServer *http.Server
	if cfg.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())

		metricsAddr := fmt.Sprintf("%s:%d", cfg.MetricsHost, cfg.MetricsPort)
		metricsServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsMux,
		}

		go func() {
			logger.Info("Metrics server listening", "addr", metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Start HTTP server in background
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully...")

	// Shutdown HTTP servers with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("Server stopped")
}
