package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"runboard/internal/config"
	"runboard/internal/database"
	"runboard/internal/metrics"
)

const (
	// DefaultAuthURL is the Strava authorization page
	DefaultAuthURL = "https://www.strava.com/oauth/authorize"
	// DefaultTokenURL is the Strava token endpoint
	DefaultTokenURL = "https://www.strava.com/oauth/token"

	scope = "activity:read_all" // Read all activities including private ones

	// expiryMargin is the safety window before expiry within which a
	// token is treated as stale and refreshed
	expiryMargin = 60 * time.Second
)

var (
	// ErrCredentialsMissing means no token pair has ever been stored;
	// the one-time interactive authorization has not been completed
	ErrCredentialsMissing = errors.New("no stored credentials: complete authorization at /oauth-start")

	// ErrTokenRefreshFailed means the upstream rejected the refresh
	// exchange; the stored pair is left untouched
	ErrTokenRefreshFailed = errors.New("token refresh failed")
)

// Manager handles the OAuth 2.0 flow with Strava and guarantees a
// non-expired access token to callers
type Manager struct {
	clientID     string
	clientSecret string
	authURL      string
	tokenURL     string
	db           *database.DB
	logger       *slog.Logger
	states       *stateStore // CSRF protection

	// Serializes refresh so two concurrent requests cannot race and
	// invalidate each other's rotated refresh token
	refreshMu sync.Mutex
}

// stateStore tracks valid OAuth states for CSRF protection
type stateStore struct {
	mu     sync.RWMutex
	states map[string]time.Time
}

// NewManager creates a new OAuth manager
func NewManager(cfg *config.Config, db *database.DB) *Manager {
	mgr := &Manager{
		clientID:     cfg.StravaClientID,
		clientSecret: cfg.StravaClientSecret,
		authURL:      DefaultAuthURL,
		tokenURL:     DefaultTokenURL,
		db:           db,
		logger:       slog.Default(),
		states: &stateStore{
			states: make(map[string]time.Time),
		},
	}

	// Start background cleanup of expired states
	go mgr.cleanupStates()

	return mgr
}

// SetEndpoints overrides the upstream OAuth endpoints. Used by tests.
func (m *Manager) SetEndpoints(authURL, tokenURL string) {
	m.authURL = authURL
	m.tokenURL = tokenURL
}

// oauthConfig builds the oauth2 configuration for a given redirect URI.
// Strava wants client credentials in the POST body, not basic auth.
func (m *Manager) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.authURL,
			TokenURL:  m.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL generates a Strava authorization URL with CSRF protection
func (m *Manager) AuthCodeURL(redirectURI string) (string, string, error) {
	state, err := generateRandomState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	// Store state with expiration (10 minutes)
	m.states.mu.Lock()
	m.states.states[state] = time.Now().Add(10 * time.Minute)
	m.states.mu.Unlock()

	authURL := m.oauthConfig(redirectURI).AuthCodeURL(state)

	m.logger.Info("Generated auth URL", "state", state)

	return authURL, state, nil
}

// HandleCallback processes the OAuth callback, exchanging the
// authorization code for a token pair and persisting it.
// Returns the athlete ID on success.
func (m *Manager) HandleCallback(ctx context.Context, code, state, redirectURI string) (int64, error) {
	// Validate state for CSRF protection
	if !m.validateState(state) {
		return 0, fmt.Errorf("invalid or expired state")
	}

	m.logger.Info("Handling OAuth callback", "code_length", len(code))

	token, err := m.oauthConfig(redirectURI).Exchange(ctx, code)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OpExchangeCode, "error").Inc()
		return 0, fmt.Errorf("failed to exchange code: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OpExchangeCode, "200").Inc()

	athleteID := extractAthleteID(token)

	m.logger.Info("Exchanged code for tokens", "athlete_id", athleteID)

	creds := &database.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.Unix(),
		AthleteID:    athleteID,
	}
	if err := m.db.SaveCredentials(creds); err != nil {
		return 0, fmt.Errorf("failed to save credentials: %w", err)
	}

	m.logger.Info("Stored credentials", "athlete_id", athleteID, "expires_at", creds.ExpiresAt)

	return athleteID, nil
}

// AccessToken returns a non-expired access token, refreshing it through
// the upstream token endpoint when the stored pair is within the
// expiry margin. Refresh is lazy and request-triggered; there is no
// background timer.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	creds, err := m.db.GetCredentials()
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", ErrCredentialsMissing
	}

	if time.Unix(creds.ExpiresAt, 0).After(time.Now().Add(expiryMargin)) {
		return creds.AccessToken, nil
	}

	m.logger.Info("Refreshing access token", "expires_at", creds.ExpiresAt)

	// Leaving AccessToken unset forces the token source to perform the
	// refresh_token grant rather than trusting its own expiry check,
	// which uses a narrower margin than ours
	stale := &oauth2.Token{RefreshToken: creds.RefreshToken}

	start := time.Now()
	fresh, err := m.oauthConfig("").TokenSource(ctx, stale).Token()
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OpRefreshToken, "error").Inc()
		metrics.TokenRefreshTotal.WithLabelValues(metrics.ResultFailure).Inc()
		m.logger.Error("token refresh failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: %v", ErrTokenRefreshFailed, err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OpRefreshToken, "200").Inc()

	// The refresh response may rotate the refresh token itself, so the
	// pair is persisted in full and the old pair discarded
	creds = &database.Credentials{
		AccessToken:  fresh.AccessToken,
		RefreshToken: fresh.RefreshToken,
		ExpiresAt:    fresh.Expiry.Unix(),
		AthleteID:    creds.AthleteID,
	}
	if err := m.db.SaveCredentials(creds); err != nil {
		return "", fmt.Errorf("failed to save refreshed credentials: %w", err)
	}

	metrics.TokenRefreshTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	m.logger.Info("token_refresh", "expires_at", creds.ExpiresAt, "duration_ms", time.Since(start).Milliseconds())

	return creds.AccessToken, nil
}

// extractAthleteID pulls the athlete ID out of the token extras.
// Strava includes a summary of the athlete in the token response.
func extractAthleteID(token *oauth2.Token) int64 {
	if athlete, ok := token.Extra("athlete").(map[string]interface{}); ok {
		if id, ok := athlete["id"].(float64); ok {
			return int64(id)
		}
	}
	return 0
}

// validateState checks if a state is valid and removes it (one-time use)
func (m *Manager) validateState(state string) bool {
	m.states.mu.Lock()
	defer m.states.mu.Unlock()

	expiry, exists := m.states.states[state]
	if !exists {
		return false
	}

	// Check if expired
	if time.Now().After(expiry) {
		delete(m.states.states, state)
		return false
	}

	// Remove state after use (one-time use)
	delete(m.states.states, state)

	return true
}

// cleanupStates removes expired states every minute
func (m *Manager) cleanupStates() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.states.mu.Lock()
		now := time.Now()
		for state, expiry := range m.states.states {
			if now.After(expiry) {
				delete(m.states.states, state)
			}
		}
		m.states.mu.Unlock()
	}
}

// generateRandomState generates a cryptographically secure random state
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
