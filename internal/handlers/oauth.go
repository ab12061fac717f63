package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"runboard/internal/oauth"
)

// OAuthHandler handles OAuth flow endpoints
type OAuthHandler struct {
	manager *oauth.Manager
	logger  *slog.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(manager *oauth.Manager) *OAuthHandler {
	return &OAuthHandler{
		manager: manager,
		logger:  slog.Default(),
	}
}

// redirectURI builds the callback URI on the same host/port as the
// current request
func redirectURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/oauth-callback", scheme, r.Host)
}

// HandleAuthStart initiates the OAuth flow by redirecting to Strava
func (h *OAuthHandler) HandleAuthStart(w http.ResponseWriter, r *http.Request) {
	uri := redirectURI(r)

	authURL, state, err := h.manager.AuthCodeURL(uri)
	if err != nil {
		h.logger.Error("Failed to generate auth URL", "error", err)
		http.Error(w, "Failed to start OAuth flow", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Starting OAuth flow", "state", state, "redirect_uri", uri)

	// Redirect user to Strava authorization page
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// HandleCallback processes the OAuth callback from Strava
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	// Check for authorization denial
	if errorParam != "" {
		h.logger.Warn("OAuth authorization denied", "error", errorParam)
		http.Error(w, fmt.Sprintf("Authorization failed: %s", errorParam), http.StatusBadRequest)
		return
	}

	if code == "" || state == "" {
		h.logger.Warn("Missing OAuth parameters", "has_code", code != "", "has_state", state != "")
		http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
		return
	}

	h.logger.Info("Processing OAuth callback", "code_length", len(code), "state", state)

	athleteID, err := h.manager.HandleCallback(r.Context(), code, state, redirectURI(r))
	if err != nil {
		h.logger.Error("Failed to handle OAuth callback", "error", err)

		errorMsg := "Failed to complete authorization"
		if err.Error() == "invalid or expired state" {
			errorMsg = "Invalid or expired authorization request. Please try again."
		}

		http.Error(w, errorMsg, http.StatusBadRequest)
		return
	}

	h.logger.Info("OAuth flow completed successfully", "athlete_id", athleteID)

	// Success! Return simple HTML page
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Authorization Successful</title>
	<style>
		body {
			font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
			max-width: 600px;
			margin: 100px auto;
			padding: 20px;
			text-align: center;
		}
		h1 { color: #FC4C02; }
		p { color: #666; line-height: 1.6; }
		code {
			background: #f4f4f4;
			padding: 2px 6px;
			border-radius: 3px;
			font-family: monospace;
		}
	</style>
</head>
<body>
	<h1>✓ Authorization Successful</h1>
	<p>Your Strava account has been connected (Athlete ID: <code>%d</code>)</p>
	<p>The dashboard is now available at <code>/api/dashboard</code>.</p>
	<p>You can close this window.</p>
</body>
</html>`, athleteID)
}
