package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"runboard/internal/config"
	"runboard/internal/oauth"
)

func setupOAuthHandler(t *testing.T) *OAuthHandler {
	t.Helper()
	cfg := &config.Config{
		StravaClientID:     "12345",
		StravaClientSecret: "secret",
	}
	return NewOAuthHandler(oauth.NewManager(cfg, setupTestDB(t)))
}

func TestHandleAuthStart(t *testing.T) {
	handler := setupOAuthHandler(t)

	req := httptest.NewRequest("GET", "http://localhost:4000/oauth-start", nil)
	w := httptest.NewRecorder()
	handler.HandleAuthStart(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("Expected status 307, got %d", w.Code)
	}

	location, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("Failed to parse redirect location: %v", err)
	}

	q := location.Query()
	if q.Get("client_id") != "12345" {
		t.Errorf("Expected client_id 12345, got %s", q.Get("client_id"))
	}
	if q.Get("state") == "" {
		t.Error("Expected a state parameter in the redirect")
	}
	if got := q.Get("redirect_uri"); !strings.HasSuffix(got, "/oauth-callback") {
		t.Errorf("Expected redirect_uri ending in /oauth-callback, got %s", got)
	}
	if got := q.Get("scope"); !strings.Contains(got, "activity:read") {
		t.Errorf("Expected activity:read scope, got %s", got)
	}
}

func TestHandleCallbackDenied(t *testing.T) {
	handler := setupOAuthHandler(t)

	req := httptest.NewRequest("GET", "/oauth-callback?error=access_denied", nil)
	w := httptest.NewRecorder()
	handler.HandleCallback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleCallbackMissingParams(t *testing.T) {
	handler := setupOAuthHandler(t)

	for _, query := range []string{"", "?code=abc", "?state=xyz"} {
		req := httptest.NewRequest("GET", "/oauth-callback"+query, nil)
		w := httptest.NewRecorder()
		handler.HandleCallback(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for query %q, got %d", query, w.Code)
		}
	}
}

func TestHandleCallbackUnknownState(t *testing.T) {
	handler := setupOAuthHandler(t)

	req := httptest.NewRequest("GET", "/oauth-callback?code=abc&state=never-issued", nil)
	w := httptest.NewRecorder()
	handler.HandleCallback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "try again") {
		t.Errorf("Expected the retry hint in the response, got %q", w.Body.String())
	}
}
