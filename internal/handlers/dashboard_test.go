package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"runboard/internal/config"
	"runboard/internal/dashboard"
	"runboard/internal/database"
	"runboard/internal/strava"
)

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) AccessToken(ctx context.Context) (string, error) {
	return f.token, f.err
}

type fakeActivities struct {
	activities []strava.Activity
	err        error
}

func (f *fakeActivities) ListActivities(ctx context.Context, accessToken string, perPage int, after int64) ([]strava.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if after > 0 {
		return nil, nil
	}
	return f.activities, nil
}

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupHandler(t *testing.T, tokens *fakeTokens, activities *fakeActivities) *DashboardHandler {
	t.Helper()
	service := dashboard.NewService(tokens, activities, nil, &config.Config{})
	return NewDashboardHandler(service, setupTestDB(t))
}

func TestHandleDashboard(t *testing.T) {
	handler := setupHandler(t,
		&fakeTokens{token: "test_token"},
		&fakeActivities{activities: []strava.Activity{
			{ID: 42, Name: "Morning Run", Type: "Run", Distance: 5000, MovingTime: 1500},
		}})

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handler.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}

	var payload dashboard.Payload
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload.LastActivity == nil || payload.LastActivity.ID != 42 {
		t.Errorf("Expected lastActivity 42, got %+v", payload.LastActivity)
	}
	if payload.WeeklySummary == nil {
		t.Error("Expected weekly summary in payload")
	}
}

func TestHandleDashboardUpstreamError(t *testing.T) {
	handler := setupHandler(t,
		&fakeTokens{token: "test_token"},
		&fakeActivities{err: errors.New("server error (500)")})

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handler.HandleDashboard(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["error"] == "" {
		t.Error("Expected error field in response body")
	}
}

func TestHandleDashboardNotAuthorized(t *testing.T) {
	handler := setupHandler(t,
		&fakeTokens{err: errors.New("no stored credentials: complete the authorization flow first")},
		&fakeActivities{})

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handler.HandleDashboard(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
}

func TestHandleLastActivity(t *testing.T) {
	handler := setupHandler(t,
		&fakeTokens{token: "test_token"},
		&fakeActivities{activities: []strava.Activity{
			{ID: 7, Name: "Evening Run", Type: "Run", Distance: 10000, MovingTime: 3000},
		}})

	req := httptest.NewRequest("GET", "/api/last-activity", nil)
	w := httptest.NewRecorder()
	handler.HandleLastActivity(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var activity dashboard.Activity
	if err := json.NewDecoder(w.Body).Decode(&activity); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if activity.ID != 7 {
		t.Errorf("Expected activity 7, got %d", activity.ID)
	}
	if activity.PacePerKm != "5:00" {
		t.Errorf("Expected pace 5:00, got %s", activity.PacePerKm)
	}
}

func TestHandleLastActivityNone(t *testing.T) {
	handler := setupHandler(t,
		&fakeTokens{token: "test_token"},
		&fakeActivities{})

	req := httptest.NewRequest("GET", "/api/last-activity", nil)
	w := httptest.NewRecorder()
	handler.HandleLastActivity(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["message"] != "no activities found" {
		t.Errorf("Expected no-activities message, got %q", body["message"])
	}
}

func TestHandleHealth(t *testing.T) {
	handler := setupHandler(t, &fakeTokens{token: "test_token"}, &fakeActivities{})

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	handler.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}
