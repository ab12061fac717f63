package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"runboard/internal/dashboard"
	"runboard/internal/database"
)

// DashboardHandler serves the aggregated dashboard API
type DashboardHandler struct {
	service *dashboard.Service
	db      *database.DB
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *dashboard.Service, db *database.DB) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		db:      db,
		logger:  slog.Default(),
	}
}

// HandleDashboard serves GET /api/dashboard
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.BuildDashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// HandleLastActivity serves GET /api/last-activity
func (h *DashboardHandler) HandleLastActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.service.LastActivity(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch last activity", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if activity == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "no activities found"})
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

// HandleHealth serves GET /api/health
func (h *DashboardHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(); err != nil {
		h.logger.Error("Health check failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
