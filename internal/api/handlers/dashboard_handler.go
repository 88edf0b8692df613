package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/application/services"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// DashboardProvider defines the aggregate views the dashboard needs
type DashboardProvider interface {
	Metrics(ctx context.Context, batch []entities.AppointmentRecord) (*services.DashboardMetrics, error)
	WeeklyPerformance(ctx context.Context, batch []entities.AppointmentRecord) []services.WeekdaySummary
	DashboardInsights(ctx context.Context, batch []entities.AppointmentRecord) *services.Insights
	CompareStrategies(ctx context.Context, params entities.SimulationParams) ([]entities.StrategyResult, error)
}

// DashboardHandler handles dashboard aggregate requests
type DashboardHandler struct {
	analytics DashboardProvider
	store     BatchStore
	defaults  entities.SimulationParams
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analytics DashboardProvider, store BatchStore, defaults entities.SimulationParams) *DashboardHandler {
	return &DashboardHandler{
		analytics: analytics,
		store:     store,
		defaults:  defaults,
	}
}

// Metrics handles GET /api/dashboard/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.sessionBatch(w, r)
	if !ok {
		return
	}

	metrics, err := h.analytics.Metrics(r.Context(), batch)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

// Weekly handles GET /api/dashboard/weekly
func (h *DashboardHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.sessionBatch(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"weeklyData": h.analytics.WeeklyPerformance(r.Context(), batch),
	})
}

// Insights handles GET /api/dashboard/insights
func (h *DashboardHandler) Insights(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.sessionBatch(w, r)
	if !ok {
		return
	}

	insights := h.analytics.DashboardInsights(r.Context(), batch)
	if insights == nil {
		// Keep the zero state an object so clients never parse a bare null
		insights = &services.Insights{}
	}
	respondWithJSON(w, http.StatusOK, insights)
}

// Strategies handles GET /api/dashboard/strategies
func (h *DashboardHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	params := h.defaults
	if date := r.URL.Query().Get("date"); date != "" {
		params.Date = date
	}
	if params.Date == "" {
		params.Date = time.Now().Format(entities.DateLayout)
	}

	strategies, err := h.analytics.CompareStrategies(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": strategies,
	})
}

// sessionBatch loads the session working set; an absent session yields an
// empty batch so the dashboard can render its zero state.
func (h *DashboardHandler) sessionBatch(w http.ResponseWriter, r *http.Request) ([]entities.AppointmentRecord, bool) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		return nil, true
	}

	batch, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return nil, false
	}
	return batch, true
}
