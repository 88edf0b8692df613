package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/observability"
)

// ClinicSimulator defines the interface for clinic-day simulations
type ClinicSimulator interface {
	SimulatePolicy(ctx context.Context, params entities.SimulationParams) (*entities.ComparisonResult, error)
	SimulateCohort(ctx context.Context, params entities.SimulationParams, batch []entities.AppointmentRecord) (*entities.CohortResult, error)
}

// SimulationHandler handles simulation requests
type SimulationHandler struct {
	simulator ClinicSimulator
	store     BatchStore
	defaults  entities.SimulationParams
	metrics   *observability.Metrics
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(simulator ClinicSimulator, store BatchStore, defaults entities.SimulationParams, metrics *observability.Metrics) *SimulationHandler {
	return &SimulationHandler{
		simulator: simulator,
		store:     store,
		defaults:  defaults,
		metrics:   metrics,
	}
}

// Simulate handles POST /api/simulation
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeParams(w, r)
	if !ok {
		return
	}

	result, err := h.simulator.SimulatePolicy(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if h.metrics != nil {
		observability.RecordSimulationMetric(r.Context(), h.metrics, "policy")
	}

	respondWithJSON(w, http.StatusOK, result)
}

// SimulateCohort handles POST /api/simulation/cohort
func (h *SimulationHandler) SimulateCohort(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeParams(w, r)
	if !ok {
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "X-Session-ID header is required")
		return
	}

	batch, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	result, err := h.simulator.SimulateCohort(r.Context(), params, batch)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if h.metrics != nil {
		observability.RecordSimulationMetric(r.Context(), h.metrics, "cohort")
	}

	respondWithJSON(w, http.StatusOK, result)
}

// decodeParams merges request overrides onto the configured clinic defaults
func (h *SimulationHandler) decodeParams(w http.ResponseWriter, r *http.Request) (entities.SimulationParams, bool) {
	params := h.defaults
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return params, false
		}
	}
	return params, true
}
