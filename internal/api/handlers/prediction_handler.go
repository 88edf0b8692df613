package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/observability"
)

// RiskScorer defines the interface for batch no-show scoring
type RiskScorer interface {
	Score(ctx context.Context, batch []entities.AppointmentRecord) ([]entities.RiskAssessment, error)
}

// PredictionHandler handles risk scoring requests
type PredictionHandler struct {
	scorer  RiskScorer
	store   BatchStore
	metrics *observability.Metrics
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(scorer RiskScorer, store BatchStore, metrics *observability.Metrics) *PredictionHandler {
	return &PredictionHandler{
		scorer:  scorer,
		store:   store,
		metrics: metrics,
	}
}

type predictionRequest struct {
	Patients []entities.AppointmentRecord `json:"patients"`
}

// Predict handles POST /api/predictions. The batch comes from the request
// body when present, otherwise from the session working set.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.resolveBatch(w, r)
	if !ok {
		return
	}

	start := time.Now()
	assessments, err := h.scorer.Score(r.Context(), batch)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if h.metrics != nil {
		observability.RecordPredictionMetric(r.Context(), h.metrics, len(batch), time.Since(start))
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": assessments,
		"count":       len(assessments),
	})
}

func (h *PredictionHandler) resolveBatch(w http.ResponseWriter, r *http.Request) ([]entities.AppointmentRecord, bool) {
	var req predictionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return nil, false
		}
	}
	if len(req.Patients) > 0 {
		return req.Patients, true
	}

	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "provide patients in the body or an X-Session-ID header")
		return nil, false
	}

	batch, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return nil, false
	}
	if len(batch) == 0 {
		respondWithError(w, http.StatusNotFound, "no patient batch uploaded for this session")
		return nil, false
	}
	return batch, true
}
