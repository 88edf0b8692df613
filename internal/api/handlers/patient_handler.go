package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

// SessionHeader carries the client's working-set identifier. Requests
// without it get a fresh session assigned in the response.
const SessionHeader = "X-Session-ID"

// maxBatchSize bounds a single upload; larger working sets should be split
const maxBatchSize = 50000

// BatchStore defines the session working-set operations the handler needs
type BatchStore interface {
	Save(ctx context.Context, sessionID string, batch []entities.AppointmentRecord) error
	Get(ctx context.Context, sessionID string) ([]entities.AppointmentRecord, error)
	Clear(ctx context.Context, sessionID string) error
}

// PatientHandler handles working-set upload and lifecycle requests
type PatientHandler struct {
	store BatchStore
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(store BatchStore) *PatientHandler {
	return &PatientHandler{store: store}
}

type uploadRequest struct {
	Patients []entities.AppointmentRecord `json:"patients"`
}

// UploadBatch handles POST /api/patients
func (h *PatientHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if len(req.Patients) == 0 {
		respondWithError(w, http.StatusBadRequest, "patients must not be empty")
		return
	}
	if len(req.Patients) > maxBatchSize {
		respondWithError(w, http.StatusBadRequest, "batch exceeds maximum size")
		return
	}

	sessionID := sessionIDFrom(r)
	if err := h.store.Save(r.Context(), sessionID, req.Patients); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId": sessionID,
		"count":     len(req.Patients),
	})
}

// ClearSession handles POST /api/clear
func (h *PatientHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "X-Session-ID header is required")
		return
	}

	if err := h.store.Clear(r.Context(), sessionID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "cleared",
	})
}

// sessionIDFrom returns the request's session id, minting one if absent
func sessionIDFrom(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps typed application errors to HTTP statuses
func respondWithServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeModelUnavailable:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		case apperrors.ErrorTypeArtifactIncompatible:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
