package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/api/handlers"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

// MockRiskScorer mocks the batch scoring service
type MockRiskScorer struct {
	mock.Mock
}

func (m *MockRiskScorer) Score(ctx context.Context, batch []entities.AppointmentRecord) ([]entities.RiskAssessment, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RiskAssessment), args.Error(1)
}

func TestPredictionHandler_Predict(t *testing.T) {
	records := []entities.AppointmentRecord{
		{PatientID: "p1", AppointmentID: "a1", Gender: "F", Age: 30},
	}
	assessments := []entities.RiskAssessment{
		{PatientID: "p1", AppointmentID: "a1", NoShowProbability: 0.7, RiskLevel: entities.RiskLevelHigh},
	}

	t.Run("scores a batch from the request body", func(t *testing.T) {
		scorer := new(MockRiskScorer)
		handler := handlers.NewPredictionHandler(scorer, new(MockBatchStore), nil)

		scorer.On("Score", mock.Anything, records).Return(assessments, nil)

		body, _ := json.Marshal(map[string]interface{}{"patients": records})
		req := httptest.NewRequest("POST", "/api/predictions", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Predict(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Predictions []entities.RiskAssessment `json:"predictions"`
			Count       int                       `json:"count"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, entities.RiskLevelHigh, resp.Predictions[0].RiskLevel)
		scorer.AssertExpectations(t)
	})

	t.Run("falls back to the session working set", func(t *testing.T) {
		scorer := new(MockRiskScorer)
		store := new(MockBatchStore)
		handler := handlers.NewPredictionHandler(scorer, store, nil)

		store.On("Get", mock.Anything, "session-42").Return(records, nil)
		scorer.On("Score", mock.Anything, records).Return(assessments, nil)

		req := httptest.NewRequest("POST", "/api/predictions", nil)
		req.Header.Set(handlers.SessionHeader, "session-42")
		w := httptest.NewRecorder()

		handler.Predict(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
		scorer.AssertExpectations(t)
	})

	t.Run("requires a batch or a session", func(t *testing.T) {
		handler := handlers.NewPredictionHandler(new(MockRiskScorer), new(MockBatchStore), nil)

		req := httptest.NewRequest("POST", "/api/predictions", nil)
		w := httptest.NewRecorder()

		handler.Predict(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns not found when the session has no batch", func(t *testing.T) {
		store := new(MockBatchStore)
		handler := handlers.NewPredictionHandler(new(MockRiskScorer), store, nil)

		store.On("Get", mock.Anything, "session-42").Return(nil, nil)

		req := httptest.NewRequest("POST", "/api/predictions", nil)
		req.Header.Set(handlers.SessionHeader, "session-42")
		w := httptest.NewRecorder()

		handler.Predict(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("maps model unavailable to 503", func(t *testing.T) {
		scorer := new(MockRiskScorer)
		handler := handlers.NewPredictionHandler(scorer, new(MockBatchStore), nil)

		scorer.On("Score", mock.Anything, records).
			Return(nil, apperrors.NewModelUnavailableError("model artifact not found", nil))

		body, _ := json.Marshal(map[string]interface{}{"patients": records})
		req := httptest.NewRequest("POST", "/api/predictions", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Predict(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		scorer := new(MockRiskScorer)
		handler := handlers.NewPredictionHandler(scorer, new(MockBatchStore), nil)

		scorer.On("Score", mock.Anything, records).
			Return(nil, apperrors.NewValidationError("batch must not be empty"))

		body, _ := json.Marshal(map[string]interface{}{"patients": records})
		req := httptest.NewRequest("POST", "/api/predictions", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Predict(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
