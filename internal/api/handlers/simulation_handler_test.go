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

// MockClinicSimulator mocks the simulation service
type MockClinicSimulator struct {
	mock.Mock
}

func (m *MockClinicSimulator) SimulatePolicy(ctx context.Context, params entities.SimulationParams) (*entities.ComparisonResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ComparisonResult), args.Error(1)
}

func (m *MockClinicSimulator) SimulateCohort(ctx context.Context, params entities.SimulationParams, batch []entities.AppointmentRecord) (*entities.CohortResult, error) {
	args := m.Called(ctx, params, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CohortResult), args.Error(1)
}

func defaultParams() entities.SimulationParams {
	return entities.SimulationParams{
		Doctors:                3,
		SlotsPerDay:            20,
		OverbookingPercentage:  10,
		AverageAppointmentTime: 30,
		ClinicHours:            8,
	}
}

func TestSimulationHandler_Simulate(t *testing.T) {
	t.Run("merges body overrides onto defaults", func(t *testing.T) {
		sim := new(MockClinicSimulator)
		handler := handlers.NewSimulationHandler(sim, new(MockBatchStore), defaultParams(), nil)

		expected := defaultParams()
		expected.Date = "2026-09-01"
		expected.Doctors = 5

		sim.On("SimulatePolicy", mock.Anything, expected).
			Return(&entities.ComparisonResult{Scheduled: 22}, nil)

		body := bytes.NewBufferString(`{"date": "2026-09-01", "doctors": 5}`)
		req := httptest.NewRequest("POST", "/api/simulation", body)
		w := httptest.NewRecorder()

		handler.Simulate(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp entities.ComparisonResult
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 22, resp.Scheduled)
		sim.AssertExpectations(t)
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		handler := handlers.NewSimulationHandler(new(MockClinicSimulator), new(MockBatchStore), defaultParams(), nil)

		req := httptest.NewRequest("POST", "/api/simulation", bytes.NewBufferString("{bad"))
		w := httptest.NewRecorder()

		handler.Simulate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		sim := new(MockClinicSimulator)
		handler := handlers.NewSimulationHandler(sim, new(MockBatchStore), defaultParams(), nil)

		sim.On("SimulatePolicy", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewValidationError("date is required"))

		req := httptest.NewRequest("POST", "/api/simulation", nil)
		w := httptest.NewRecorder()

		handler.Simulate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSimulationHandler_SimulateCohort(t *testing.T) {
	records := []entities.AppointmentRecord{
		{PatientID: "p1", AppointmentID: "a1"},
	}

	t.Run("runs a cohort simulation over the session batch", func(t *testing.T) {
		sim := new(MockClinicSimulator)
		store := new(MockBatchStore)
		handler := handlers.NewSimulationHandler(sim, store, defaultParams(), nil)

		store.On("Get", mock.Anything, "session-42").Return(records, nil)
		sim.On("SimulateCohort", mock.Anything, defaultParams(), records).
			Return(&entities.CohortResult{TotalPatients: 1}, nil)

		req := httptest.NewRequest("POST", "/api/simulation/cohort", nil)
		req.Header.Set(handlers.SessionHeader, "session-42")
		w := httptest.NewRecorder()

		handler.SimulateCohort(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp entities.CohortResult
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.TotalPatients)
		sim.AssertExpectations(t)
	})

	t.Run("requires the session header", func(t *testing.T) {
		handler := handlers.NewSimulationHandler(new(MockClinicSimulator), new(MockBatchStore), defaultParams(), nil)

		req := httptest.NewRequest("POST", "/api/simulation/cohort", nil)
		w := httptest.NewRecorder()

		handler.SimulateCohort(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
