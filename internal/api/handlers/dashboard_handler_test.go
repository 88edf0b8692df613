package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/api/handlers"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/application/services"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// MockDashboardProvider mocks the analytics aggregates
type MockDashboardProvider struct {
	mock.Mock
}

func (m *MockDashboardProvider) Metrics(ctx context.Context, batch []entities.AppointmentRecord) (*services.DashboardMetrics, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardMetrics), args.Error(1)
}

func (m *MockDashboardProvider) WeeklyPerformance(ctx context.Context, batch []entities.AppointmentRecord) []services.WeekdaySummary {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]services.WeekdaySummary)
}

func (m *MockDashboardProvider) DashboardInsights(ctx context.Context, batch []entities.AppointmentRecord) *services.Insights {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*services.Insights)
}

func (m *MockDashboardProvider) CompareStrategies(ctx context.Context, params entities.SimulationParams) ([]entities.StrategyResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.StrategyResult), args.Error(1)
}

func TestDashboardHandler_Insights(t *testing.T) {
	t.Run("empty working set renders an object, not null", func(t *testing.T) {
		analytics := new(MockDashboardProvider)
		store := new(MockBatchStore)
		handler := handlers.NewDashboardHandler(analytics, store, entities.SimulationParams{})

		analytics.On("DashboardInsights", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest("GET", "/api/dashboard/insights", nil)
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{}`, w.Body.String())
		analytics.AssertExpectations(t)
	})

	t.Run("returns the session highlights", func(t *testing.T) {
		batch := []entities.AppointmentRecord{
			{PatientID: "p1", AppointmentID: "a1", AppointmentDay: "2016-05-02"},
		}
		analytics := new(MockDashboardProvider)
		store := new(MockBatchStore)
		handler := handlers.NewDashboardHandler(analytics, store, entities.SimulationParams{})

		store.On("Get", mock.Anything, "session-7").Return(batch, nil)
		analytics.On("DashboardInsights", mock.Anything, batch).Return(&services.Insights{
			PeakDay: &services.DayInsight{Day: "Monday", Appointments: 3},
		})

		req := httptest.NewRequest("GET", "/api/dashboard/insights", nil)
		req.Header.Set(handlers.SessionHeader, "session-7")
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp services.Insights
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Monday", resp.PeakDay.Day)
		assert.Equal(t, 3, resp.PeakDay.Appointments)
		store.AssertExpectations(t)
		analytics.AssertExpectations(t)
	})
}
