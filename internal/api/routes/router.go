package routes

import (
	"net/http"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/api/handlers"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/api/middleware"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	patientHandler    *handlers.PatientHandler
	predictionHandler *handlers.PredictionHandler
	simulationHandler *handlers.SimulationHandler
	dashboardHandler  *handlers.DashboardHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	patientHandler *handlers.PatientHandler,
	predictionHandler *handlers.PredictionHandler,
	simulationHandler *handlers.SimulationHandler,
	dashboardHandler *handlers.DashboardHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		patientHandler:    patientHandler,
		predictionHandler: predictionHandler,
		simulationHandler: simulationHandler,
		dashboardHandler:  dashboardHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Working-set endpoints
	r.mux.HandleFunc("POST /api/patients", r.patientHandler.UploadBatch)
	r.mux.HandleFunc("POST /api/clear", r.patientHandler.ClearSession)

	// Prediction endpoint
	r.mux.HandleFunc("POST /api/predictions", r.predictionHandler.Predict)

	// Simulation endpoints
	r.mux.HandleFunc("POST /api/simulation", r.simulationHandler.Simulate)
	r.mux.HandleFunc("POST /api/simulation/cohort", r.simulationHandler.SimulateCohort)

	// Dashboard endpoints
	r.mux.HandleFunc("GET /api/dashboard/metrics", r.dashboardHandler.Metrics)
	r.mux.HandleFunc("GET /api/dashboard/weekly", r.dashboardHandler.Weekly)
	r.mux.HandleFunc("GET /api/dashboard/insights", r.dashboardHandler.Insights)
	r.mux.HandleFunc("GET /api/dashboard/strategies", r.dashboardHandler.Strategies)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so error responses also carry CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
