package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/adapters/cache"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/adapters/database"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/adapters/dataset"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/api/handlers"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/api/routes"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/application/services"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/providers"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/repositories"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/artifacts"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/clients/postgres"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/clients/redis"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/observability"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Cache: Redis when reachable, in-process fallback otherwise
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable; using in-memory session store")
		cacheProvider = cache.NewMemoryAdapter()
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	// Historical attendance and patient pool: database when configured,
	// exported dataset files otherwise
	var attendanceRepo repositories.AttendanceRepository
	var poolRepo repositories.PatientPoolRepository
	if cfg.Database.Enabled {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()
		attendanceRepo = database.NewAttendanceAdapter(pgClient)
		poolRepo = database.NewPatientPoolAdapter(pgClient)
		logger.Info().Msg("PostgreSQL client initialized")
	} else {
		attendanceAdapter, err := dataset.NewAttendanceFileAdapter(cfg.Model.AttendancePath)
		if err != nil {
			logger.Warn().Err(err).Msg("attendance dataset unavailable; simulations fall back to the default show rate")
		} else {
			attendanceRepo = attendanceAdapter
		}

		poolAdapter, err := dataset.NewPatientPoolFileAdapter(cfg.Model.PatientPoolPath)
		if err != nil {
			logger.Warn().Err(err).Msg("patient pool dataset unavailable; policy simulations disabled until uploaded")
		} else {
			poolRepo = poolAdapter
		}
	}

	// Model artifact loads lazily on first scoring request
	modelStore := artifacts.NewStore(cfg.Model.ArtifactPath)

	// Initialize services
	featureService := services.NewFeatureService()
	predictionService := services.NewPredictionService(modelStore, featureService)
	simulationService := services.NewSimulationService(predictionService, attendanceRepo, poolRepo)

	defaults := entities.SimulationParams{
		Doctors:                cfg.Simulation.Doctors,
		SlotsPerDay:            cfg.Simulation.SlotsPerDay,
		OverbookingPercentage:  cfg.Simulation.OverbookingPercentage,
		AverageAppointmentTime: cfg.Simulation.AverageAppointmentTime,
		ClinicHours:            cfg.Simulation.ClinicHours,
	}
	analyticsService := services.NewAnalyticsService(simulationService, defaults)

	sessionTTL := time.Duration(cfg.Simulation.SessionTTLSeconds) * time.Second
	batchStore := services.NewPatientBatchStore(cacheProvider, sessionTTL)

	// Initialize handlers
	patientHandler := handlers.NewPatientHandler(batchStore)
	predictionHandler := handlers.NewPredictionHandler(predictionService, batchStore, metrics)
	simulationHandler := handlers.NewSimulationHandler(simulationService, batchStore, defaults, metrics)
	dashboardHandler := handlers.NewDashboardHandler(analyticsService, batchStore, defaults)

	// Set up router
	router := routes.NewRouter(
		patientHandler,
		predictionHandler,
		simulationHandler,
		dashboardHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
