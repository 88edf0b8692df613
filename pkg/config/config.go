package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Model      ModelConfig
	Simulation SimulationConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Enabled  bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ModelConfig holds trained-artifact configuration
type ModelConfig struct {
	// ArtifactPath points at the versioned JSON artifact exported by the
	// offline training pipeline (classifier + fitted standardizer).
	ArtifactPath string

	// AttendancePath and PatientPoolPath are file-based fallbacks used when
	// the database is not configured.
	AttendancePath  string
	PatientPoolPath string
}

// SimulationConfig holds default clinic policy knobs
type SimulationConfig struct {
	Doctors                int
	SlotsPerDay            int
	OverbookingPercentage  float64
	AverageAppointmentTime float64
	ClinicHours            float64
	SessionTTLSeconds      int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "clinic_optimizer"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Enabled:  getEnvAsBool("DB_ENABLED", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Model: ModelConfig{
			ArtifactPath:    getEnv("MODEL_ARTIFACT_PATH", "model/models/gradient_boosting.json"),
			AttendancePath:  getEnv("ATTENDANCE_DATA_PATH", "model/data/daily_attendance.json"),
			PatientPoolPath: getEnv("PATIENT_POOL_PATH", "model/data/patient_pool.json"),
		},
		Simulation: SimulationConfig{
			Doctors:                getEnvAsInt("SIM_DOCTORS", 3),
			SlotsPerDay:            getEnvAsInt("SIM_SLOTS_PER_DAY", 20),
			OverbookingPercentage:  getEnvAsFloat("SIM_OVERBOOKING_PCT", 10),
			AverageAppointmentTime: getEnvAsFloat("SIM_AVG_APPOINTMENT_MIN", 30),
			ClinicHours:            getEnvAsFloat("SIM_CLINIC_HOURS", 8),
			SessionTTLSeconds:      getEnvAsInt("SESSION_TTL_SECONDS", 3600),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "clinic-appointment-optimizer"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
