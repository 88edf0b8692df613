package entities

import (
	"fmt"
	"time"

	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

// DateLayout is the calendar-date format accepted by simulation parameters
const DateLayout = "2006-01-02"

// SimulationParams are the clinic policy knobs for a simulation run
type SimulationParams struct {
	Date                   string  `json:"date"`
	Doctors                int     `json:"doctors"`
	SlotsPerDay            int     `json:"slotsPerDay"`
	OverbookingPercentage  float64 `json:"overbookingPercentage"`
	AverageAppointmentTime float64 `json:"averageAppointmentTime"`
	ClinicHours            float64 `json:"clinicHours"`

	// Seed makes every stochastic draw in the run reproducible. Nil means
	// a time-derived seed.
	Seed *int64 `json:"seed,omitempty"`
}

// Validate checks the numeric parameter contract for a policy simulation
func (p *SimulationParams) Validate() error {
	if p.Date == "" {
		return apperrors.NewValidationError("date is required")
	}
	if _, err := time.Parse(DateLayout, p.Date); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid date %q (use YYYY-MM-DD)", p.Date))
	}
	if p.SlotsPerDay <= 0 {
		return apperrors.NewValidationError("slotsPerDay must be positive")
	}
	if p.OverbookingPercentage < 0 {
		return apperrors.NewValidationError("overbookingPercentage must not be negative")
	}
	return p.validateClinic()
}

// ValidateCohort checks the subset of parameters a cohort run uses
func (p *SimulationParams) ValidateCohort() error {
	return p.validateClinic()
}

func (p *SimulationParams) validateClinic() error {
	if p.Doctors <= 0 {
		return apperrors.NewValidationError("doctors must be positive")
	}
	if p.AverageAppointmentTime <= 0 {
		return apperrors.NewValidationError("averageAppointmentTime must be positive")
	}
	if p.ClinicHours <= 0 {
		return apperrors.NewValidationError("clinicHours must be positive")
	}
	return nil
}

// OperatingMinutes converts clinic hours to the simulation horizon in minutes
func (p *SimulationParams) OperatingMinutes() float64 {
	return p.ClinicHours * 60
}

// SimulationResult summarizes one clinic-day simulation run
type SimulationResult struct {
	AverageWaitTime        float64 `json:"averageWaitTime"`
	DoctorUtilization      float64 `json:"doctorUtilization"`
	PatientSatisfaction    float64 `json:"patientSatisfaction"`
	OverflowPatients       int     `json:"overflowPatients"`
	RecommendedOverbooking int     `json:"recommendedOverbooking"`
	NoShowRate             float64 `json:"noShowRate"`
}

// ProbabilityStats aggregates the scored probabilities behind a comparison
type ProbabilityStats struct {
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	LowRisk    int     `json:"lowRisk"`
	MediumRisk int     `json:"mediumRisk"`
	HighRisk   int     `json:"highRisk"`
}

// ComparisonResult pairs a simulation against historically observed
// attendance with one against model-predicted attendance for the same policy.
type ComparisonResult struct {
	Scheduled          int              `json:"scheduled"`
	ActualAttending    int              `json:"actualAttending"`
	PredictedAttending int              `json:"predictedAttending"`
	Actual             SimulationResult `json:"actual"`
	Predicted          SimulationResult `json:"predicted"`
	Probabilities      ProbabilityStats `json:"probabilities"`
}

// StrategyResult summarizes one candidate overbooking strategy
type StrategyResult struct {
	Strategy     string  `json:"strategy"`
	WaitTime     float64 `json:"waitTime"`
	Utilization  float64 `json:"utilization"`
	Satisfaction float64 `json:"satisfaction"`
}

// CohortResult is the consolidated outcome of a cohort-scoped simulation
type CohortResult struct {
	SimulationResult
	TotalPatients    int `json:"totalPatients"`
	HighRiskPatients int `json:"highRiskPatients"`
}
