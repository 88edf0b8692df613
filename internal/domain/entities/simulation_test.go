package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validParams() SimulationParams {
	return SimulationParams{
		Date:                   "2026-09-01",
		Doctors:                3,
		SlotsPerDay:            20,
		OverbookingPercentage:  10,
		AverageAppointmentTime: 30,
		ClinicHours:            8,
	}
}

func TestSimulationParamsValidate(t *testing.T) {
	valid := validParams()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*SimulationParams)
	}{
		{"missing date", func(p *SimulationParams) { p.Date = "" }},
		{"malformed date", func(p *SimulationParams) { p.Date = "01/09/2026" }},
		{"zero slots", func(p *SimulationParams) { p.SlotsPerDay = 0 }},
		{"negative overbooking", func(p *SimulationParams) { p.OverbookingPercentage = -1 }},
		{"zero doctors", func(p *SimulationParams) { p.Doctors = 0 }},
		{"zero appointment time", func(p *SimulationParams) { p.AverageAppointmentTime = 0 }},
		{"zero clinic hours", func(p *SimulationParams) { p.ClinicHours = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestSimulationParamsValidateCohort(t *testing.T) {
	// Cohort runs need no date or slot count; the batch is the schedule.
	p := validParams()
	p.Date = ""
	p.SlotsPerDay = 0
	assert.NoError(t, p.ValidateCohort())

	p.Doctors = 0
	assert.Error(t, p.ValidateCohort())
}

func TestOperatingMinutes(t *testing.T) {
	p := validParams()
	assert.Equal(t, 480.0, p.OperatingMinutes())
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, RiskLevelLow, RiskLevelFor(0))
	assert.Equal(t, RiskLevelLow, RiskLevelFor(0.2999))
	assert.Equal(t, RiskLevelMedium, RiskLevelFor(0.3))
	assert.Equal(t, RiskLevelMedium, RiskLevelFor(0.5999))
	assert.Equal(t, RiskLevelHigh, RiskLevelFor(0.6))
	assert.Equal(t, RiskLevelHigh, RiskLevelFor(1))
}

func TestBatchHasOutcomes(t *testing.T) {
	assert.False(t, BatchHasOutcomes(nil))
	assert.False(t, BatchHasOutcomes([]AppointmentRecord{{PatientID: "p1"}}))
	assert.True(t, BatchHasOutcomes([]AppointmentRecord{
		{PatientID: "p1"},
		{PatientID: "p2", NoShow: OutcomeNoShow},
	}))
}
