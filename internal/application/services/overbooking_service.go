package services

import (
	"math"
)

// Overbooking recommendation bounds, in percentage points
const (
	overbookingStep = 5
	overbookingMax  = 30

	saturationUtilization  = 90.0
	spareUtilization       = 70.0
	longAppointmentMinutes = 45.0
)

// OverbookingRecommender maps a simulated clinic-day back to an adjusted
// overbooking percentage. Pure decision logic, first matching rule wins.
type OverbookingRecommender struct{}

// NewOverbookingRecommender creates a new recommender
func NewOverbookingRecommender() *OverbookingRecommender {
	return &OverbookingRecommender{}
}

// Recommend returns the adjusted overbooking percentage for the observed
// utilization (percent), overflow rate (overflow/scheduled) and current
// policy. Results are integers after truncation.
func (r *OverbookingRecommender) Recommend(utilization, overflowRate, currentPct, avgAppointmentMinutes float64) int {
	switch {
	case utilization > saturationUtilization && avgAppointmentMinutes >= longAppointmentMinutes:
		// Long-appointment clinics at saturation should not overbook at all
		return 0
	case overflowRate > 0:
		return int(math.Max(0, currentPct-overbookingStep))
	case utilization < spareUtilization:
		return int(math.Min(overbookingMax, currentPct+overbookingStep))
	case utilization > saturationUtilization:
		return int(math.Max(0, currentPct-overbookingStep))
	default:
		return int(currentPct)
	}
}
