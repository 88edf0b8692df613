package entities

// RiskLevel is the coarse bucket derived from a no-show probability
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// Fixed banding thresholds. A probability of exactly 0.3 is Medium and
// exactly 0.6 is High.
const (
	HighRiskThreshold   = 0.6
	MediumRiskThreshold = 0.3
)

// RiskLevelFor maps a no-show probability to its risk band
func RiskLevelFor(probability float64) RiskLevel {
	switch {
	case probability >= HighRiskThreshold:
		return RiskLevelHigh
	case probability >= MediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// RiskAssessment is the per-appointment scoring output. Ephemeral: it lives
// only for the duration of the request that produced it.
type RiskAssessment struct {
	PatientID         string    `json:"patientId"`
	AppointmentID     string    `json:"appointmentId"`
	NoShowProbability float64   `json:"noShowProbability"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	PreviousNoShows   int       `json:"previousNoShows"`
}
