package evaluation

import (
	"time"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// EvalSummary holds aggregate model quality metrics across a labeled
// holdout set.
type EvalSummary struct {
	TotalRecords int           `json:"totalRecords"`
	Scored       int           `json:"scored"`
	Accuracy     float64       `json:"accuracy"`
	Precision    float64       `json:"precision"`
	Recall       float64       `json:"recall"`
	F1           float64       `json:"f1"`
	BrierScore   float64       `json:"brierScore"`
	AvgLatency   time.Duration `json:"avgLatencyNs"`

	ByRisk map[entities.RiskLevel]*RiskBandSummary `json:"byRisk"`
}

// RiskBandSummary holds metrics grouped by predicted risk band. A calibrated
// model keeps ObservedNoShowRate close to AvgProbability within each band.
type RiskBandSummary struct {
	Count              int     `json:"count"`
	AvgProbability     float64 `json:"avgProbability"`
	ObservedNoShowRate float64 `json:"observedNoShowRate"`
}

// ConfusionMatrix counts classification outcomes at a fixed decision
// threshold, treating no-show as the positive class.
type ConfusionMatrix struct {
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
}

// Total returns the number of classified records.
func (m ConfusionMatrix) Total() int {
	return m.TruePositives + m.FalsePositives + m.TrueNegatives + m.FalseNegatives
}
