package evaluation

import (
	"context"
	"time"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// DefaultDecisionThreshold is the probability above which a prediction counts
// as a no-show for classification metrics.
const DefaultDecisionThreshold = 0.5

type RiskScoreProvider interface {
	Score(ctx context.Context, batch []entities.AppointmentRecord) ([]entities.RiskAssessment, error)
}

// Runner evaluates a scorer against a labeled holdout set.
type Runner struct {
	scorer    RiskScoreProvider
	threshold float64
}

func NewRunner(scorer RiskScoreProvider) *Runner {
	return &Runner{scorer: scorer, threshold: DefaultDecisionThreshold}
}

// NewRunnerWithThreshold builds a runner with a custom decision threshold.
func NewRunnerWithThreshold(scorer RiskScoreProvider, threshold float64) *Runner {
	return &Runner{scorer: scorer, threshold: threshold}
}

func (r *Runner) Run(ctx context.Context, records []entities.AppointmentRecord) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalRecords: len(records),
		ByRisk:       make(map[entities.RiskLevel]*RiskBandSummary),
	}
	if len(records) == 0 {
		return summary, nil
	}

	start := time.Now()
	assessments, err := r.scorer.Score(ctx, records)
	duration := time.Since(start)
	if err != nil {
		return nil, err
	}

	// Assessments come back in batch order but may skip records the
	// feature pipeline dropped, so join on appointment id.
	outcomes := make(map[string]bool, len(records))
	for _, rec := range records {
		outcomes[rec.AppointmentID] = rec.IsNoShow()
	}

	var matrix ConfusionMatrix
	probabilities := make([]float64, 0, len(assessments))
	observed := make([]bool, 0, len(assessments))

	for _, a := range assessments {
		noShow, ok := outcomes[a.AppointmentID]
		if !ok {
			continue
		}

		probabilities = append(probabilities, a.NoShowProbability)
		observed = append(observed, noShow)

		predicted := a.NoShowProbability >= r.threshold
		switch {
		case predicted && noShow:
			matrix.TruePositives++
		case predicted && !noShow:
			matrix.FalsePositives++
		case !predicted && noShow:
			matrix.FalseNegatives++
		default:
			matrix.TrueNegatives++
		}

		band, bandOK := summary.ByRisk[a.RiskLevel]
		if !bandOK {
			band = &RiskBandSummary{}
			summary.ByRisk[a.RiskLevel] = band
		}
		band.Count++
		band.AvgProbability += a.NoShowProbability
		if noShow {
			band.ObservedNoShowRate++
		}
	}

	summary.Scored = len(probabilities)
	summary.Accuracy = matrix.Accuracy()
	summary.Precision = matrix.Precision()
	summary.Recall = matrix.Recall()
	summary.F1 = matrix.F1()
	summary.BrierScore = BrierScore(probabilities, observed)
	summary.AvgLatency = duration

	for _, band := range summary.ByRisk {
		if band.Count > 0 {
			n := float64(band.Count)
			band.AvgProbability /= n
			band.ObservedNoShowRate /= n
		}
	}

	return summary, nil
}
