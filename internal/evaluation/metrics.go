package evaluation

// Accuracy computes the fraction of records classified correctly.
// Returns 0.0 for an empty matrix.
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0.0
	}
	return float64(m.TruePositives+m.TrueNegatives) / float64(total)
}

// Precision computes the fraction of predicted no-shows that actually missed.
// Returns 0.0 when nothing was predicted positive.
func (m ConfusionMatrix) Precision() float64 {
	predicted := m.TruePositives + m.FalsePositives
	if predicted == 0 {
		return 0.0
	}
	return float64(m.TruePositives) / float64(predicted)
}

// Recall computes the fraction of actual no-shows the model caught.
// Returns 0.0 when the holdout has no positive records.
func (m ConfusionMatrix) Recall() float64 {
	actual := m.TruePositives + m.FalseNegatives
	if actual == 0 {
		return 0.0
	}
	return float64(m.TruePositives) / float64(actual)
}

// F1 computes the harmonic mean of precision and recall.
func (m ConfusionMatrix) F1() float64 {
	p := m.Precision()
	r := m.Recall()
	if p+r == 0 {
		return 0.0
	}
	return 2 * p * r / (p + r)
}

// BrierScore computes the mean squared error between predicted probabilities
// and observed outcomes (1 for no-show, 0 for attended). Lower is better.
// Returns 0.0 for empty input.
func BrierScore(probabilities []float64, noShow []bool) float64 {
	if len(probabilities) == 0 || len(probabilities) != len(noShow) {
		return 0.0
	}

	sum := 0.0
	for i, p := range probabilities {
		outcome := 0.0
		if noShow[i] {
			outcome = 1.0
		}
		diff := p - outcome
		sum += diff * diff
	}
	return sum / float64(len(probabilities))
}
