package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfusionMatrixMetrics(t *testing.T) {
	m := ConfusionMatrix{
		TruePositives:  30,
		FalsePositives: 10,
		TrueNegatives:  50,
		FalseNegatives: 10,
	}

	assert.Equal(t, 100, m.Total())
	assert.InDelta(t, 0.80, m.Accuracy(), 1e-9)
	assert.InDelta(t, 0.75, m.Precision(), 1e-9)
	assert.InDelta(t, 0.75, m.Recall(), 1e-9)
	assert.InDelta(t, 0.75, m.F1(), 1e-9)
}

func TestConfusionMatrixEmpty(t *testing.T) {
	var m ConfusionMatrix

	assert.Zero(t, m.Accuracy())
	assert.Zero(t, m.Precision())
	assert.Zero(t, m.Recall())
	assert.Zero(t, m.F1())
}

func TestConfusionMatrixNoPositives(t *testing.T) {
	m := ConfusionMatrix{TrueNegatives: 10}

	assert.InDelta(t, 1.0, m.Accuracy(), 1e-9)
	assert.Zero(t, m.Precision())
	assert.Zero(t, m.Recall())
	assert.Zero(t, m.F1())
}

func TestBrierScore(t *testing.T) {
	probs := []float64{1.0, 0.0, 0.5, 0.5}
	noShow := []bool{true, false, true, false}

	// Two perfect predictions contribute 0, the two 0.5s contribute 0.25 each.
	assert.InDelta(t, 0.125, BrierScore(probs, noShow), 1e-9)
}

func TestBrierScoreEmptyOrMismatched(t *testing.T) {
	assert.Zero(t, BrierScore(nil, nil))
	assert.Zero(t, BrierScore([]float64{0.5}, []bool{true, false}))
}
