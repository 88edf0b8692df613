package artifacts

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SupportedFormatVersion is the artifact schema this build can deserialize.
// Artifacts exported by a newer training pipeline fail loading with an
// incompatibility error instead of being silently mis-read.
const SupportedFormatVersion = 1

// Model is the immutable trained artifact: a gradient-boosted tree ensemble
// together with the standardizer fitted at training time and the ordered
// training column schema. Loaded once per process and shared read-only; a
// retrained artifact requires a restart to pick up.
type Model struct {
	FormatVersion int       `json:"formatVersion"`
	ModelType     string    `json:"modelType"`
	Columns       []string  `json:"featureColumns"`
	Scaler        *Scaler   `json:"scaler,omitempty"`
	Ensemble      *Ensemble `json:"ensemble"`
}

// Degraded reports whether the artifact lacks a fitted standardizer. Scoring
// then proceeds unscaled against the raw feature table.
func (m *Model) Degraded() bool {
	return m.Scaler == nil || len(m.Scaler.Mean) == 0
}

// Scaler is a fitted per-column standardizer: z = (x - mean) / scale
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes a feature matrix column-wise in place of a copy.
// Columns must already be aligned to the training schema order.
func (s *Scaler) Transform(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		mean, scale := 0.0, 1.0
		if j < len(s.Mean) {
			mean = s.Mean[j]
		}
		if j < len(s.Scale) && s.Scale[j] != 0 {
			scale = s.Scale[j]
		}
		for i := 0; i < rows; i++ {
			out.Set(i, j, (m.At(i, j)-mean)/scale)
		}
	}
	return out
}

// TreeNode is one node of a regression tree. Internal nodes split on
// feature <= threshold; NaN feature values always take the right branch.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// Tree is a flattened regression tree; node 0 is the root
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// validate walks the tree from the root and rejects structures Predict
// could not traverse safely: child or feature indices out of range, and
// nodes reachable twice (a cycle would make the walk non-terminating).
// featureCount 0 means the schema is unknown and only negative feature
// indices are rejected.
func (t *Tree) validate(featureCount int) error {
	if len(t.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}

	seen := make([]bool, len(t.Nodes))
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if idx < 0 || idx >= len(t.Nodes) {
			return fmt.Errorf("child index %d out of range for %d nodes", idx, len(t.Nodes))
		}
		if seen[idx] {
			return fmt.Errorf("node %d is reachable more than once", idx)
		}
		seen[idx] = true

		node := &t.Nodes[idx]
		if node.Leaf {
			continue
		}
		if node.Feature < 0 || (featureCount > 0 && node.Feature >= featureCount) {
			return fmt.Errorf("node %d splits on feature %d outside the %d-column schema",
				idx, node.Feature, featureCount)
		}
		stack = append(stack, node.Left, node.Right)
	}
	return nil
}

// Predict walks the tree for one feature row
func (t *Tree) Predict(row []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	node := &t.Nodes[0]
	for !node.Leaf {
		v := row[node.Feature]
		if !math.IsNaN(v) && v <= node.Threshold {
			node = &t.Nodes[node.Left]
		} else {
			node = &t.Nodes[node.Right]
		}
	}
	return node.Value
}

// Ensemble is a binary gradient-boosting classifier over regression trees.
// The raw score is InitScore + LearningRate * sum(tree outputs); the positive
// ("no-show") class probability is the sigmoid of that score.
type Ensemble struct {
	InitScore    float64 `json:"initScore"`
	LearningRate float64 `json:"learningRate"`
	Trees        []Tree  `json:"trees"`
}

// PredictProbability returns the positive-class probability per matrix row
func (e *Ensemble) PredictProbability(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	probs := make([]float64, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, m)
		score := e.InitScore
		for t := range e.Trees {
			score += e.LearningRate * e.Trees[t].Predict(row)
		}
		probs[i] = sigmoid(score)
	}
	return probs
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
