package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/artifacts"
	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

type stubModelProvider struct {
	model *artifacts.Model
	err   error
}

func (s *stubModelProvider) Model() (*artifacts.Model, error) {
	return s.model, s.err
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// ageSplitModel predicts lowP for Age <= 30 and highP above, with no scaler.
func ageSplitModel(lowP, highP float64) *artifacts.Model {
	return &artifacts.Model{
		FormatVersion: artifacts.SupportedFormatVersion,
		ModelType:     "gradient_boosting",
		Columns:       []string{"Age"},
		Ensemble: &artifacts.Ensemble{
			InitScore:    0,
			LearningRate: 1,
			Trees: []artifacts.Tree{{
				Nodes: []artifacts.TreeNode{
					{Feature: 0, Threshold: 30, Left: 1, Right: 2},
					{Leaf: true, Value: logit(lowP)},
					{Leaf: true, Value: logit(highP)},
				},
			}},
		},
	}
}

func scoringBatch() []entities.AppointmentRecord {
	return []entities.AppointmentRecord{
		{PatientID: "p1", AppointmentID: "a1", Gender: "F", Age: 20,
			ScheduledDay: "2016-05-01T09:00:00Z", AppointmentDay: "2016-05-02T00:00:00Z"},
		{PatientID: "p2", AppointmentID: "a2", Gender: "M", Age: 50,
			ScheduledDay: "2016-05-01T10:00:00Z", AppointmentDay: "2016-05-03T00:00:00Z"},
	}
}

func TestPredictionServiceScore(t *testing.T) {
	provider := &stubModelProvider{model: ageSplitModel(0.2, 0.7)}
	svc := NewPredictionService(provider, NewFeatureService())

	assessments, err := svc.Score(context.Background(), scoringBatch())
	require.NoError(t, err)
	require.Len(t, assessments, 2)

	assert.Equal(t, "a1", assessments[0].AppointmentID)
	assert.InDelta(t, 0.2, assessments[0].NoShowProbability, 1e-9)
	assert.Equal(t, entities.RiskLevelLow, assessments[0].RiskLevel)

	assert.Equal(t, "a2", assessments[1].AppointmentID)
	assert.InDelta(t, 0.7, assessments[1].NoShowProbability, 1e-9)
	assert.Equal(t, entities.RiskLevelHigh, assessments[1].RiskLevel)
}

func TestPredictionServiceScore_BandBoundaries(t *testing.T) {
	tests := []struct {
		probability float64
		want        entities.RiskLevel
	}{
		{0.2999, entities.RiskLevelLow},
		{0.3, entities.RiskLevelMedium},
		{0.5999, entities.RiskLevelMedium},
		{0.6, entities.RiskLevelHigh},
	}

	for _, tt := range tests {
		provider := &stubModelProvider{model: ageSplitModel(tt.probability, tt.probability)}
		svc := NewPredictionService(provider, NewFeatureService())

		assessments, err := svc.Score(context.Background(), scoringBatch()[:1])
		require.NoError(t, err)
		require.Len(t, assessments, 1)
		assert.InDelta(t, tt.probability, assessments[0].NoShowProbability, 1e-9)
		assert.Equal(t, tt.want, assessments[0].RiskLevel)
	}
}

func TestPredictionServiceScore_ModelErrorPassthrough(t *testing.T) {
	provider := &stubModelProvider{err: apperrors.NewModelUnavailableError("artifact not found", nil)}
	svc := NewPredictionService(provider, NewFeatureService())

	_, err := svc.Score(context.Background(), scoringBatch())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeModelUnavailable))
}

func TestPredictionServiceScore_EmptyBatch(t *testing.T) {
	provider := &stubModelProvider{model: ageSplitModel(0.2, 0.7)}
	svc := NewPredictionService(provider, NewFeatureService())

	_, err := svc.Score(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestPredictionServiceScore_DroppedRowsProduceNoAssessment(t *testing.T) {
	provider := &stubModelProvider{model: ageSplitModel(0.2, 0.7)}
	svc := NewPredictionService(provider, NewFeatureService())

	batch := scoringBatch()
	batch[0].Age = -5

	assessments, err := svc.Score(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, assessments, 1)
	assert.Equal(t, "a2", assessments[0].AppointmentID)
}

func TestPredictionServiceScore_PreviousNoShows(t *testing.T) {
	provider := &stubModelProvider{model: ageSplitModel(0.2, 0.7)}
	svc := NewPredictionService(provider, NewFeatureService())

	batch := []entities.AppointmentRecord{
		{PatientID: "p1", AppointmentID: "a1", Gender: "F", Age: 20,
			ScheduledDay: "2016-05-01T09:00:00Z", AppointmentDay: "2016-05-02T00:00:00Z", NoShow: "Yes"},
		{PatientID: "p1", AppointmentID: "a2", Gender: "F", Age: 20,
			ScheduledDay: "2016-05-03T09:00:00Z", AppointmentDay: "2016-05-04T00:00:00Z", NoShow: "Yes"},
		{PatientID: "p2", AppointmentID: "a3", Gender: "M", Age: 50,
			ScheduledDay: "2016-05-01T10:00:00Z", AppointmentDay: "2016-05-03T00:00:00Z", NoShow: "No"},
	}

	assessments, err := svc.Score(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, assessments, 3)

	assert.Equal(t, 2, assessments[0].PreviousNoShows)
	assert.Equal(t, 2, assessments[1].PreviousNoShows)
	assert.Equal(t, 0, assessments[2].PreviousNoShows)
}

func TestPredictionServiceScore_UnlabeledBatchHasNoPriorCounts(t *testing.T) {
	provider := &stubModelProvider{model: ageSplitModel(0.2, 0.7)}
	svc := NewPredictionService(provider, NewFeatureService())

	assessments, err := svc.Score(context.Background(), scoringBatch())
	require.NoError(t, err)
	for _, a := range assessments {
		assert.Zero(t, a.PreviousNoShows)
	}
}

func TestPredictionServiceScore_DegradedArtifact(t *testing.T) {
	// No scaler and no recorded schema: alignment passes through and raw
	// features reach the trees directly.
	model := &artifacts.Model{
		FormatVersion: artifacts.SupportedFormatVersion,
		ModelType:     "gradient_boosting",
		Ensemble: &artifacts.Ensemble{
			LearningRate: 1,
			Trees: []artifacts.Tree{{
				Nodes: []artifacts.TreeNode{{Leaf: true, Value: logit(0.4)}},
			}},
		},
	}
	svc := NewPredictionService(&stubModelProvider{model: model}, NewFeatureService())

	assessments, err := svc.Score(context.Background(), scoringBatch())
	require.NoError(t, err)
	require.Len(t, assessments, 2)
	assert.InDelta(t, 0.4, assessments[0].NoShowProbability, 1e-9)
	assert.Equal(t, entities.RiskLevelMedium, assessments[0].RiskLevel)
}

func TestAlignToSchema(t *testing.T) {
	svc := NewFeatureService()
	table := svc.Build(scoringBatch())

	schema := []string{"Age", "Gender_M", "Unseen_Column"}
	aligned := alignToSchema(table, schema)

	require.Equal(t, schema, aligned.Columns)
	require.Equal(t, 2, aligned.NumRows())

	assert.Equal(t, 20.0, aligned.Data.At(0, 0))
	assert.Equal(t, 0.0, aligned.Data.At(0, 1))
	assert.Equal(t, 1.0, aligned.Data.At(1, 1))

	// Schema columns missing from the batch are injected as zeros.
	assert.Equal(t, 0.0, aligned.Data.At(0, 2))
	assert.Equal(t, 0.0, aligned.Data.At(1, 2))
}
