package services

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/artifacts"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/observability"
	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

// PredictionService scores appointment batches with the trained classifier.
// Scoring is all-or-nothing per batch: a broken artifact refuses the whole
// batch, because silently mis-scoring a subset is worse than failing.
type PredictionService struct {
	model    artifacts.Provider
	features *FeatureService
}

// NewPredictionService creates a new prediction service
func NewPredictionService(model artifacts.Provider, features *FeatureService) *PredictionService {
	return &PredictionService{
		model:    model,
		features: features,
	}
}

// Score derives features for the batch, aligns them to the training schema,
// and returns one assessment per retained record in original batch order.
// Rows dropped during cleaning (negative age) produce no assessment.
func (s *PredictionService) Score(ctx context.Context, batch []entities.AppointmentRecord) ([]entities.RiskAssessment, error) {
	logger := observability.LoggerFromContext(ctx)

	model, err := s.model.Model()
	if err != nil {
		return nil, err
	}

	if len(batch) == 0 {
		return nil, apperrors.NewValidationError("patient batch is empty")
	}

	table := s.features.Build(batch)
	aligned := alignToSchema(table, model.Columns)
	if aligned.NumRows() == 0 {
		return []entities.RiskAssessment{}, nil
	}

	matrix := aligned.Data
	if model.Scaler != nil {
		matrix = model.Scaler.Transform(matrix)
	} else {
		logger.Warn().Msg("scoring unscaled: artifact has no fitted standardizer")
	}

	probs := model.Ensemble.PredictProbability(matrix)

	priorNoShows := map[string]int{}
	if entities.BatchHasOutcomes(batch) {
		for i := range batch {
			if batch[i].IsNoShow() {
				priorNoShows[batch[i].PatientID]++
			}
		}
	}

	assessments := make([]entities.RiskAssessment, len(probs))
	for i, p := range probs {
		rec := &batch[aligned.Index[i]]
		assessments[i] = entities.RiskAssessment{
			PatientID:         rec.PatientID,
			AppointmentID:     rec.AppointmentID,
			NoShowProbability: p,
			RiskLevel:         entities.RiskLevelFor(p),
			PreviousNoShows:   priorNoShows[rec.PatientID],
		}
	}

	logger.Info().
		Int("batch", len(batch)).
		Int("scored", len(assessments)).
		Bool("degraded", model.Degraded()).
		Msg("batch scored")

	return assessments, nil
}

// alignToSchema reconciles an inference-time feature table against the fixed
// training column schema: training columns missing from the input are
// injected as zeros (categories unseen in this batch), input columns absent
// from the schema are dropped (categories unseen at training time), and the
// result follows the schema order exactly. An empty schema means the
// standardizer could not be fitted at training time; alignment is then a
// no-op and the table passes through as built.
func alignToSchema(table *entities.FeatureTable, schema []string) *entities.FeatureTable {
	if len(schema) == 0 {
		return table
	}

	position := make(map[string]int, len(table.Columns))
	for i, c := range table.Columns {
		position[c] = i
	}

	rows := table.NumRows()
	aligned := &entities.FeatureTable{
		Columns: append([]string(nil), schema...),
		Index:   table.Index,
	}
	if rows == 0 {
		return aligned
	}

	data := mat.NewDense(rows, len(schema), nil)
	for j, name := range schema {
		src, ok := position[name]
		if !ok {
			continue // injected as zero
		}
		for i := 0; i < rows; i++ {
			data.Set(i, j, table.Data.At(i, src))
		}
	}

	aligned.Data = data
	return aligned
}
