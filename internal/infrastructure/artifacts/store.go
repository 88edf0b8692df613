package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

// Provider hands out the loaded model. Scoring services depend on this
// interface so tests can wire a model directly.
type Provider interface {
	Model() (*Model, error)
}

// Store lazily loads the trained artifact from disk exactly once and caches
// the outcome (model or error) for the lifetime of the process. The load
// error is deliberately sticky: a missing or incompatible artifact is only
// fixed by regenerating it externally and restarting.
type Store struct {
	path string

	once  sync.Once
	model *Model
	err   error
}

// NewStore creates a store reading from the given artifact path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Model returns the loaded artifact, loading it on first use
func (s *Store) Model() (*Model, error) {
	s.once.Do(func() {
		s.model, s.err = Load(s.path)
		if s.err != nil {
			log.Error().Err(s.err).Str("path", s.path).Msg("model artifact load failed")
			return
		}
		log.Info().
			Str("path", s.path).
			Str("model_type", s.model.ModelType).
			Int("features", len(s.model.Columns)).
			Bool("degraded", s.model.Degraded()).
			Msg("model artifact loaded")
	})
	return s.model, s.err
}

// Load reads and validates a model artifact from path. Error mapping follows
// the operator contract: a missing file means "train/deploy the artifact",
// anything else about its content means "regenerate it with a compatible
// exporter".
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewModelUnavailableError(
				fmt.Sprintf("model artifact not found at %s; export it from the training pipeline first", path), err)
		}
		return nil, apperrors.NewModelUnavailableError(
			fmt.Sprintf("model artifact at %s is unreadable", path), err)
	}

	var model Model
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, apperrors.NewArtifactIncompatibleError(
			fmt.Sprintf("model artifact at %s is not valid JSON; regenerate it", path), err)
	}

	if model.FormatVersion != SupportedFormatVersion {
		return nil, apperrors.NewArtifactIncompatibleError(
			fmt.Sprintf("model artifact format version %d is not supported (want %d); retrain with a matching exporter",
				model.FormatVersion, SupportedFormatVersion), nil)
	}
	if model.Ensemble == nil || len(model.Ensemble.Trees) == 0 {
		return nil, apperrors.NewArtifactIncompatibleError(
			fmt.Sprintf("model artifact at %s carries no trees", path), nil)
	}
	if model.Scaler != nil && len(model.Scaler.Mean) != len(model.Columns) {
		return nil, apperrors.NewArtifactIncompatibleError(
			fmt.Sprintf("scaler dimension %d does not match %d training columns",
				len(model.Scaler.Mean), len(model.Columns)), nil)
	}
	if model.Scaler != nil && len(model.Scaler.Scale) != len(model.Scaler.Mean) {
		return nil, apperrors.NewArtifactIncompatibleError(
			fmt.Sprintf("scaler scale length %d does not match mean length %d",
				len(model.Scaler.Scale), len(model.Scaler.Mean)), nil)
	}
	for i := range model.Ensemble.Trees {
		if err := model.Ensemble.Trees[i].validate(len(model.Columns)); err != nil {
			return nil, apperrors.NewArtifactIncompatibleError(
				fmt.Sprintf("model artifact at %s carries a malformed tree %d; regenerate it", path, i), err)
		}
	}

	if model.Degraded() {
		log.Warn().Str("path", path).Msg("artifact has no fitted standardizer; scoring will proceed unscaled")
	}

	return &model, nil
}
