package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/providers"
)

const batchKeyPrefix = "patient_batch:"

// PatientBatchStore keeps each session's uploaded appointment batch in the
// cache for the lifetime of the working set. Nothing here outlives the TTL;
// durable persistence stays a non-goal.
type PatientBatchStore struct {
	cache providers.CacheProvider
	ttl   time.Duration
}

// NewPatientBatchStore creates a new batch store
func NewPatientBatchStore(cache providers.CacheProvider, ttl time.Duration) *PatientBatchStore {
	return &PatientBatchStore{
		cache: cache,
		ttl:   ttl,
	}
}

// Save stores the batch under the session
func (s *PatientBatchStore) Save(ctx context.Context, sessionID string, batch []entities.AppointmentRecord) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode patient batch: %w", err)
	}
	if err := s.cache.Set(ctx, batchKeyPrefix+sessionID, payload, s.ttl); err != nil {
		return fmt.Errorf("failed to store patient batch: %w", err)
	}
	return nil
}

// Get returns the session's batch, or nil when none is stored
func (s *PatientBatchStore) Get(ctx context.Context, sessionID string) ([]entities.AppointmentRecord, error) {
	payload, err := s.cache.Get(ctx, batchKeyPrefix+sessionID)
	if errors.Is(err, providers.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load patient batch: %w", err)
	}

	var batch []entities.AppointmentRecord
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode patient batch: %w", err)
	}
	return batch, nil
}

// Clear drops the session's batch
func (s *PatientBatchStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, batchKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("failed to clear patient batch: %w", err)
	}
	return nil
}
