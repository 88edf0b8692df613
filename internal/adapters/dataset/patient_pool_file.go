package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// PatientPoolFileAdapter serves the representative patient pool from a JSON
// array of appointment records. Outcome labels, if present in the file, are
// stripped: the pool represents future patients whose outcome is unknown.
type PatientPoolFileAdapter struct {
	records []entities.AppointmentRecord
}

// NewPatientPoolFileAdapter loads the pool from path
func NewPatientPoolFileAdapter(path string) (*PatientPoolFileAdapter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patient pool: %w", err)
	}

	var records []entities.AppointmentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode patient pool: %w", err)
	}
	for i := range records {
		records[i].NoShow = ""
	}

	return &PatientPoolFileAdapter{records: records}, nil
}

// List returns up to limit pool records
func (a *PatientPoolFileAdapter) List(ctx context.Context, limit int) ([]entities.AppointmentRecord, error) {
	if limit <= 0 || limit >= len(a.records) {
		return a.records, nil
	}
	return a.records[:limit], nil
}
