package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// LoadHoldoutRecords reads a labeled holdout set from a JSON file.
func LoadHoldoutRecords(path string) ([]entities.AppointmentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdout file: %w", err)
	}

	var records []entities.AppointmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse holdout records: %w", err)
	}

	return records, nil
}

// ValidateHoldoutRecords checks that every record carries the identifiers and
// outcome label the evaluation needs.
func ValidateHoldoutRecords(records []entities.AppointmentRecord) error {
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		if rec.PatientID == "" {
			return fmt.Errorf("record at index %d: missing patientId", i)
		}
		if rec.AppointmentID == "" {
			return fmt.Errorf("record at index %d: missing appointmentId", i)
		}
		if _, dup := seen[rec.AppointmentID]; dup {
			return fmt.Errorf("record at index %d: duplicate appointmentId %q", i, rec.AppointmentID)
		}
		seen[rec.AppointmentID] = struct{}{}

		if rec.NoShow != entities.OutcomeNoShow && rec.NoShow != entities.OutcomeAttended {
			return fmt.Errorf("record %q: invalid outcome label %q (must be %q or %q)",
				rec.AppointmentID, rec.NoShow, entities.OutcomeNoShow, entities.OutcomeAttended)
		}
	}

	return nil
}
