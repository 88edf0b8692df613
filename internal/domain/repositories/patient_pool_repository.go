package repositories

import (
	"context"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// PatientPoolRepository exposes the pool of representative patient records
// used to build candidate cohorts for policy simulations. Records mirror the
// AppointmentRecord schema minus outcome labels.
type PatientPoolRepository interface {
	// List returns up to limit pool records; limit <= 0 means no cap.
	List(ctx context.Context, limit int) ([]entities.AppointmentRecord, error)
}
