package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/repositories"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/clients/postgres"
	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

// PatientPoolAdapter implements the PatientPoolRepository interface against
// the patient_pool table of representative appointment records
type PatientPoolAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientPoolAdapter creates a new patient pool adapter
func NewPatientPoolAdapter(client *postgres.Client) repositories.PatientPoolRepository {
	return &PatientPoolAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List returns up to limit pool records
func (a *PatientPoolAdapter) List(ctx context.Context, limit int) ([]entities.AppointmentRecord, error) {
	ds := a.db.Select(
		"patient_id", "appointment_id", "gender", "scheduled_day",
		"appointment_day", "age", "neighbourhood", "scholarship",
		"hipertension", "diabetes", "alcoholism", "handcap", "sms_received",
	).From("patient_pool").Order(goqu.I("appointment_id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patient pool query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query patient pool", err)
	}
	defer rows.Close()

	var records []entities.AppointmentRecord
	for rows.Next() {
		var rec entities.AppointmentRecord
		if err := rows.Scan(
			&rec.PatientID, &rec.AppointmentID, &rec.Gender, &rec.ScheduledDay,
			&rec.AppointmentDay, &rec.Age, &rec.Neighbourhood, &rec.Scholarship,
			&rec.Hipertension, &rec.Diabetes, &rec.Alcoholism, &rec.Handcap,
			&rec.SMSReceived,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient pool row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate patient pool rows", err)
	}

	return records, nil
}
