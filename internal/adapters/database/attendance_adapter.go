package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/repositories"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/clients/postgres"
	apperrors "github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/errors"
)

// AttendanceAdapter implements the AttendanceRepository interface against the
// daily_attendance table loaded from the historical dataset
type AttendanceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAttendanceAdapter creates a new attendance adapter
func NewAttendanceAdapter(client *postgres.Client) repositories.AttendanceRepository {
	return &AttendanceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// DailyCounts returns the show/no-show aggregate for one calendar date
func (a *AttendanceAdapter) DailyCounts(ctx context.Context, date string) (repositories.AttendanceCounts, bool, error) {
	query, args, err := a.db.Select("shows", "no_shows").
		From("daily_attendance").
		Where(goqu.Ex{"appointment_date": date}).
		ToSQL()
	if err != nil {
		return repositories.AttendanceCounts{}, false, apperrors.NewInternalError("failed to build attendance query", err)
	}

	var counts repositories.AttendanceCounts
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&counts.Shows, &counts.NoShows)
	if err == sql.ErrNoRows {
		return repositories.AttendanceCounts{}, false, nil
	}
	if err != nil {
		return repositories.AttendanceCounts{}, false, apperrors.NewInternalError("failed to query daily attendance", err)
	}
	return counts, true, nil
}

// Totals returns the dataset-wide show/no-show aggregate
func (a *AttendanceAdapter) Totals(ctx context.Context) (repositories.AttendanceCounts, error) {
	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.SUM("shows"), 0).As("shows"),
		goqu.COALESCE(goqu.SUM("no_shows"), 0).As("no_shows"),
	).From("daily_attendance").ToSQL()
	if err != nil {
		return repositories.AttendanceCounts{}, apperrors.NewInternalError("failed to build attendance totals query", err)
	}

	var counts repositories.AttendanceCounts
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&counts.Shows, &counts.NoShows); err != nil {
		return repositories.AttendanceCounts{}, apperrors.NewInternalError("failed to query attendance totals", err)
	}
	return counts, nil
}
