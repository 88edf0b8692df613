package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/repositories"
)

// AttendanceFileAdapter serves the historical daily show/no-show aggregates
// from a JSON file exported alongside the model artifact. The file holds a
// map of YYYY-MM-DD dates to {"shows": n, "noShows": m} objects.
type AttendanceFileAdapter struct {
	byDate map[string]repositories.AttendanceCounts
	totals repositories.AttendanceCounts
}

type attendanceEntry struct {
	Shows   int `json:"shows"`
	NoShows int `json:"noShows"`
}

// NewAttendanceFileAdapter loads the aggregates from path
func NewAttendanceFileAdapter(path string) (*AttendanceFileAdapter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance dataset: %w", err)
	}

	var entries map[string]attendanceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode attendance dataset: %w", err)
	}

	adapter := &AttendanceFileAdapter{
		byDate: make(map[string]repositories.AttendanceCounts, len(entries)),
	}
	for date, e := range entries {
		counts := repositories.AttendanceCounts{Shows: e.Shows, NoShows: e.NoShows}
		adapter.byDate[date] = counts
		adapter.totals.Shows += e.Shows
		adapter.totals.NoShows += e.NoShows
	}
	return adapter, nil
}

// DailyCounts returns the aggregate for one calendar date
func (a *AttendanceFileAdapter) DailyCounts(ctx context.Context, date string) (repositories.AttendanceCounts, bool, error) {
	counts, found := a.byDate[date]
	return counts, found, nil
}

// Totals returns the dataset-wide aggregate
func (a *AttendanceFileAdapter) Totals(ctx context.Context) (repositories.AttendanceCounts, error) {
	return a.totals, nil
}
