package repositories

import (
	"context"
)

// AttendanceCounts holds observed show/no-show totals
type AttendanceCounts struct {
	Shows   int
	NoShows int
}

// Total returns the number of observed appointments
func (c AttendanceCounts) Total() int {
	return c.Shows + c.NoShows
}

// ShowRate returns the attended fraction, or ok=false when nothing was observed
func (c AttendanceCounts) ShowRate() (rate float64, ok bool) {
	total := c.Total()
	if total == 0 {
		return 0, false
	}
	return float64(c.Shows) / float64(total), true
}

// AttendanceRepository exposes the historical daily show/no-show aggregates
// supplied by the offline dataset
type AttendanceRepository interface {
	// DailyCounts returns the aggregate for one calendar date (YYYY-MM-DD).
	// found is false when the date is absent from the dataset.
	DailyCounts(ctx context.Context, date string) (counts AttendanceCounts, found bool, err error)

	// Totals returns the dataset-wide aggregate, used as the fallback when a
	// requested date is absent.
	Totals(ctx context.Context) (AttendanceCounts, error)
}
