package services

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// Column names must stay bit-for-bit identical to the offline training
// pipeline, or schema alignment silently zeroes real features.
const (
	colAge          = "Age"
	colScholarship  = "Scholarship"
	colHipertension = "Hipertension"
	colDiabetes     = "Diabetes"
	colAlcoholism   = "Alcoholism"
	colHandcap      = "Handcap"
	colSMSReceived  = "SMS_received"
	colDaysWait     = "Days_Wait"
	colDayOfWeek    = "Appointment_DayOfWeek"
	colMonth        = "Appointment_Month"
	colHour         = "Scheduled_Hour"
	colPastRate     = "Past_NoShow_Rate"
	colTotalAppts   = "Total_Appointments"
	colMissedBefore = "Missed_Before"
	colDaysSince    = "Days_Since_Last_Appt"
	colFrequency    = "Appointment_Frequency"

	genderPrefix        = "Gender_"
	neighbourhoodPrefix = "Neighbourhood_"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FeatureService turns raw appointment batches into the numeric feature table
// the classifier was trained on. It is a pure transformation: no I/O, no
// randomness, and re-running it on the same batch yields identical output.
type FeatureService struct{}

// NewFeatureService creates a new feature service
func NewFeatureService() *FeatureService {
	return &FeatureService{}
}

type featureRow struct {
	idx int
	rec *entities.AppointmentRecord

	scheduled     time.Time
	scheduledOK   bool
	appointment   time.Time
	appointmentOK bool

	waitDays  float64
	weekday   float64
	month     float64
	hour      float64
	outcome   float64
	pastRate  float64
	total     float64
	missed    float64
	daysSince float64
	frequency float64
}

// Build derives the feature table for a batch. Rows with negative age are
// excluded; unparseable timestamps propagate as NaN through the derived
// columns (the tree walker routes NaN like the training pipeline did).
// Output rows follow the original batch order, with Index mapping each row
// back to its batch position.
func (s *FeatureService) Build(batch []entities.AppointmentRecord) *entities.FeatureTable {
	rows := make([]*featureRow, 0, len(batch))
	for i := range batch {
		rec := &batch[i]
		if rec.Age < 0 {
			continue
		}
		row := &featureRow{idx: i, rec: rec}
		row.scheduled, row.scheduledOK = parseTimestamp(rec.ScheduledDay)
		row.appointment, row.appointmentOK = parseTimestamp(rec.AppointmentDay)
		rows = append(rows, row)
	}

	for _, row := range rows {
		if row.scheduledOK && row.appointmentOK {
			row.waitDays = daysBetween(row.scheduled, row.appointment)
		} else {
			row.waitDays = math.NaN()
		}
		if row.appointmentOK {
			// Monday=0 to match the training pipeline's weekday convention
			row.weekday = float64((int(row.appointment.Weekday()) + 6) % 7)
			row.month = float64(int(row.appointment.Month()))
		} else {
			row.weekday = math.NaN()
			row.month = math.NaN()
		}
		if row.scheduledOK {
			row.hour = float64(row.scheduled.Hour())
		} else {
			row.hour = math.NaN()
		}
		// Absent labels count as attended; the label never reaches the
		// classifier, it only feeds the behavioral aggregates below.
		if row.rec.IsNoShow() {
			row.outcome = 1
		}
	}

	// Behavioral aggregates are defined over (patient, scheduled time)
	// ascending; unparseable scheduled timestamps sort last per patient.
	sorted := make([]*featureRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.rec.PatientID != b.rec.PatientID {
			return a.rec.PatientID < b.rec.PatientID
		}
		if a.scheduledOK != b.scheduledOK {
			return a.scheduledOK
		}
		return a.scheduled.Before(b.scheduled)
	})
	s.applyBehavioralAggregates(sorted)

	return buildTable(rows)
}

// applyBehavioralAggregates fills the five history-derived features. Rows must
// arrive sorted by (patient, scheduled time); every aggregate except the
// batch-wide appointment count uses only rows strictly before the current one.
func (s *FeatureService) applyBehavioralAggregates(sorted []*featureRow) {
	// First/last appointment dates per patient for the frequency span.
	firstDate := make(map[string]time.Time)
	lastDate := make(map[string]time.Time)
	totals := make(map[string]int)
	for _, row := range sorted {
		id := row.rec.PatientID
		totals[id]++
		if !row.appointmentOK {
			continue
		}
		day := dateOf(row.appointment)
		if f, ok := firstDate[id]; !ok || day.Before(f) {
			firstDate[id] = day
		}
		if l, ok := lastDate[id]; !ok || day.After(l) {
			lastDate[id] = day
		}
	}

	var (
		currentPatient string
		priorCount     int
		priorNoShows   float64
		prevRow        *featureRow
	)
	for _, row := range sorted {
		id := row.rec.PatientID
		if id != currentPatient {
			currentPatient = id
			priorCount = 0
			priorNoShows = 0
			prevRow = nil
		}

		if priorCount > 0 {
			row.pastRate = priorNoShows / float64(priorCount)
		}
		if row.pastRate > 0 {
			row.missed = 1
		}
		if prevRow != nil && prevRow.appointmentOK && row.appointmentOK {
			row.daysSince = daysBetween(prevRow.appointment, row.appointment)
		}

		row.total = float64(totals[id])
		span := 1.0
		if f, ok := firstDate[id]; ok {
			span = daysBetween(f, lastDate[id]) + 1
			if span < 1 {
				span = 1
			}
		}
		row.frequency = row.total / span

		priorNoShows += row.outcome
		priorCount++
		prevRow = row
	}
}

func buildTable(rows []*featureRow) *entities.FeatureTable {
	genders := categoryLevels(rows, func(r *featureRow) string { return r.rec.Gender })
	neighbourhoods := categoryLevels(rows, func(r *featureRow) string { return r.rec.Neighbourhood })

	columns := []string{
		colAge, colScholarship, colHipertension, colDiabetes, colAlcoholism,
		colHandcap, colSMSReceived, colDaysWait, colDayOfWeek, colMonth,
		colHour, colPastRate, colTotalAppts, colMissedBefore, colDaysSince,
		colFrequency,
	}
	// One reference category per column is dropped, matching drop-first
	// encoding at training time.
	for _, g := range dropFirst(genders) {
		columns = append(columns, genderPrefix+g)
	}
	for _, n := range dropFirst(neighbourhoods) {
		columns = append(columns, neighbourhoodPrefix+n)
	}

	table := &entities.FeatureTable{
		Columns: columns,
		Index:   make([]int, len(rows)),
	}
	if len(rows) == 0 {
		// mat.NewDense rejects zero dimensions; an empty table carries no Data
		return table
	}

	data := mat.NewDense(len(rows), len(columns), nil)
	for i, row := range rows {
		table.Index[i] = row.idx
		rec := row.rec
		values := []float64{
			float64(rec.Age), float64(rec.Scholarship), float64(rec.Hipertension),
			float64(rec.Diabetes), float64(rec.Alcoholism), float64(rec.Handcap),
			float64(rec.SMSReceived), row.waitDays, row.weekday, row.month,
			row.hour, row.pastRate, row.total, row.missed, row.daysSince,
			row.frequency,
		}
		for _, g := range dropFirst(genders) {
			if rec.Gender == g {
				values = append(values, 1)
			} else {
				values = append(values, 0)
			}
		}
		for _, n := range dropFirst(neighbourhoods) {
			if rec.Neighbourhood == n {
				values = append(values, 1)
			} else {
				values = append(values, 0)
			}
		}
		data.SetRow(i, values)
	}
	table.Data = data
	return table
}

func categoryLevels(rows []*featureRow, get func(*featureRow) string) []string {
	seen := make(map[string]struct{})
	var levels []string
	for _, row := range rows {
		v := get(row)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)
	return levels
}

func dropFirst(levels []string) []string {
	if len(levels) <= 1 {
		return nil
	}
	return levels[1:]
}

func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole calendar days from a to b, negative when b
// precedes a. Wait days are deliberately not clamped: inconsistent source
// data surfaces as negative waits rather than being hidden.
func daysBetween(a, b time.Time) float64 {
	return dateOf(b).Sub(dateOf(a)).Hours() / 24
}
