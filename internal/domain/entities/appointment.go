package entities

// Outcome values carried on historical appointment records. The raw dataset
// encodes attendance as "No" (attended) and "Yes" (did not show).
const (
	OutcomeNoShow   = "Yes"
	OutcomeAttended = "No"
)

// AppointmentRecord represents one scheduled clinic visit as ingested from the
// upstream dataset. Timestamps stay raw strings here; parsing (and the
// handling of unparseable values) belongs to the feature builder. Records are
// immutable once ingested.
type AppointmentRecord struct {
	PatientID      string `json:"patientId"`
	AppointmentID  string `json:"appointmentId"`
	Gender         string `json:"gender"`
	ScheduledDay   string `json:"scheduledDay"`
	AppointmentDay string `json:"appointmentDay"`
	Age            int    `json:"age"`
	Neighbourhood  string `json:"neighbourhood"`
	Scholarship    int    `json:"scholarship"`
	Hipertension   int    `json:"hipertension"`
	Diabetes       int    `json:"diabetes"`
	Alcoholism     int    `json:"alcoholism"`
	Handcap        int    `json:"handcap"`
	SMSReceived    int    `json:"smsReceived"`

	// NoShow is the historical outcome label ("Yes"/"No"), empty for pure
	// inference batches where the ground truth is unknown.
	NoShow string `json:"noShow,omitempty"`
}

// HasOutcome reports whether the record carries a historical outcome label
func (r *AppointmentRecord) HasOutcome() bool {
	return r.NoShow == OutcomeNoShow || r.NoShow == OutcomeAttended
}

// IsNoShow reports whether the record is a labeled no-show
func (r *AppointmentRecord) IsNoShow() bool {
	return r.NoShow == OutcomeNoShow
}

// BatchHasOutcomes reports whether any record in the batch carries a label.
// Behavioral aggregates treat unlabeled batches as all-attended; the prior
// no-show counts on assessments are only meaningful when this returns true.
func BatchHasOutcomes(batch []AppointmentRecord) bool {
	for i := range batch {
		if batch[i].HasOutcome() {
			return true
		}
	}
	return false
}
