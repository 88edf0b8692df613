package entities

import (
	"gonum.org/v1/gonum/mat"
)

// FeatureTable is a numeric feature matrix keyed 1:1 to the surviving rows of
// an AppointmentRecord batch. Column order is meaningful: the downstream
// standardizer and classifier are both order-sensitive.
type FeatureTable struct {
	Columns []string

	// Data holds one row per retained record, len(Columns) values wide.
	Data *mat.Dense

	// Index maps each table row back to its position in the original batch.
	// Rows excluded during cleaning (negative age) have no entry.
	Index []int
}

// NumRows returns the number of feature rows
func (t *FeatureTable) NumRows() int {
	if t.Data == nil {
		return 0
	}
	r, _ := t.Data.Dims()
	return r
}

// ColumnIndex returns the position of the named column, or -1 if absent
func (t *FeatureTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's values, or nil if absent
func (t *FeatureTable) Column(name string) []float64 {
	idx := t.ColumnIndex(name)
	if idx < 0 || t.Data == nil {
		return nil
	}
	rows := t.NumRows()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = t.Data.At(i, idx)
	}
	return out
}
