package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAttendanceFileAdapter_DailyCounts(t *testing.T) {
	path := writeTempFile(t, "attendance.json", `{
		"2016-05-02": {"shows": 80, "noShows": 20},
		"2016-05-03": {"shows": 45, "noShows": 5}
	}`)

	adapter, err := NewAttendanceFileAdapter(path)
	require.NoError(t, err)

	counts, found, err := adapter.DailyCounts(context.Background(), "2016-05-02")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 80, counts.Shows)
	assert.Equal(t, 20, counts.NoShows)

	rate, ok := counts.ShowRate()
	assert.True(t, ok)
	assert.InDelta(t, 0.8, rate, 1e-9)

	_, found, err = adapter.DailyCounts(context.Background(), "2016-05-04")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAttendanceFileAdapter_Totals(t *testing.T) {
	path := writeTempFile(t, "attendance.json", `{
		"2016-05-02": {"shows": 80, "noShows": 20},
		"2016-05-03": {"shows": 40, "noShows": 10}
	}`)

	adapter, err := NewAttendanceFileAdapter(path)
	require.NoError(t, err)

	totals, err := adapter.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, totals.Shows)
	assert.Equal(t, 30, totals.NoShows)
	assert.Equal(t, 150, totals.Total())
}

func TestAttendanceFileAdapter_Errors(t *testing.T) {
	_, err := NewAttendanceFileAdapter(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeTempFile(t, "bad.json", `{not json`)
	_, err = NewAttendanceFileAdapter(path)
	assert.Error(t, err)
}

func TestPatientPoolFileAdapter_List(t *testing.T) {
	path := writeTempFile(t, "pool.json", `[
		{"patientId": "p1", "appointmentId": "a1", "gender": "F", "age": 34, "noShow": "Yes"},
		{"patientId": "p2", "appointmentId": "a2", "gender": "M", "age": 51},
		{"patientId": "p3", "appointmentId": "a3", "gender": "F", "age": 8}
	]`)

	adapter, err := NewPatientPoolFileAdapter(path)
	require.NoError(t, err)

	all, err := adapter.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p1", all[0].PatientID)
	assert.Empty(t, all[0].NoShow, "pool records must not carry outcome labels")

	limited, err := adapter.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	over, err := adapter.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, over, 3)
}
