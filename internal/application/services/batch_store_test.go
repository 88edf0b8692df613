package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/adapters/cache"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

func TestPatientBatchStore_RoundTrip(t *testing.T) {
	store := NewPatientBatchStore(cache.NewMemoryAdapter(), time.Minute)
	ctx := context.Background()

	batch := []entities.AppointmentRecord{
		{PatientID: "p1", AppointmentID: "a1", Gender: "F", Age: 30, NoShow: "No"},
		{PatientID: "p2", AppointmentID: "a2", Gender: "M", Age: 45},
	}

	require.NoError(t, store.Save(ctx, "session-1", batch))

	loaded, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, batch, loaded)
}

func TestPatientBatchStore_AbsentSession(t *testing.T) {
	store := NewPatientBatchStore(cache.NewMemoryAdapter(), time.Minute)

	loaded, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPatientBatchStore_Clear(t *testing.T) {
	store := NewPatientBatchStore(cache.NewMemoryAdapter(), time.Minute)
	ctx := context.Background()

	batch := []entities.AppointmentRecord{{PatientID: "p1", AppointmentID: "a1"}}
	require.NoError(t, store.Save(ctx, "session-1", batch))
	require.NoError(t, store.Clear(ctx, "session-1"))

	loaded, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPatientBatchStore_SessionsAreIsolated(t *testing.T) {
	store := NewPatientBatchStore(cache.NewMemoryAdapter(), time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", []entities.AppointmentRecord{{PatientID: "p1", AppointmentID: "a1"}}))
	require.NoError(t, store.Save(ctx, "s2", []entities.AppointmentRecord{{PatientID: "p2", AppointmentID: "a2"}}))

	first, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "p1", first[0].PatientID)
}
