package services

import (
	"math"
	"math/rand"
)

// QueueOutcome captures one simulated clinic-day
type QueueOutcome struct {
	// AverageWait is the mean queueing delay in minutes across admitted
	// patients, 0 when nobody attended.
	AverageWait float64

	// Utilization is busy-doctor-minutes over available doctor-minutes,
	// as a percentage capped at 100.
	Utilization float64

	// Overflow is the attendance beyond the clinic's theoretical capacity
	// for the day.
	Overflow int
}

// ClinicQueueSimulator models one clinic-day as a FIFO queue of arriving
// patients served by a fixed pool of identical doctors. Patients arrive
// spread evenly across the operating window and each takes a service time
// drawn uniformly within ±20% of the average appointment length. The draws
// make this stochastic: callers needing reproducibility must seed the
// supplied random stream.
type ClinicQueueSimulator struct{}

// NewClinicQueueSimulator creates a new queue simulator
func NewClinicQueueSimulator() *ClinicQueueSimulator {
	return &ClinicQueueSimulator{}
}

// Run simulates attending patients through doctors over operatingMinutes.
// Patients already admitted keep their full wait and service even when it
// extends past the closing time.
func (s *ClinicQueueSimulator) Run(doctors, attending int, avgServiceMinutes, operatingMinutes float64, rng *rand.Rand) QueueOutcome {
	if doctors < 1 {
		doctors = 1
	}

	capacity := 0
	if avgServiceMinutes > 0 {
		capacity = int(math.Floor(float64(doctors) * operatingMinutes / avgServiceMinutes))
	}
	outcome := QueueOutcome{
		Overflow: maxInt(0, attending-capacity),
	}
	if attending <= 0 {
		return outcome
	}

	interval := operatingMinutes / float64(attending)

	// Earliest-free-doctor assignment; with FIFO arrivals this is exactly a
	// shared resource pool of size doctors.
	freeAt := make([]float64, doctors)
	totalWait := 0.0
	totalBusy := 0.0
	for i := 0; i < attending; i++ {
		arrival := float64(i) * interval

		idx := 0
		for d := 1; d < doctors; d++ {
			if freeAt[d] < freeAt[idx] {
				idx = d
			}
		}

		start := math.Max(arrival, freeAt[idx])
		service := avgServiceMinutes * (0.8 + 0.4*rng.Float64())

		totalWait += start - arrival
		totalBusy += service
		freeAt[idx] = start + service
	}

	outcome.AverageWait = totalWait / float64(attending)
	if operatingMinutes > 0 {
		outcome.Utilization = math.Min(100, totalBusy/(float64(doctors)*operatingMinutes)*100)
	}
	return outcome
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
