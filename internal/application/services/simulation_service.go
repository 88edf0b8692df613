package services

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/repositories"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/observability"
)

// Probability clipping bounds for cohort attendance estimates. Degenerate 0/1
// probabilities would otherwise dominate the expected-attendance sum.
const (
	cohortProbabilityFloor = 0.05
	cohortProbabilityCeil  = 0.6
)

// defaultShowRate is assumed when no historical attendance data is available
const defaultShowRate = 0.8

// SimulationService orchestrates policy simulations: it scores a candidate
// cohort, simulates the clinic-day under historically observed attendance and
// under model-predicted attendance, and reconciles the pair into a
// comparison with an overbooking recommendation for each run.
type SimulationService struct {
	prediction  *PredictionService
	attendance  repositories.AttendanceRepository
	pool        repositories.PatientPoolRepository
	queue       *ClinicQueueSimulator
	recommender *OverbookingRecommender
}

// NewSimulationService creates a new simulation service
func NewSimulationService(
	prediction *PredictionService,
	attendance repositories.AttendanceRepository,
	pool repositories.PatientPoolRepository,
) *SimulationService {
	return &SimulationService{
		prediction:  prediction,
		attendance:  attendance,
		pool:        pool,
		queue:       NewClinicQueueSimulator(),
		recommender: NewOverbookingRecommender(),
	}
}

// SimulatePolicy runs the actual-vs-predicted comparison for one policy
func (s *SimulationService) SimulatePolicy(ctx context.Context, params entities.SimulationParams) (*entities.ComparisonResult, error) {
	logger := observability.LoggerFromContext(ctx)

	if err := params.Validate(); err != nil {
		return nil, err
	}

	scheduled := int(float64(params.SlotsPerDay) * (1 + params.OverbookingPercentage/100))
	showRate, err := s.historicalShowRate(ctx, params.Date)
	if err != nil {
		return nil, err
	}
	actualAttending := int(math.Round(float64(scheduled) * showRate))

	rng := newRand(params.Seed)

	probs, err := s.scoreCandidates(ctx, scheduled, rng)
	if err != nil {
		return nil, err
	}
	expectedAttending := expectedAttendance(probs)

	// The two runs share no state; give each its own stream so parallel
	// draws stay uncorrelated.
	rngActual := rand.New(rand.NewSource(rng.Int63()))
	rngPredicted := rand.New(rand.NewSource(rng.Int63()))

	var (
		wg        sync.WaitGroup
		actual    entities.SimulationResult
		predicted entities.SimulationResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		actual = s.runOnce(params, scheduled, actualAttending, (1-showRate)*100, rngActual)
	}()
	go func() {
		defer wg.Done()
		predicted = s.runOnce(params, scheduled, expectedAttending, meanPercent(probs), rngPredicted)
	}()
	wg.Wait()

	result := &entities.ComparisonResult{
		Scheduled:          scheduled,
		ActualAttending:    actualAttending,
		PredictedAttending: expectedAttending,
		Actual:             actual,
		Predicted:          predicted,
		Probabilities:      probabilityStats(probs),
	}

	logger.Info().
		Str("date", params.Date).
		Int("scheduled", scheduled).
		Int("actual_attending", actualAttending).
		Int("predicted_attending", expectedAttending).
		Msg("policy simulation complete")

	return result, nil
}

// SimulateCohort scores a known patient batch and runs a single consolidated
// simulation on its expected attendance. Probabilities are clipped into
// [0.05, 0.6] before aggregation. An empty batch yields an all-zero result,
// not an error.
func (s *SimulationService) SimulateCohort(ctx context.Context, params entities.SimulationParams, batch []entities.AppointmentRecord) (*entities.CohortResult, error) {
	if len(batch) == 0 {
		return &entities.CohortResult{}, nil
	}
	if err := params.ValidateCohort(); err != nil {
		return nil, err
	}

	assessments, err := s.prediction.Score(ctx, batch)
	if err != nil {
		return nil, err
	}

	clipped := make([]float64, len(assessments))
	highRisk := 0
	for i, a := range assessments {
		clipped[i] = clip(a.NoShowProbability, cohortProbabilityFloor, cohortProbabilityCeil)
		if clipped[i] >= entities.HighRiskThreshold {
			highRisk++
		}
	}

	scheduled := len(batch)
	attending := expectedAttendance(clipped)
	rng := newRand(params.Seed)

	result := s.runOnce(params, scheduled, attending, meanPercent(clipped), rng)

	return &entities.CohortResult{
		SimulationResult: result,
		TotalPatients:    len(batch),
		HighRiskPatients: highRisk,
	}, nil
}

// runOnce simulates one clinic-day and derives satisfaction and the
// overbooking recommendation from it
func (s *SimulationService) runOnce(params entities.SimulationParams, scheduled, attending int, noShowRatePct float64, rng *rand.Rand) entities.SimulationResult {
	outcome := s.queue.Run(params.Doctors, attending, params.AverageAppointmentTime, params.OperatingMinutes(), rng)

	overflowRate := 0.0
	if scheduled > 0 {
		overflowRate = float64(outcome.Overflow) / float64(scheduled)
	}

	waitPenalty := math.Min(40, outcome.AverageWait/30*40)
	overflowPenalty := math.Min(60, overflowRate*60)
	satisfaction := 100 - waitPenalty - overflowPenalty

	return entities.SimulationResult{
		AverageWaitTime:        round1(outcome.AverageWait),
		DoctorUtilization:      round1(outcome.Utilization),
		PatientSatisfaction:    round1(satisfaction),
		OverflowPatients:       outcome.Overflow,
		RecommendedOverbooking: s.recommender.Recommend(outcome.Utilization, overflowRate, params.OverbookingPercentage, params.AverageAppointmentTime),
		NoShowRate:             round1(noShowRatePct),
	}
}

// historicalShowRate resolves the show rate for a date from the daily
// aggregates, falling back to the dataset-wide totals and finally to a fixed
// default when no attendance data is wired at all.
func (s *SimulationService) historicalShowRate(ctx context.Context, date string) (float64, error) {
	if s.attendance == nil {
		return defaultShowRate, nil
	}

	counts, found, err := s.attendance.DailyCounts(ctx, date)
	if err != nil {
		return 0, err
	}
	if !found {
		counts, err = s.attendance.Totals(ctx)
		if err != nil {
			return 0, err
		}
	}

	rate, ok := counts.ShowRate()
	if !ok {
		return defaultShowRate, nil
	}
	return rate, nil
}

// scoreCandidates draws a candidate cohort from the pool and returns its
// no-show probabilities. Sampling is without replacement when the pool can
// cover the schedule, with replacement otherwise. An empty or missing pool
// yields no probabilities: expected attendance then degrades to zero.
func (s *SimulationService) scoreCandidates(ctx context.Context, scheduled int, rng *rand.Rand) ([]float64, error) {
	if s.pool == nil || scheduled <= 0 {
		return nil, nil
	}

	pool, err := s.pool.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	var sample []entities.AppointmentRecord
	if len(pool) >= scheduled {
		for _, idx := range rng.Perm(len(pool))[:scheduled] {
			sample = append(sample, pool[idx])
		}
	} else {
		for i := 0; i < len(pool); i++ {
			sample = append(sample, pool[rng.Intn(len(pool))])
		}
	}

	assessments, err := s.prediction.Score(ctx, sample)
	if err != nil {
		return nil, err
	}

	probs := make([]float64, len(assessments))
	for i, a := range assessments {
		probs[i] = a.NoShowProbability
	}
	return probs, nil
}

// expectedAttendance is the rounded sum of per-patient show probabilities
func expectedAttendance(probs []float64) int {
	sum := 0.0
	for _, p := range probs {
		sum += 1 - p
	}
	return int(math.Round(sum))
}

func probabilityStats(probs []float64) entities.ProbabilityStats {
	if len(probs) == 0 {
		return entities.ProbabilityStats{}
	}

	mean, _ := stats.Mean(probs)
	median, _ := stats.Median(probs)

	result := entities.ProbabilityStats{Mean: mean, Median: median}
	for _, p := range probs {
		switch entities.RiskLevelFor(p) {
		case entities.RiskLevelHigh:
			result.HighRisk++
		case entities.RiskLevelMedium:
			result.MediumRisk++
		default:
			result.LowRisk++
		}
	}
	return result
}

func meanPercent(probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	mean, _ := stats.Mean(probs)
	return mean * 100
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
