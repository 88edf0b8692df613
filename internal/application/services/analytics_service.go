package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
)

// Weekday labels in clinic-week order, Monday first
var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdaySummary aggregates one weekday across the working set
type WeekdaySummary struct {
	Day          string  `json:"day"`
	Appointments int     `json:"appointments"`
	NoShows      int     `json:"noShows"`
	WaitTime     float64 `json:"waitTime"`
}

// DashboardMetrics is the consolidated dashboard view of a working set
type DashboardMetrics struct {
	TotalPatients       int     `json:"totalPatients"`
	HighRiskPatients    int     `json:"highRiskPatients"`
	AverageWaitTime     float64 `json:"averageWaitTime"`
	DoctorUtilization   float64 `json:"doctorUtilization"`
	PatientSatisfaction float64 `json:"patientSatisfaction"`
	NoShowRate          float64 `json:"noShowRate"`
	OptimalOverbooking  int     `json:"optimalOverbooking"`
}

// DayInsight points at a notable weekday
type DayInsight struct {
	Day          string  `json:"day"`
	Appointments int     `json:"appointments,omitempty"`
	Count        int     `json:"count,omitempty"`
	Rate         float64 `json:"rate,omitempty"`
}

// Insights are the dashboard's quick highlights; nil fields mean no data
type Insights struct {
	PeakDay        *DayInsight `json:"peakDay,omitempty"`
	LowestNoShows  *DayInsight `json:"lowestNoShows,omitempty"`
	HighestNoShows *DayInsight `json:"highestNoShows,omitempty"`
}

// AnalyticsService derives dashboard aggregates from the session working set.
// Everything routes through the canonical cohort simulation; no ad-hoc wait
// or satisfaction formulas live here.
type AnalyticsService struct {
	simulation *SimulationService
	defaults   entities.SimulationParams
}

// NewAnalyticsService creates an analytics service using the given default
// clinic policy for cohort estimates
func NewAnalyticsService(simulation *SimulationService, defaults entities.SimulationParams) *AnalyticsService {
	return &AnalyticsService{
		simulation: simulation,
		defaults:   defaults,
	}
}

// Metrics computes the dashboard metrics for a working set. The no-show rate
// comes from historical labels when present; wait, utilization, satisfaction
// and the overbooking recommendation come from a cohort simulation.
func (s *AnalyticsService) Metrics(ctx context.Context, batch []entities.AppointmentRecord) (*DashboardMetrics, error) {
	if len(batch) == 0 {
		return &DashboardMetrics{}, nil
	}

	cohort, err := s.simulation.SimulateCohort(ctx, s.defaults, batch)
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		TotalPatients:       cohort.TotalPatients,
		HighRiskPatients:    cohort.HighRiskPatients,
		AverageWaitTime:     cohort.AverageWaitTime,
		DoctorUtilization:   cohort.DoctorUtilization,
		PatientSatisfaction: cohort.PatientSatisfaction,
		NoShowRate:          cohort.NoShowRate,
		OptimalOverbooking:  cohort.RecommendedOverbooking,
	}

	if entities.BatchHasOutcomes(batch) {
		noShows := 0
		for i := range batch {
			if batch[i].IsNoShow() {
				noShows++
			}
		}
		metrics.NoShowRate = round1(float64(noShows) / float64(len(batch)) * 100)
	}

	return metrics, nil
}

// WeeklyPerformance aggregates the working set per weekday. Wait times come
// from simulating each weekday's attendance through the canonical queue
// model under the default policy, seeded per weekday for stable dashboards.
func (s *AnalyticsService) WeeklyPerformance(ctx context.Context, batch []entities.AppointmentRecord) []WeekdaySummary {
	counts, noShows := s.countByWeekday(batch)

	queue := NewClinicQueueSimulator()
	summaries := make([]WeekdaySummary, len(weekdayLabels))
	for i, label := range weekdayLabels {
		summary := WeekdaySummary{
			Day:          label,
			Appointments: counts[i],
			NoShows:      noShows[i],
		}
		if counts[i] > 0 {
			seed := int64(i)
			outcome := queue.Run(
				s.defaults.Doctors,
				counts[i],
				s.defaults.AverageAppointmentTime,
				s.defaults.OperatingMinutes(),
				newRand(&seed),
			)
			summary.WaitTime = round1(outcome.AverageWait)
		}
		summaries[i] = summary
	}
	return summaries
}

// DashboardInsights finds the peak day and the best/worst no-show days.
// Returns nil when the working set is empty or has no usable dates.
func (s *AnalyticsService) DashboardInsights(ctx context.Context, batch []entities.AppointmentRecord) *Insights {
	counts, noShows := s.countByWeekday(batch)

	insights := &Insights{}
	peakIdx, lowestIdx, highestIdx := -1, -1, -1
	var lowestRate float64
	for i := range weekdayLabels {
		if counts[i] == 0 {
			continue
		}
		if peakIdx < 0 || counts[i] > counts[peakIdx] {
			peakIdx = i
		}
		rate := float64(noShows[i]) / float64(counts[i])
		if lowestIdx < 0 || rate < lowestRate {
			lowestIdx = i
			lowestRate = rate
		}
		if highestIdx < 0 || noShows[i] > noShows[highestIdx] {
			highestIdx = i
		}
	}

	if peakIdx < 0 {
		return nil
	}

	insights.PeakDay = &DayInsight{Day: weekdayLabels[peakIdx], Appointments: counts[peakIdx]}
	insights.LowestNoShows = &DayInsight{Day: weekdayLabels[lowestIdx], Rate: round1(lowestRate * 100)}
	insights.HighestNoShows = &DayInsight{Day: weekdayLabels[highestIdx], Count: noShows[highestIdx]}
	return insights
}

// CompareStrategies evaluates candidate overbooking percentages through the
// full policy simulation and reports the predicted-attendance run of each
func (s *AnalyticsService) CompareStrategies(ctx context.Context, params entities.SimulationParams) ([]entities.StrategyResult, error) {
	candidates := []struct {
		name string
		pct  float64
	}{
		{"Conservative", 5},
		{"Current", params.OverbookingPercentage},
		{"Aggressive", 15},
		{"Optimal", 12},
	}

	results := make([]entities.StrategyResult, 0, len(candidates))
	for _, c := range candidates {
		p := params
		p.OverbookingPercentage = c.pct
		comparison, err := s.simulation.SimulatePolicy(ctx, p)
		if err != nil {
			return nil, err
		}
		results = append(results, entities.StrategyResult{
			Strategy:     formatStrategy(c.name, c.pct),
			WaitTime:     comparison.Predicted.AverageWaitTime,
			Utilization:  comparison.Predicted.DoctorUtilization,
			Satisfaction: comparison.Predicted.PatientSatisfaction,
		})
	}
	return results, nil
}

func (s *AnalyticsService) countByWeekday(batch []entities.AppointmentRecord) (counts, noShows [7]int) {
	for i := range batch {
		t, ok := parseTimestamp(batch[i].AppointmentDay)
		if !ok {
			continue
		}
		day := (int(t.Weekday()) + 6) % 7
		counts[day]++
		if batch[i].IsNoShow() {
			noShows[day]++
		}
	}
	return counts, noShows
}

func formatStrategy(name string, pct float64) string {
	if pct == float64(int(pct)) {
		return fmt.Sprintf("%s (%d%%)", name, int(pct))
	}
	return fmt.Sprintf("%s (%s%%)", name, strconv.FormatFloat(pct, 'f', -1, 64))
}
