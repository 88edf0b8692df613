package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/adapters/dataset"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/application/services"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/entities"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/domain/repositories"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/artifacts"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/config"
)

// simFlags holds the clinic policy flags shared by the simulation commands.
type simFlags struct {
	date        string
	doctors     int
	slots       int
	overbooking float64
	avgMinutes  float64
	hours       float64
	seed        int64
	seedSet     bool
}

func (f *simFlags) params(cmd *cobra.Command) entities.SimulationParams {
	params := entities.SimulationParams{
		Date:                   f.date,
		Doctors:                f.doctors,
		SlotsPerDay:            f.slots,
		OverbookingPercentage:  f.overbooking,
		AverageAppointmentTime: f.avgMinutes,
		ClinicHours:            f.hours,
	}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		params.Seed = &seed
	}
	return params
}

func registerSimFlags(cmd *cobra.Command, flags *simFlags, cfg *config.Config) {
	f := cmd.Flags()
	f.StringVar(&flags.date, "date", "", "Clinic date (YYYY-MM-DD)")
	f.IntVar(&flags.doctors, "doctors", cfg.Simulation.Doctors, "Number of attending doctors")
	f.IntVar(&flags.slots, "slots", cfg.Simulation.SlotsPerDay, "Base slots per day")
	f.Float64Var(&flags.overbooking, "overbooking", cfg.Simulation.OverbookingPercentage, "Overbooking percentage")
	f.Float64Var(&flags.avgMinutes, "avg-minutes", cfg.Simulation.AverageAppointmentTime, "Average appointment minutes")
	f.Float64Var(&flags.hours, "hours", cfg.Simulation.ClinicHours, "Clinic operating hours")
	f.Int64Var(&flags.seed, "seed", 0, "Random seed for reproducible runs")
}

func loadBatch(path string) ([]entities.AppointmentRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	var batch []entities.AppointmentRecord
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch file: %w", err)
	}
	return batch, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newSimulationService(cfg *config.Config) *services.SimulationService {
	prediction := services.NewPredictionService(
		artifacts.NewStore(cfg.Model.ArtifactPath),
		services.NewFeatureService(),
	)

	var attendance repositories.AttendanceRepository
	if adapter, err := dataset.NewAttendanceFileAdapter(cfg.Model.AttendancePath); err == nil {
		attendance = adapter
	}
	var pool repositories.PatientPoolRepository
	if adapter, err := dataset.NewPatientPoolFileAdapter(cfg.Model.PatientPoolPath); err == nil {
		pool = adapter
	}

	return services.NewSimulationService(prediction, attendance, pool)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "clinicsim",
		Short: "Score no-show risk and simulate clinic overbooking policies",
	}

	scoreCmd := &cobra.Command{
		Use:   "score <batch-file>",
		Short: "Score a batch of appointments for no-show risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			scorer := services.NewPredictionService(
				artifacts.NewStore(cfg.Model.ArtifactPath),
				services.NewFeatureService(),
			)
			assessments, err := scorer.Score(context.Background(), batch)
			if err != nil {
				return err
			}
			return printJSON(assessments)
		},
	}

	var simFl simFlags
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the actual-vs-predicted overbooking comparison for one clinic day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newSimulationService(cfg).SimulatePolicy(context.Background(), simFl.params(cmd))
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	registerSimFlags(simulateCmd, &simFl, cfg)

	var cohortFl simFlags
	cohortCmd := &cobra.Command{
		Use:   "cohort <batch-file>",
		Short: "Simulate a clinic day for a specific patient cohort",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			result, err := newSimulationService(cfg).SimulateCohort(context.Background(), cohortFl.params(cmd), batch)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	registerSimFlags(cohortCmd, &cohortFl, cfg)

	root.AddCommand(scoreCmd, simulateCmd, cohortCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
