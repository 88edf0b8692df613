package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/application/services"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/evaluation"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/internal/infrastructure/artifacts"
	"github.com/jpdagul/Project-ClinicAppointmentOptimizer/pkg/config"
)

func main() {
	holdoutPath := flag.String("holdout", "model/data/holdout.json", "labeled holdout set to evaluate against")
	threshold := flag.Float64("threshold", evaluation.DefaultDecisionThreshold, "probability threshold for classifying a no-show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	records, err := evaluation.LoadHoldoutRecords(*holdoutPath)
	if err != nil {
		log.Fatalf("Failed to load holdout set: %v", err)
	}
	if err := evaluation.ValidateHoldoutRecords(records); err != nil {
		log.Fatalf("Invalid holdout set: %v", err)
	}

	modelStore := artifacts.NewStore(cfg.Model.ArtifactPath)
	scorer := services.NewPredictionService(modelStore, services.NewFeatureService())

	runner := evaluation.NewRunnerWithThreshold(scorer, *threshold)
	summary, err := runner.Run(context.Background(), records)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode summary: %v", err)
	}
	fmt.Println(string(out))
}
