// cmd/generate/main.go runs one schedule generation end to end: load
// configuration and the school/schedule/follow-up data, pick a strategy,
// generate, and write the result, in the style of the teacher's own
// single-shot CLI entry point.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/seito-school/timetable-engine/internal/adapters/followup"
	"github.com/seito-school/timetable-engine/internal/adapters/yamlschedule"
	"github.com/seito-school/timetable-engine/internal/adapters/yamlschool"
	"github.com/seito-school/timetable-engine/internal/config"
	"github.com/seito-school/timetable-engine/internal/orchestrator"
	"github.com/seito-school/timetable-engine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the scheduling configuration file")
	schoolPath := flag.String("school", "school.yaml", "path to the school definition file")
	schedulePath := flag.String("schedule", "schedule.yaml", "path to the initial schedule file")
	followupPath := flag.String("followup", "followup.yaml", "path to the weekly follow-up notes file")
	outPath := flag.String("out", "timetable.yaml", "path to write the generated schedule to")
	strategyName := flag.String("strategy", "hybrid", "generation strategy to run")
	seed := flag.Int64("seed", 1, "deterministic RNG seed")
	env := flag.String("env", "development", "log environment: development or production")
	flag.Parse()

	zapLogger, err := logger.New(logger.Options{Env: *env})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	schoolRepo := yamlschool.New(*schoolPath)
	school, err := schoolRepo.LoadSchool(ctx)
	if err != nil {
		zapLogger.Fatal("failed to load school", zap.Error(err))
	}
	for _, pair := range cfg.ExchangeClassPairs() {
		school.Exchange.RegisterPair(pair.Exchange, pair.Parent)
	}
	school.Exchange.RegisterGrade5(cfg.Grade5Classes()...)
	for _, class := range cfg.RestrictedExchangeClasses() {
		school.Exchange.RestrictToMainSubjectsOnly(class)
	}

	scheduleRepo := yamlschedule.New(*schedulePath, *outPath)
	initial, err := scheduleRepo.LoadInitial(ctx, school)
	if err != nil {
		zapLogger.Fatal("failed to load initial schedule", zap.Error(err))
	}
	forbidden, err := scheduleRepo.ForbiddenCells(ctx)
	if err != nil {
		zapLogger.Fatal("failed to load forbidden cells", zap.Error(err))
	}

	notes := followup.New(*followupPath)
	testPeriods, err := notes.ParseTestPeriods()
	if err != nil {
		zapLogger.Fatal("failed to parse follow-up notes", zap.Error(err))
	}

	facade := orchestrator.NewFacade(prometheus.NewRegistry(), zapLogger)
	stats, validation, err := facade.Generate(*strategyName, orchestrator.GenerateInput{
		School:         school,
		Schedule:       initial,
		Config:         cfg,
		Availability:   notes,
		ForbiddenCells: forbidden,
		TestPeriods:    testPeriods,
		Seed:           *seed,
	})
	if err != nil {
		zapLogger.Fatal("generation failed", zap.Error(err))
	}

	if err := scheduleRepo.Save(ctx, initial); err != nil {
		zapLogger.Fatal("failed to save generated schedule", zap.Error(err))
	}

	zapLogger.Info("generation complete",
		zap.String("strategy", *strategyName),
		zap.Bool("valid", validation.Valid),
		zap.Float64("quality_score", validation.QualityScore),
		zap.Duration("duration", stats.Duration),
		zap.Int("warnings", len(stats.Warnings)),
	)
}
