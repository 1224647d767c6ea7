package orchestrator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/optimize"
	"github.com/seito-school/timetable-engine/internal/pipeline"
	"github.com/seito-school/timetable-engine/internal/ports"
)

// Facade is the sole place in the module that knows about strategy names.
// It wires a chosen Strategy through a fresh pipeline.Context and the
// shared optimizer/repairer, and turns the run into Statistics and a
// ValidationResult a caller never has to build itself.
type Facade struct {
	strategies map[string]Strategy
	metrics    *Metrics
	logger     *zap.Logger
}

// NewFacade registers every built-in strategy and wires Prometheus metrics
// onto reg. Pass zap.NewNop() for logger in contexts that don't want logs.
func NewFacade(reg *prometheus.Registry, logger *zap.Logger) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Facade{
		strategies: make(map[string]Strategy),
		metrics:    NewMetrics(reg),
		logger:     logger,
	}
	for _, s := range []Strategy{
		NewSimpleStrategy(),
		NewLegacyStrategy(),
		NewGrade5PriorityStrategy(),
		NewImprovedCSPStrategy(),
		NewHybridStrategy(),
		NewAdvancedCSPStrategy(),
	} {
		f.strategies[s.Name()] = s
	}
	return f
}

// StrategyNames returns every registered strategy name, sorted by
// registration order (the order above), for CLI help text and validation.
func (f *Facade) StrategyNames() []string {
	names := make([]string, 0, len(f.strategies))
	for _, s := range []string{"simple", "legacy", "grade5_priority", "improved_csp", "hybrid", "advanced_csp"} {
		if _, ok := f.strategies[s]; ok {
			names = append(names, s)
		}
	}
	return names
}

// GenerateInput bundles everything Generate needs beyond the strategy
// name: the school model, a schedule already seeded with any known-good
// initial assignments, the teacher availability oracle, any forbidden
// cells extracted from the input data, configuration, the test periods to
// protect, and a seed for deterministic reproduction.
type GenerateInput struct {
	School         *domain.School
	Schedule       *domain.Schedule
	Config         ports.ConfigurationReader
	Availability   domain.AvailabilityOracle
	ForbiddenCells map[domain.Cell]map[domain.Subject]struct{}
	TestPeriods    []ports.TestPeriod
	Seed           int64
}

// Generate runs the named strategy to completion over input.Schedule,
// mutating it in place, and returns the facade-level statistics for the
// run plus the schedule's post-run ValidationResult.
func (f *Facade) Generate(strategyName string, input GenerateInput) (*Statistics, ValidationResult, error) {
	strategy, ok := f.strategies[strategyName]
	if !ok {
		return nil, ValidationResult{}, fmt.Errorf("unknown strategy %q", strategyName)
	}

	rng := rand.New(rand.NewSource(input.Seed))
	logger := f.logger.With(zap.String("strategy", strategyName))

	pctx := pipeline.NewContext(input.School, input.Schedule, input.Config, input.Availability, input.ForbiddenCells, rng, logger)
	pctx.TestPeriods = input.TestPeriods

	evaluator := optimize.NewEvaluator(pctx.Registry)
	sc := &StrategyContext{
		Pipeline:  pctx,
		Optimizer: optimize.NewOptimizer(pctx.Registry, evaluator),
		Repairer:  optimize.NewRepairer(pctx.Registry),
		OptConfig: optimize.Config{Iterations: 2000, Temperature: input.Config.Parameters().Temperature, StallLimit: 300},
		RNG:       rng,
	}
	if sc.OptConfig.Temperature <= 0 {
		sc.OptConfig = optimize.DefaultConfig()
	}

	start := time.Now()
	runErr := strategy.Run(sc)
	duration := time.Since(start)

	hits, misses := pctx.Registry.CacheStats()
	stats := &Statistics{
		Strategy:           strategyName,
		PlacementsByPhase:  pctx.Stats.PlacementsByPhase,
		CacheHits:          hits,
		CacheMisses:        misses,
		ExchangeSyncEvents: pctx.Stats.ExchangeSyncEvents,
		OptimizerScore:     evaluator.Score(pctx.ConstraintCtx),
		Warnings:           pctx.Stats.Warnings,
		Duration:           duration,
		Incomplete:         len(pctx.Stats.Warnings) > 0,
	}

	validation := f.Validate(pctx.ConstraintCtx, pctx.Registry)

	outcome := "ok"
	if runErr != nil {
		outcome = "error"
	} else if !validation.Valid {
		outcome = "invalid"
	}
	f.metrics.observe(strategyName, stats, outcome)
	f.metrics.observeViolations(validation.CountsByPriority)

	if runErr != nil {
		return stats, validation, runErr
	}
	return stats, validation, nil
}

// Validate runs every registered constraint's full validation scan and
// summarizes the result, independent of any particular Generate call.
func (f *Facade) Validate(ctx *constraint.Context, registry *constraint.Registry) ValidationResult {
	countsByPriority := make(map[string]int)
	var messages []string
	valid := true

	for _, c := range registry.Constraints() {
		for _, v := range c.Validate(ctx) {
			countsByPriority[c.Priority().String()]++
			messages = append(messages, v.String())
			if c.Kind() == constraint.Hard {
				valid = false
			}
		}
	}

	return ValidationResult{
		Valid:            valid,
		Violations:       messages,
		CountsByPriority: countsByPriority,
		QualityScore:     optimize.NewEvaluator(registry).Score(ctx),
	}
}
