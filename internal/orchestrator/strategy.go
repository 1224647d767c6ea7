package orchestrator

import (
	"math/rand"

	"github.com/seito-school/timetable-engine/internal/optimize"
	"github.com/seito-school/timetable-engine/internal/pipeline"
)

// StrategyContext bundles everything a Strategy needs to run: the pipeline
// context mutating the schedule, the optimizer and repairer built against
// the same constraint registry, and a deterministic RNG shared with the
// pipeline's own synchronization selectors.
type StrategyContext struct {
	Pipeline  *pipeline.Context
	Optimizer *optimize.Optimizer
	Repairer  *optimize.Repairer
	OptConfig optimize.Config
	RNG       *rand.Rand
}

// Strategy is one selectable generation behavior. The facade is the only
// place that maps a strategy name to an implementation (spec.md §4.7:
// "only place that knows about strategy names").
type Strategy interface {
	Name() string
	Run(sc *StrategyContext) error
}
