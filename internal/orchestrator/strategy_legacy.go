package orchestrator

import "github.com/seito-school/timetable-engine/internal/pipeline"

// LegacyStrategy mirrors the greedy placement service it is grounded on:
// lock fixed and test-period cells, place self-study hours, then fill the
// rest greedily by scored slot order. It never runs the optimizer pass —
// the greedy service's "fill empty slots" step was dead code in the
// implementation this strategy preserves the shape of.
type LegacyStrategy struct{}

func NewLegacyStrategy() *LegacyStrategy { return &LegacyStrategy{} }

func (s *LegacyStrategy) Name() string { return "legacy" }

func (s *LegacyStrategy) Run(sc *StrategyContext) error {
	if err := pipeline.RunPhase1(sc.Pipeline); err != nil {
		return err
	}
	if err := pipeline.RunPhase2(sc.Pipeline); err != nil {
		return err
	}
	return pipeline.RunPhase5(sc.Pipeline)
}
