package orchestrator

import "github.com/seito-school/timetable-engine/internal/pipeline"

// SimpleStrategy runs the core lock-then-fill sequence only: fixed and
// test-period locking followed by straight regular placement, skipping
// jiritsu reconciliation, grade-5 synchronization, and exchange mirroring.
// It exists as the cheapest baseline a caller can ask for.
type SimpleStrategy struct{}

func NewSimpleStrategy() *SimpleStrategy { return &SimpleStrategy{} }

func (s *SimpleStrategy) Name() string { return "simple" }

func (s *SimpleStrategy) Run(sc *StrategyContext) error {
	if err := pipeline.RunPhase1(sc.Pipeline); err != nil {
		return err
	}
	return pipeline.RunPhase5(sc.Pipeline)
}
