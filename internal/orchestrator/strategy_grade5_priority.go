package orchestrator

import "github.com/seito-school/timetable-engine/internal/pipeline"

// Grade5PriorityStrategy runs the grade-5 synchronized placement before
// jiritsu reconciliation, mirroring how its source delegated to a
// dedicated grade-5 generator ahead of everything else so the triple's
// slots are claimed before the rest of the week competes for them.
type Grade5PriorityStrategy struct{}

func NewGrade5PriorityStrategy() *Grade5PriorityStrategy { return &Grade5PriorityStrategy{} }

func (s *Grade5PriorityStrategy) Name() string { return "grade5_priority" }

func (s *Grade5PriorityStrategy) Run(sc *StrategyContext) error {
	if err := pipeline.RunPhase1(sc.Pipeline); err != nil {
		return err
	}
	if err := pipeline.RunPhase3(sc.Pipeline); err != nil {
		return err
	}
	if err := pipeline.RunPhase2(sc.Pipeline); err != nil {
		return err
	}
	if err := pipeline.RunPhase4(sc.Pipeline); err != nil {
		return err
	}
	if err := pipeline.RunPhase5(sc.Pipeline); err != nil {
		return err
	}
	_, err := runOptimizerAndRepair(sc)
	return err
}
