package orchestrator

import (
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/pipeline"
)

// ImprovedCSPStrategy corrects any daily-duplicate subjects carried over
// from the input schedule before running the full phase sequence, then
// verifies the configured test periods are still intact once optimization
// and repair have run — the shape its source's before/after test-period
// check followed.
type ImprovedCSPStrategy struct{}

func NewImprovedCSPStrategy() *ImprovedCSPStrategy { return &ImprovedCSPStrategy{} }

func (s *ImprovedCSPStrategy) Name() string { return "improved_csp" }

func (s *ImprovedCSPStrategy) Run(sc *StrategyContext) error {
	pipeline.CorrectInputSchedule(sc.Pipeline)

	phases := []func(*pipeline.Context) error{
		pipeline.RunPhase1,
		pipeline.RunPhase2,
		pipeline.RunPhase3,
		pipeline.RunPhase4,
		pipeline.RunPhase5,
	}
	for _, phase := range phases {
		if err := phase(sc.Pipeline); err != nil {
			return err
		}
	}

	before := testPeriodsIntact(sc)
	if _, err := runOptimizerAndRepair(sc); err != nil {
		return err
	}
	after := testPeriodsIntact(sc)
	if before && !after {
		sc.Pipeline.Stats.warn("optimizer disturbed a protected test period; this should never happen under a correct optimizer")
	}
	return nil
}

// testPeriodsIntact reports whether every cell covered by a configured
// test period, for every class, is still locked and non-empty.
func testPeriodsIntact(sc *StrategyContext) bool {
	for _, tp := range sc.Pipeline.TestPeriods {
		for _, class := range sc.Pipeline.School.Classes {
			for _, period := range tp.Periods {
				cell := domain.NewCell(domain.NewTimeSlot(tp.Day, period), class)
				a, ok := sc.Pipeline.Schedule.Get(cell)
				if !ok || a.Empty() || !sc.Pipeline.Schedule.IsLocked(cell) {
					return false
				}
			}
		}
	}
	return true
}
