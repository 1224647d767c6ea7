package orchestrator

import "github.com/seito-school/timetable-engine/internal/pipeline"

// HybridStrategy runs the full phase sequence followed by optimization
// and repair, the shape shared by the base generation strategy and the
// improved CSP strategy once their dedicated pre/post test-period checks
// are stripped out. It is the default strategy for ordinary runs.
type HybridStrategy struct{}

func NewHybridStrategy() *HybridStrategy { return &HybridStrategy{} }

func (s *HybridStrategy) Name() string { return "hybrid" }

func (s *HybridStrategy) Run(sc *StrategyContext) error {
	if _, err := pipeline.Run(sc.Pipeline); err != nil {
		return err
	}
	_, err := runOptimizerAndRepair(sc)
	return err
}
