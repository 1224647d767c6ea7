package orchestrator

// runOptimizerAndRepair runs the swap optimizer followed by the targeted
// repair passes, a combination every strategy but simple and legacy ends
// with. It returns the optimizer's final score.
func runOptimizerAndRepair(sc *StrategyContext) (float64, error) {
	score := sc.Optimizer.Run(sc.Pipeline.ConstraintCtx, sc.RNG, sc.OptConfig)
	sc.Repairer.RepairAll(sc.Pipeline.ConstraintCtx)
	return score, nil
}
