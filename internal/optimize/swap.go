package optimize

import (
	"math/rand"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
)

// Config tunes the swap-based optimizer loop.
type Config struct {
	Iterations  int
	Temperature float64
	StallLimit  int // stop early after this many consecutive non-improving attempts
}

// DefaultConfig returns sane defaults for a single optimization pass.
func DefaultConfig() Config {
	return Config{Iterations: 2000, Temperature: 2.0, StallLimit: 300}
}

// Optimizer runs the randomized pairwise-swap repair loop of spec.md §4.6:
// pick two eligible cells in the same class, tentatively swap their
// (subject, teacher) pairs, accept the swap when both placements remain
// legal and the evaluator's score improves, or with Metropolis probability
// when it doesn't.
type Optimizer struct {
	Registry  *constraint.Registry
	Evaluator *Evaluator
}

func NewOptimizer(registry *constraint.Registry, evaluator *Evaluator) *Optimizer {
	return &Optimizer{Registry: registry, Evaluator: evaluator}
}

// Run executes up to cfg.Iterations swap attempts (fewer if the schedule
// hasn't improved in cfg.StallLimit consecutive attempts), returning the
// final score.
func (o *Optimizer) Run(ctx *constraint.Context, rng *rand.Rand, cfg Config) float64 {
	cells := eligibleCells(ctx)
	if len(cells) < 2 {
		return o.Evaluator.Score(ctx)
	}

	currentScore := o.Evaluator.Score(ctx)
	stalled := 0

	for i := 0; i < cfg.Iterations && stalled < cfg.StallLimit; i++ {
		a := cells[rng.Intn(len(cells))]
		b := cells[rng.Intn(len(cells))]
		if a == b {
			stalled++
			continue
		}

		assignA, okA := ctx.Schedule.Get(a)
		assignB, okB := ctx.Schedule.Get(b)
		if !okA || !okB || assignA.Subject == assignB.Subject {
			stalled++
			continue
		}

		candA := constraint.Candidate{Slot: a.Slot, Class: a.Class, Subject: assignB.Subject, Teacher: assignB.Teacher}
		candB := constraint.Candidate{Slot: b.Slot, Class: b.Class, Subject: assignA.Subject, Teacher: assignA.Teacher}

		okLegalA, _ := o.Registry.CheckBeforeAssignment(ctx, candA)
		if !okLegalA {
			stalled++
			continue
		}

		if err := ctx.Schedule.Assign(a, domain.Assignment{Subject: assignB.Subject, Teacher: assignB.Teacher}); err != nil {
			stalled++
			continue
		}
		okLegalB, _ := o.Registry.CheckBeforeAssignment(ctx, candB)
		if !okLegalB {
			_ = ctx.Schedule.Assign(a, assignA)
			stalled++
			continue
		}
		if err := ctx.Schedule.Assign(b, domain.Assignment{Subject: assignA.Subject, Teacher: assignA.Teacher}); err != nil {
			_ = ctx.Schedule.Assign(a, assignA)
			stalled++
			continue
		}

		newScore := o.Evaluator.Score(ctx)
		delta := newScore - currentScore

		if metropolisAccept(delta, cfg.Temperature, rng.Float64()) {
			currentScore = newScore
			if delta < 0 {
				stalled = 0
			} else {
				stalled++
			}
			continue
		}

		_ = ctx.Schedule.Assign(a, assignA)
		_ = ctx.Schedule.Assign(b, assignB)
		stalled++
	}

	return currentScore
}

// eligibleCells enumerates every (slot, class) cell that may participate
// in a swap: not locked, not in a test period, and holding neither a
// FIXED nor a SPECIAL_NEEDS subject (spec.md §4.6).
func eligibleCells(ctx *constraint.Context) []domain.Cell {
	var cells []domain.Cell
	for _, class := range ctx.School.Classes {
		for _, slot := range domain.AllTimeSlots() {
			cell := domain.NewCell(slot, class)
			if ctx.Schedule.IsLocked(cell) || ctx.Schedule.IsTestPeriod(slot) {
				continue
			}
			a, ok := ctx.Schedule.Get(cell)
			if !ok || a.Empty() || a.Subject.IsProtected() {
				continue
			}
			cells = append(cells, cell)
		}
	}
	return cells
}
