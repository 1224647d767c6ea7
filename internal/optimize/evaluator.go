// Package optimize implements the post-placement local-search repair pass
// (C6): a randomized pairwise-swap loop with simulated-annealing
// acceptance, plus targeted constraint-specific repairs that run after it.
package optimize

import (
	"math"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
)

// Evaluator scores a schedule's quality independent of the optimizer loop,
// so the orchestration facade can report a numeric quality figure
// alongside the pass/fail violation list (spec.md §4.6 scoring formula).
type Evaluator struct {
	Registry *constraint.Registry
}

func NewEvaluator(registry *constraint.Registry) *Evaluator {
	return &Evaluator{Registry: registry}
}

// Score computes lower-is-better: 1000*jiritsu_violations +
// 100*other_violations + 0.01*teacher_load_variance.
func (e *Evaluator) Score(ctx *constraint.Context) float64 {
	jiritsu, other := e.countViolations(ctx)
	variance := teacherLoadVariance(ctx.School, ctx.Schedule)
	return 1000*float64(jiritsu) + 100*float64(other) + 0.01*variance
}

func (e *Evaluator) countViolations(ctx *constraint.Context) (jiritsu, other int) {
	for _, v := range e.Registry.Validate(ctx) {
		if v.Subject.IsSpecialNeeds() {
			jiritsu++
			continue
		}
		other++
	}
	return jiritsu, other
}

// teacherLoadVariance computes the sample variance of per-teacher weekly
// assignment counts across every class's schedule, grounded on
// weighted_schedule_evaluator.py's load-balance term. Implemented with
// stdlib math only: no third-party statistics library in the example pack
// covers a single-pass sample variance, and pulling one in for this alone
// would add a dependency with no other caller.
func teacherLoadVariance(school *domain.School, schedule *domain.Schedule) float64 {
	counts := make(map[domain.Teacher]int)
	for _, class := range school.Classes {
		for _, a := range schedule.AssignmentsFor(class) {
			if a.Teacher == "" {
				continue
			}
			counts[a.Teacher]++
		}
	}
	if len(counts) < 2 {
		return 0
	}

	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	mean := sum / float64(len(counts))

	var sumSquares float64
	for _, c := range counts {
		d := float64(c) - mean
		sumSquares += d * d
	}
	return sumSquares / float64(len(counts)-1)
}

// metropolisAccept implements the Metropolis acceptance criterion: always
// accept an improving move, accept a worsening move with probability
// exp(-delta/temperature) otherwise. temperature <= 0 disables stochastic
// acceptance (spec.md §6 "temperature: ... 0 disables stochastic acceptance").
func metropolisAccept(delta, temperature float64, roll float64) bool {
	if delta < 0 {
		return true
	}
	if temperature <= 0 {
		return false
	}
	probability := math.Exp(-delta / temperature)
	return roll < probability
}
