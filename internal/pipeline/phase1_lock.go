package pipeline

import "github.com/seito-school/timetable-engine/internal/domain"

const phaseLock = "lock"

// RunPhase1 ingests the already-loaded initial schedule (the caller is
// responsible for having populated ctx.Schedule via SeedAssign before this
// runs) and locks everything that must never move: fixed-subject cells,
// test-period cells, and any cell already holding a special-needs subject.
// No placement happens in this phase.
func RunPhase1(ctx *Context) error {
	for _, class := range ctx.School.Classes {
		for _, slot := range domain.AllTimeSlots() {
			cell := domain.NewCell(slot, class)
			a, ok := ctx.Schedule.Get(cell)
			if !ok || a.Empty() {
				continue
			}
			if a.Subject.IsFixed() || a.Subject.IsSpecialNeeds() {
				ctx.Schedule.Lock(cell)
			}
		}
	}

	ctx.TestProtector.Apply(ctx.Schedule, ctx.School.Classes, ctx.TestPeriods)

	ctx.Logger.Debug("phase 1 complete: locked fixed, special-needs and test-period cells")
	return nil
}
