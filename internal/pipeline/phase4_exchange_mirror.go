package pipeline

import (
	"github.com/seito-school/timetable-engine/internal/domain"
)

const phaseExchangeMirror = "exchange_mirror"

// RunPhase4 mirrors every parent-class placement already committed by
// earlier phases into its paired exchange class, slot by slot, so the
// exchange class's timetable tracks its parent everywhere it isn't
// already carrying its own self-study hours (spec.md §4.5 Phase 4).
func RunPhase4(ctx *Context) error {
	for _, pair := range ctx.School.Exchange.ExchangePairs() {
		for _, slot := range domain.AllTimeSlots() {
			before, _ := ctx.Schedule.GetAt(slot, pair.Exchange)
			err := ctx.ExchangePlacer.MirrorSlot(ctx.Registry, ctx.ConstraintCtx, ctx.School, ctx.Schedule, pair.Exchange, pair.Parent, slot)
			if err != nil {
				ctx.Stats.warn(err.Error())
				continue
			}
			after, ok := ctx.Schedule.GetAt(slot, pair.Exchange)
			if ok && !after.Empty() && before.Empty() {
				ctx.Stats.recordPlacement(phaseExchangeMirror)
				ctx.Stats.ExchangeSyncEvents++
			}
		}
	}

	ctx.Logger.Debug("phase 4 complete: exchange class mirroring")
	return nil
}
