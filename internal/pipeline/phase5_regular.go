package pipeline

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
)

const phaseRegular = "regular"

// RunPhase5 fills every class's remaining weekly hour budget: it first
// resolves duplicate daily placements left over from the input schedule,
// then for each (class, subject) pair still short of its required hours,
// tries slots best-first via orderedSlots, committing through the
// registry so every earlier phase's constraints stay honored. A
// successful non-fixed, non-special-needs placement is mirrored
// immediately into the class's paired exchange class when that class is
// still free there, keeping the mirror invariant current rather than
// deferring entirely to phase 4.
func RunPhase5(ctx *Context) error {
	CorrectInputSchedule(ctx)

	placed := 0
	for _, class := range ctx.School.Classes {
		placed += FillClassRegular(ctx, class)
	}

	ctx.Logger.Debug("phase 5 complete: regular placement")
	_ = placed
	return nil
}

// FillClassRegular fills every remaining (subject, required-hours) pair
// for a single class. It is exported so a strategy that decomposes the
// class set into independent clusters for concurrent placement can drive
// one cluster's classes through the same logic RunPhase5 uses serially.
func FillClassRegular(ctx *Context, class domain.ClassRef) int {
	placed := 0
	for _, subject := range ctx.School.SubjectsFor(class) {
		required := ctx.School.RequiredHours(class, subject)
		if required <= 0 {
			continue
		}
		placed += fillClassSubject(ctx, class, subject, required)
	}
	return placed
}

func fillClassSubject(ctx *Context, class domain.ClassRef, subject domain.Subject, required int) int {
	got := countAssigned(ctx, class, subject)
	if got >= required {
		return 0
	}

	teacher, _ := ctx.School.TeacherFor(class, subject)
	placedHere := 0

	for _, slot := range orderedSlots(ctx, subject) {
		if got+placedHere >= required {
			break
		}
		cell := domain.NewCell(slot, class)
		if ctx.Schedule.IsLocked(cell) {
			continue
		}
		existing, ok := ctx.Schedule.Get(cell)
		if ok && !existing.Empty() {
			continue
		}

		cand := constraint.Candidate{Slot: slot, Class: class, Subject: subject, Teacher: teacher}
		if ok, _ := ctx.Registry.CheckBeforeAssignment(ctx.ConstraintCtx, cand); !ok {
			continue
		}
		if err := ctx.Schedule.Assign(cell, domain.Assignment{Subject: subject, Teacher: teacher}); err != nil {
			continue
		}
		placedHere++
		ctx.Stats.recordPlacement(phaseRegular)

		mirrorToExchangeIfEligible(ctx, class, subject, teacher, slot)
	}

	if got+placedHere < required {
		ctx.Stats.warn(fmt.Sprintf("regular placement for %s/%s: placed %d of %d required hours", class, subject, got+placedHere, required))
	}
	return placedHere
}

func countAssigned(ctx *Context, class domain.ClassRef, subject domain.Subject) int {
	count := 0
	for _, a := range ctx.Schedule.AssignmentsFor(class) {
		if a.Subject == subject {
			count++
		}
	}
	return count
}

// mirrorToExchangeIfEligible mirrors a just-placed parent assignment into
// its paired exchange class immediately, when one exists, the subject is
// neither fixed nor special-needs, and the exchange cell is unlocked and
// still empty.
func mirrorToExchangeIfEligible(ctx *Context, class domain.ClassRef, subject domain.Subject, teacher domain.Teacher, slot domain.TimeSlot) {
	if subject.IsFixed() || subject.IsSpecialNeeds() {
		return
	}
	exchange, hasExchange := ctx.School.Exchange.ExchangeOf(class)
	if !hasExchange {
		return
	}
	exchangeCell := domain.NewCell(slot, exchange)
	if ctx.Schedule.IsLocked(exchangeCell) {
		return
	}
	existing, ok := ctx.Schedule.Get(exchangeCell)
	if ok && !existing.Empty() {
		return
	}
	if err := ctx.ExchangePlacer.MirrorSlot(ctx.Registry, ctx.ConstraintCtx, ctx.School, ctx.Schedule, exchange, class, slot); err == nil {
		after, got := ctx.Schedule.Get(exchangeCell)
		if got && !after.Empty() {
			ctx.Stats.recordPlacement(phaseExchangeMirror)
			ctx.Stats.ExchangeSyncEvents++
		}
	}
}
