package pipeline

import (
	"fmt"
	"sort"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
)

const phaseJiritsu = "jiritsu"

var jiritsuDayPreference = []domain.Weekday{domain.Wednesday, domain.Tuesday, domain.Thursday, domain.Monday, domain.Friday}
var jiritsuPeriodPreference = []int{1, 2, 3, 4, 5, 6}

type jiritsuFrame struct {
	dayIdx           int
	periodCursor     int
	slot             domain.TimeSlot
	parentPreexisted bool
}

// RunPhase2 places self-study (自立) hours for every exchange class that
// requires them, one day at a time, preferring mid-week and morning slots,
// simultaneously committing the parent class to a 数/英 period so the
// mirror invariant holds from the start. Uses an explicit stack of
// per-day decision frames to backtrack when a day's placement forecloses
// a later day entirely, per spec.md §4.5 Phase 2.
func RunPhase2(ctx *Context) error {
	reconcileExistingJiritsuMismatches(ctx)

	for _, pair := range ctx.School.Exchange.ExchangePairs() {
		for _, subject := range ctx.School.SubjectsFor(pair.Exchange) {
			if !subject.IsSpecialNeeds() {
				continue
			}
			required := ctx.School.RequiredHours(pair.Exchange, subject)
			if required <= 0 {
				continue
			}
			placeJiritsuSubject(ctx, pair.Exchange, pair.Parent, subject, required)
		}
	}
	ctx.Logger.Debug("phase 2 complete: self-study placement")
	return nil
}

func placeJiritsuSubject(ctx *Context, exchange, parent domain.ClassRef, subject domain.Subject, required int) {
	stack := []jiritsuFrame{{dayIdx: 0, periodCursor: 0}}
	placed := 0

	for len(stack) > 0 && placed < required {
		topIdx := len(stack) - 1
		if stack[topIdx].dayIdx >= len(jiritsuDayPreference) {
			stack = stack[:topIdx]
			if len(stack) == 0 {
				break
			}
			parentIdx := len(stack) - 1
			undoJiritsuSlot(ctx, exchange, parent, stack[parentIdx].slot, stack[parentIdx].parentPreexisted)
			placed--
			continue
		}

		day := jiritsuDayPreference[stack[topIdx].dayIdx]
		placedHere := false
		for pc := stack[topIdx].periodCursor; pc < len(jiritsuPeriodPreference); pc++ {
			period := jiritsuPeriodPreference[pc]
			slot := domain.NewTimeSlot(day, period)
			if preexisted, ok := tryPlaceJiritsuSlot(ctx, exchange, parent, subject, slot); ok {
				stack[topIdx].slot = slot
				stack[topIdx].parentPreexisted = preexisted
				stack[topIdx].periodCursor = pc + 1
				placed++
				placedHere = true
				break
			}
		}
		if placedHere {
			stack = append(stack, jiritsuFrame{dayIdx: stack[topIdx].dayIdx + 1, periodCursor: 0})
			continue
		}
		stack[topIdx].dayIdx++
		stack[topIdx].periodCursor = 0
	}

	for i := 0; i < placed; i++ {
		ctx.Stats.recordPlacement(phaseJiritsu)
	}
	if placed < required {
		ctx.Stats.warn(fmt.Sprintf("jiritsu placement for %s/%s: placed %d of %d required hours", exchange, subject, placed, required))
	}
}

// reconcileExistingJiritsuMismatches fixes cells carried over from the
// input where an exchange class already holds a self-study subject (and
// is now locked per Phase 1) but its paired parent class doesn't hold an
// eligible companion subject (数/英). The exchange side can't move once
// locked, so the parent is the one that changes, matching the school's
// preference to keep the exchange student's self-study slot stable.
func reconcileExistingJiritsuMismatches(ctx *Context) {
	parentSubjects := jiritsuParentSubjects(ctx)
	if len(parentSubjects) == 0 {
		return
	}

	for _, pair := range ctx.School.Exchange.ExchangePairs() {
		for _, slot := range domain.AllTimeSlots() {
			exchangeCell := domain.NewCell(slot, pair.Exchange)
			exAssign, ok := ctx.Schedule.Get(exchangeCell)
			if !ok || exAssign.Empty() || !exAssign.Subject.IsSpecialNeeds() {
				continue
			}

			parentCell := domain.NewCell(slot, pair.Parent)
			parentAssign, pok := ctx.Schedule.Get(parentCell)
			if pok && !parentAssign.Empty() && isEligibleJiritsuParentSubject(parentSubjects, parentAssign.Subject) {
				continue
			}
			if ctx.Schedule.IsLocked(parentCell) {
				continue
			}

			if pok && !parentAssign.Empty() {
				_ = ctx.Schedule.Clear(parentCell)
			}
			for _, subject := range parentSubjects {
				teacher, _ := ctx.School.TeacherFor(pair.Parent, subject)
				cand := constraint.Candidate{Slot: slot, Class: pair.Parent, Subject: subject, Teacher: teacher}
				ok, _ := ctx.Registry.CheckBeforeAssignment(ctx.ConstraintCtx, cand)
				if !ok {
					continue
				}
				if err := ctx.Schedule.Assign(parentCell, domain.Assignment{Subject: subject, Teacher: teacher}); err == nil {
					ctx.Stats.recordPlacement(phaseCorrection)
					break
				}
			}
		}
	}
}

func isEligibleJiritsuParentSubject(parentSubjects []domain.Subject, subject domain.Subject) bool {
	for _, s := range parentSubjects {
		if s == subject {
			return true
		}
	}
	return false
}

func jiritsuParentSubjects(ctx *Context) []domain.Subject {
	set := ctx.Config.Parameters().ParentSubjectsForJiritsu
	subjects := make([]domain.Subject, 0, len(set))
	for s := range set {
		subjects = append(subjects, s)
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i] == "数" {
			return true
		}
		if subjects[j] == "数" {
			return false
		}
		return subjects[i] < subjects[j]
	})
	return subjects
}

// tryPlaceJiritsuSlot attempts to commit subject for exchange and a
// parent-eligible subject for parent at slot simultaneously. It reports
// whether the parent cell already held an eligible subject (so undo knows
// not to clear a placement it didn't make).
func tryPlaceJiritsuSlot(ctx *Context, exchange, parent domain.ClassRef, subject domain.Subject, slot domain.TimeSlot) (bool, bool) {
	exchangeCell := domain.NewCell(slot, exchange)
	parentCell := domain.NewCell(slot, parent)

	if ctx.Schedule.IsLocked(exchangeCell) || ctx.Schedule.IsLocked(parentCell) {
		return false, false
	}
	existingExchange, ok := ctx.Schedule.Get(exchangeCell)
	if ok && !existingExchange.Empty() {
		return false, false
	}

	parentSubjects := jiritsuParentSubjects(ctx)
	if len(parentSubjects) == 0 {
		return false, false
	}

	existingParent, hasParent := ctx.Schedule.Get(parentCell)
	parentPreexisted := hasParent && !existingParent.Empty()

	var parentSubject domain.Subject
	var parentTeacher domain.Teacher
	if parentPreexisted {
		eligible := false
		for _, s := range parentSubjects {
			if s == existingParent.Subject {
				eligible = true
				break
			}
		}
		if !eligible {
			return false, false
		}
		parentSubject = existingParent.Subject
		parentTeacher = existingParent.Teacher
	} else {
		parentSubject = parentSubjects[0]
		parentTeacher, _ = ctx.School.TeacherFor(parent, parentSubject)
	}

	exchangeTeacher, _ := ctx.School.TeacherFor(exchange, subject)

	ok, _ = ctx.Registry.CheckBeforeAssignment(ctx.ConstraintCtx, constraint.Candidate{
		Slot: slot, Class: exchange, Subject: subject, Teacher: exchangeTeacher,
	})
	if !ok {
		return false, false
	}

	if !parentPreexisted {
		ok, _ = ctx.Registry.CheckBeforeAssignment(ctx.ConstraintCtx, constraint.Candidate{
			Slot: slot, Class: parent, Subject: parentSubject, Teacher: parentTeacher,
		})
		if !ok {
			return false, false
		}
	}

	if !parentPreexisted {
		if err := ctx.Schedule.Assign(parentCell, domain.Assignment{Subject: parentSubject, Teacher: parentTeacher}); err != nil {
			return false, false
		}
	}
	if err := ctx.Schedule.Assign(exchangeCell, domain.Assignment{Subject: subject, Teacher: exchangeTeacher}); err != nil {
		if !parentPreexisted {
			_ = ctx.Schedule.Clear(parentCell)
		}
		return false, false
	}
	return parentPreexisted, true
}

func undoJiritsuSlot(ctx *Context, exchange, parent domain.ClassRef, slot domain.TimeSlot, parentPreexisted bool) {
	_ = ctx.Schedule.Clear(domain.NewCell(slot, exchange))
	if !parentPreexisted {
		_ = ctx.Schedule.Clear(domain.NewCell(slot, parent))
	}
}
