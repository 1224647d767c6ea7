package pipeline

import (
	"fmt"
	"sort"

	"github.com/seito-school/timetable-engine/internal/domain"
)

const phaseGrade5 = "grade5_sync"

// RunPhase3 places every subject the Grade-5 triple requires in common,
// one (day, period) at a time, atomically across all three classes via
// Grade5Placer, using the ratio-balancing selector to pick a teacher when
// more than one candidate teaches that subject across the triple.
func RunPhase3(ctx *Context) error {
	triple := ctx.School.Exchange.Grade5Set()
	if len(triple) < 2 {
		return nil
	}

	for _, subject := range commonGrade5Subjects(ctx.School, triple) {
		required := ctx.School.RequiredHours(triple[0], subject)
		placeGrade5Subject(ctx, triple, subject, required)
	}

	ctx.Logger.Debug("phase 3 complete: grade-5 synchronized placement")
	return nil
}

// commonGrade5Subjects returns, in stable order, every subject required by
// every class in triple with an identical weekly hour count. Subjects
// configured to be excluded from sync (e.g. 保, taught separately per
// class even within the triple) are still returned; placeGrade5Subject
// skips them.
func commonGrade5Subjects(school *domain.School, triple []domain.ClassRef) []domain.Subject {
	counts := make(map[domain.Subject]int)
	hours := make(map[domain.Subject]int)
	mismatched := make(map[domain.Subject]bool)

	for _, class := range triple {
		for _, subject := range school.SubjectsFor(class) {
			h := school.RequiredHours(class, subject)
			if existing, seen := hours[subject]; seen && existing != h {
				mismatched[subject] = true
			}
			hours[subject] = h
			counts[subject]++
		}
	}

	var out []domain.Subject
	for subject, count := range counts {
		if count == len(triple) && !mismatched[subject] {
			out = append(out, subject)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func placeGrade5Subject(ctx *Context, triple []domain.ClassRef, subject domain.Subject, required int) {
	if required <= 0 {
		return
	}
	if excludedSet := ctx.Config.Parameters().ExcludedSyncSubjects; excludedSet != nil {
		if _, excluded := excludedSet[subject]; excluded {
			return
		}
	}

	teacher := pickGrade5Teacher(ctx, triple, subject)

	placed := 0
	for _, slot := range orderedSlots(ctx, subject) {
		if placed >= required {
			break
		}
		anyBusy := false
		for _, class := range triple {
			cell := domain.NewCell(slot, class)
			if ctx.Schedule.IsLocked(cell) {
				anyBusy = true
				break
			}
			a, ok := ctx.Schedule.Get(cell)
			if ok && !a.Empty() {
				anyBusy = true
				break
			}
		}
		if anyBusy {
			continue
		}
		if err := ctx.Grade5Placer.PlaceAtomic(ctx.Registry, ctx.ConstraintCtx, ctx.Schedule, slot, subject, teacher); err == nil {
			placed++
			ctx.Stats.recordPlacement(phaseGrade5)
		}
	}

	if placed < required {
		ctx.Stats.warn(fmt.Sprintf("grade-5 sync for %q: placed %d of %d required hours", subject, placed, required))
	}
}

// pickGrade5Teacher gathers every distinct roster teacher for subject
// across the triple and, when more than one exists, defers to the
// ratio-balancing selector; otherwise returns the single candidate, or
// empty when the roster names none.
func pickGrade5Teacher(ctx *Context, triple []domain.ClassRef, subject domain.Subject) domain.Teacher {
	seen := make(map[domain.Teacher]struct{})
	var candidates []domain.Teacher
	for _, class := range triple {
		if t, ok := ctx.School.TeacherFor(class, subject); ok && t != "" {
			if _, dup := seen[t]; !dup {
				seen[t] = struct{}{}
				candidates = append(candidates, t)
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	if t, ok := ctx.Grade5Selector.Select(subject, candidates); ok {
		return t
	}
	return candidates[0]
}
