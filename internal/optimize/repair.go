package optimize

import (
	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
)

// Repairer runs the targeted constraint-specific passes spec.md §4.6
// describes as following swap optimization: relocate the losing side of
// a gym double-booking, and replace the later occurrence of a daily
// subject duplicate with the class's best deficit subject.
type Repairer struct {
	Registry *constraint.Registry
}

func NewRepairer(registry *constraint.Registry) *Repairer {
	return &Repairer{Registry: registry}
}

// RepairAll runs every repair pass once and returns the total number of
// cells it changed.
func (r *Repairer) RepairAll(ctx *constraint.Context) int {
	return r.repairGym(ctx) + r.repairDailyDuplicates(ctx)
}

// repairGym finds every slot where more than one class (outside a shared
// joint-PE group) holds PE, and relocates every class but the first to
// its best-scoring free slot still within its weekly PE budget.
func (r *Repairer) repairGym(ctx *constraint.Context) int {
	repaired := 0
	for _, slot := range domain.AllTimeSlots() {
		var peClasses []domain.ClassRef
		for class, a := range ctx.Schedule.AssignmentsAt(slot) {
			if a.Subject == domain.PE {
				peClasses = append(peClasses, class)
			}
		}
		if len(peClasses) <= 1 {
			continue
		}
		sortClasses(peClasses)

		for _, class := range peClasses[1:] {
			cell := domain.NewCell(slot, class)
			if ctx.Schedule.IsLocked(cell) {
				continue
			}
			teacher, _ := ctx.School.TeacherFor(class, domain.PE)
			if relocateToFreeSlot(ctx, r.Registry, cell, domain.PE, teacher) {
				repaired++
			}
		}
	}
	return repaired
}

// repairDailyDuplicates finds, for every class and day, any subject
// occurring more than once and replaces every occurrence after the first
// with the class's most-deficient subject still under budget.
func (r *Repairer) repairDailyDuplicates(ctx *constraint.Context) int {
	repaired := 0
	for _, class := range ctx.School.Classes {
		for _, day := range domain.Weekdays {
			seen := make(map[domain.Subject]domain.TimeSlot)
			for p := domain.PeriodMin; p <= domain.PeriodMax; p++ {
				slot := domain.NewTimeSlot(day, p)
				cell := domain.NewCell(slot, class)
				a, ok := ctx.Schedule.Get(cell)
				if !ok || a.Empty() || a.Subject.IsProtected() {
					continue
				}
				if _, dup := seen[a.Subject]; dup {
					if ctx.Schedule.IsLocked(cell) {
						continue
					}
					if replaceWithDeficitSubject(ctx, r.Registry, cell) {
						repaired++
					}
					continue
				}
				seen[a.Subject] = slot
			}
		}
	}
	return repaired
}

// deficitSubjectFor returns the subject with the largest shortfall
// (required - placed) for class, among subjects still under budget.
func deficitSubjectFor(ctx *constraint.Context, class domain.ClassRef) (domain.Subject, bool) {
	placed := make(map[domain.Subject]int)
	for _, a := range ctx.Schedule.AssignmentsFor(class) {
		placed[a.Subject]++
	}

	var best domain.Subject
	bestDeficit := 0
	found := false
	for _, subject := range ctx.School.SubjectsFor(class) {
		required := ctx.School.RequiredHours(class, subject)
		deficit := required - placed[subject]
		if deficit > bestDeficit {
			bestDeficit = deficit
			best = subject
			found = true
		}
	}
	return best, found
}

func replaceWithDeficitSubject(ctx *constraint.Context, registry *constraint.Registry, cell domain.Cell) bool {
	subject, ok := deficitSubjectFor(ctx, cell.Class)
	if !ok {
		_ = ctx.Schedule.Clear(cell)
		return true
	}
	teacher, _ := ctx.School.TeacherFor(cell.Class, subject)
	cand := constraint.Candidate{Slot: cell.Slot, Class: cell.Class, Subject: subject, Teacher: teacher}
	if err := ctx.Schedule.Clear(cell); err != nil {
		return false
	}
	if ok, _ := registry.CheckBeforeAssignment(ctx, cand); !ok {
		return true
	}
	_ = ctx.Schedule.Assign(cell, domain.Assignment{Subject: subject, Teacher: teacher})
	return true
}

// relocateToFreeSlot clears cell and tries to place (subject, teacher)
// into the same class's best-scoring free slot elsewhere in the week,
// leaving the cell empty if no slot admits it.
func relocateToFreeSlot(ctx *constraint.Context, registry *constraint.Registry, cell domain.Cell, subject domain.Subject, teacher domain.Teacher) bool {
	if err := ctx.Schedule.Clear(cell); err != nil {
		return false
	}
	for _, slot := range domain.AllTimeSlots() {
		if slot == cell.Slot {
			continue
		}
		target := domain.NewCell(slot, cell.Class)
		if ctx.Schedule.IsLocked(target) {
			continue
		}
		existing, ok := ctx.Schedule.Get(target)
		if ok && !existing.Empty() {
			continue
		}
		cand := constraint.Candidate{Slot: slot, Class: cell.Class, Subject: subject, Teacher: teacher}
		if ok, _ := registry.CheckBeforeAssignment(ctx, cand); ok {
			_ = ctx.Schedule.Assign(target, domain.Assignment{Subject: subject, Teacher: teacher})
			return true
		}
	}
	return true
}

func sortClasses(classes []domain.ClassRef) {
	for i := 1; i < len(classes); i++ {
		j := i
		for j > 0 && classes[j].Less(classes[j-1]) {
			classes[j-1], classes[j] = classes[j], classes[j-1]
			j--
		}
	}
}
