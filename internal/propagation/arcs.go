package propagation

import "github.com/seito-school/timetable-engine/internal/domain"

// Arc is a directed binary constraint between two variables: a value
// assigned to From is supported only if some value in To's domain
// satisfies Compatible.
type Arc struct {
	From, To Variable
	// Compatible reports whether (from, to) can both hold simultaneously.
	Compatible func(from, to Value) bool
}

// teacherConflictArcs generates, for every slot, a pair of arcs between
// every two distinct classes sharing that slot: a value is incompatible
// with a neighbor's value if both name the same non-empty teacher, unless
// both classes are in the Grade-5 triple and the subjects match (the
// triple's shared-teacher exception, spec.md §4.4).
func teacherConflictArcs(school *domain.School) []Arc {
	slots := domain.AllTimeSlots()
	var arcs []Arc
	for _, slot := range slots {
		for i := 0; i < len(school.Classes); i++ {
			for j := 0; j < len(school.Classes); j++ {
				if i == j {
					continue
				}
				ci, cj := school.Classes[i], school.Classes[j]
				vi := Variable{Slot: slot, Class: ci}
				vj := Variable{Slot: slot, Class: cj}
				arcs = append(arcs, Arc{
					From: vi, To: vj,
					Compatible: teacherCompatible(school, ci, cj),
				})
			}
		}
	}
	return arcs
}

func teacherCompatible(school *domain.School, a, b domain.ClassRef) func(from, to Value) bool {
	return func(from, to Value) bool {
		if from.Teacher == "" || to.Teacher == "" || from.Teacher != to.Teacher {
			return true
		}
		if school.Exchange.IsGrade5(a) && school.Exchange.IsGrade5(b) && from.Subject == to.Subject {
			return true
		}
		return false
	}
}

// dailyDuplicateArcs generates arcs between every two distinct periods of
// the same class on the same day: a value is incompatible with a
// neighbor's value if both hold the same non-protected subject twice in
// one day (spec.md §4.2 daily-subject-uniqueness invariant).
func dailyDuplicateArcs(school *domain.School) []Arc {
	var arcs []Arc
	for _, class := range school.Classes {
		for _, day := range domain.Weekdays {
			for p1 := domain.PeriodMin; p1 <= domain.PeriodMax; p1++ {
				for p2 := domain.PeriodMin; p2 <= domain.PeriodMax; p2++ {
					if p1 == p2 {
						continue
					}
					v1 := Variable{Slot: domain.NewTimeSlot(day, p1), Class: class}
					v2 := Variable{Slot: domain.NewTimeSlot(day, p2), Class: class}
					arcs = append(arcs, Arc{From: v1, To: v2, Compatible: dailyDuplicateCompatible})
				}
			}
		}
	}
	return arcs
}

func dailyDuplicateCompatible(from, to Value) bool {
	if from.Subject.IsProtected() || to.Subject.IsProtected() {
		return true
	}
	return from.Subject != to.Subject
}

// BuildArcs assembles the full arc set from every registered arc family.
// Adding a new family (e.g. a future gym arc) only means appending another
// generator call here.
func BuildArcs(school *domain.School) []Arc {
	var arcs []Arc
	arcs = append(arcs, teacherConflictArcs(school)...)
	arcs = append(arcs, dailyDuplicateArcs(school)...)
	return arcs
}

// arcIndex groups arcs by their To variable, so when a From domain shrinks
// the worklist can efficiently requeue every arc depending on it.
func arcIndex(arcs []Arc) map[Variable][]Arc {
	idx := make(map[Variable][]Arc)
	for _, arc := range arcs {
		idx[arc.To] = append(idx[arc.To], arc)
	}
	return idx
}
