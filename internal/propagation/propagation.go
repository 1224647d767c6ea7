// Package propagation implements the arc-consistency engine (C3): building
// per-variable domains, revising them to arc consistency, forward checking
// a tentative assignment, and maintaining arc consistency (MAC) for the
// placement pipeline's backtracking search. Grounded on the worklist-of-arcs
// shape used by the original Python constraint-propagation service, ported
// to an explicit Go worklist rather than the source's generator-based
// revision loop.
package propagation

import (
	"github.com/seito-school/timetable-engine/internal/domain"
)

// Variable is a (slot, class) pair the propagation engine assigns a Value.
type Variable struct {
	Slot  domain.TimeSlot
	Class domain.ClassRef
}

// Value is a candidate (subject, teacher) pairing legal for a variable's
// class. Teacher is empty when the school roster does not name one.
type Value struct {
	Subject domain.Subject
	Teacher domain.Teacher
}

// DomainStore holds the current candidate set for every variable.
type DomainStore map[Variable][]Value

// Clone returns a deep copy of the store, so callers can roll back a
// tentative propagation pass without disturbing the caller's copy.
func (d DomainStore) Clone() DomainStore {
	out := make(DomainStore, len(d))
	for v, values := range d {
		cp := make([]Value, len(values))
		copy(cp, values)
		out[v] = cp
	}
	return out
}

func removeValue(values []Value, target Value) ([]Value, bool) {
	for i, v := range values {
		if v == target {
			out := make([]Value, 0, len(values)-1)
			out = append(out, values[:i]...)
			out = append(out, values[i+1:]...)
			return out, true
		}
	}
	return values, false
}

func containsValue(values []Value, target Value) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// BuildDomains enumerates, for every (slot, class) variable, the candidate
// (subject, teacher) values legal for that class: subjects with remaining
// standard hours, paired with the roster teacher (if any), dropping values
// whose teacher is unavailable at that slot. Locked cells collapse to a
// singleton domain holding their existing content, matching spec.md §4.3's
// "cell is locked with a different value" pre-filter.
func BuildDomains(school *domain.School, schedule *domain.Schedule, availability domain.AvailabilityOracle) DomainStore {
	domains := make(DomainStore)
	for _, class := range school.Classes {
		for _, slot := range domain.AllTimeSlots() {
			variable := Variable{Slot: slot, Class: class}
			cell := domain.NewCell(slot, class)
			if schedule.IsLocked(cell) {
				existing, _ := schedule.Get(cell)
				domains[variable] = []Value{{Subject: existing.Subject, Teacher: existing.Teacher}}
				continue
			}
			var values []Value
			for _, subject := range school.SubjectsFor(class) {
				teacher, hasTeacher := school.TeacherFor(class, subject)
				if hasTeacher && availability != nil && !availability.IsAvailable(teacher, slot) {
					continue
				}
				values = append(values, Value{Subject: subject, Teacher: teacher})
			}
			domains[variable] = values
		}
	}
	return domains
}
