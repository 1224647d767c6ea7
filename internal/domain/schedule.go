package domain

import (
	"sort"

	domerrors "github.com/seito-school/timetable-engine/pkg/errors"
)

// Schedule is the mapping (TimeSlot, ClassRef) -> Assignment, plus the
// lock-set and test-period set. It is the one mutable aggregate in the
// domain model; every other value object is immutable. Locks are
// monotonic: once a cell is locked it stays locked for the life of the
// generation run (spec.md §3 Lifecycles).
type Schedule struct {
	assignments map[Cell]Assignment
	locked      map[Cell]struct{}
	testPeriods map[TimeSlot]struct{}
	onMutate    []func()
}

// NewSchedule builds an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{
		assignments: make(map[Cell]Assignment),
		locked:      make(map[Cell]struct{}),
		testPeriods: make(map[TimeSlot]struct{}),
	}
}

// OnMutate registers a callback invoked after every mutation (assign,
// clear or lock). The constraint registry uses this to invalidate its
// per-candidate cache, per the design note that cache invalidation is a
// full clear triggered by schedule mutation events.
func (s *Schedule) OnMutate(fn func()) {
	s.onMutate = append(s.onMutate, fn)
}

func (s *Schedule) notify() {
	for _, fn := range s.onMutate {
		fn()
	}
}

// Get returns the assignment at a cell, and whether one is present.
func (s *Schedule) Get(cell Cell) (Assignment, bool) {
	a, ok := s.assignments[cell]
	return a, ok
}

// GetAt is a convenience wrapper over Get taking slot and class directly.
func (s *Schedule) GetAt(slot TimeSlot, class ClassRef) (Assignment, bool) {
	return s.Get(Cell{Slot: slot, Class: class})
}

// IsLocked reports whether a cell is in the lock-set.
func (s *Schedule) IsLocked(cell Cell) bool {
	_, ok := s.locked[cell]
	return ok
}

// Assign places an assignment at a cell. It refuses to modify a locked
// cell, returning pkg/errors.ErrFixedSubjectProtection (invariant 6);
// placers are expected to check for this with errors.Is and skip the cell
// rather than treat it as fatal.
func (s *Schedule) Assign(cell Cell, a Assignment) error {
	if s.IsLocked(cell) {
		return domerrors.ErrFixedSubjectProtection
	}
	a.Class = cell.Class
	s.assignments[cell] = a
	s.notify()
	return nil
}

// SeedAssign places an assignment ignoring the lock-set. It is used only
// by loaders populating the initial schedule before any cell has been
// locked (Phase 1 runs after seeding, per spec.md §4.5).
func (s *Schedule) SeedAssign(cell Cell, a Assignment) {
	a.Class = cell.Class
	s.assignments[cell] = a
	s.notify()
}

// Clear removes any assignment at a cell, refusing to touch a locked cell.
func (s *Schedule) Clear(cell Cell) error {
	if s.IsLocked(cell) {
		return domerrors.ErrFixedSubjectProtection
	}
	delete(s.assignments, cell)
	s.notify()
	return nil
}

// Lock adds a cell to the lock-set. Locking is monotonic and idempotent.
func (s *Schedule) Lock(cell Cell) {
	s.locked[cell] = struct{}{}
	s.notify()
}

// MarkTestPeriod flags a (day, period) as a test period: its content is
// frozen for every class irrespective of what subject occupies it
// (invariant 6).
func (s *Schedule) MarkTestPeriod(slot TimeSlot) {
	s.testPeriods[slot] = struct{}{}
}

// IsTestPeriod reports whether a slot has been marked as a test period.
func (s *Schedule) IsTestPeriod(slot TimeSlot) bool {
	_, ok := s.testPeriods[slot]
	return ok
}

// TestPeriods returns the set of test-period slots.
func (s *Schedule) TestPeriods() []TimeSlot {
	out := make([]TimeSlot, 0, len(s.testPeriods))
	for slot := range s.testPeriods {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// LockTestPeriodCells locks every (slot, class) cell for every marked
// test-period slot, across the given classes, regardless of current
// content (spec.md §4.4 "Protection").
func (s *Schedule) LockTestPeriodCells(classes []ClassRef) {
	for slot := range s.testPeriods {
		for _, c := range classes {
			s.Lock(Cell{Slot: slot, Class: c})
		}
	}
}

// Cells returns every occupied cell, in canonical (slot, class) order.
func (s *Schedule) Cells() []Cell {
	out := make([]Cell, 0, len(s.assignments))
	for c := range s.assignments {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Slot.Less(out[j].Slot) && !out[j].Slot.Less(out[i].Slot) {
			return out[i].Class.Less(out[j].Class)
		}
		return out[i].Slot.Less(out[j].Slot)
	})
	return out
}

// AssignmentsFor returns all assignments for a class across the week,
// keyed by slot.
func (s *Schedule) AssignmentsFor(class ClassRef) map[TimeSlot]Assignment {
	out := make(map[TimeSlot]Assignment)
	for cell, a := range s.assignments {
		if cell.Class == class {
			out[cell.Slot] = a
		}
	}
	return out
}

// AssignmentsAt returns all assignments present at a slot, keyed by class.
func (s *Schedule) AssignmentsAt(slot TimeSlot) map[ClassRef]Assignment {
	out := make(map[ClassRef]Assignment)
	for cell, a := range s.assignments {
		if cell.Slot == slot {
			out[cell.Class] = a
		}
	}
	return out
}

// Clone deep-copies the schedule, used by the optimizer and backtracking
// placer to snapshot state before a tentative mutation and roll back on
// failure without re-deriving it from scratch.
func (s *Schedule) Clone() *Schedule {
	clone := &Schedule{
		assignments: make(map[Cell]Assignment, len(s.assignments)),
		locked:      make(map[Cell]struct{}, len(s.locked)),
		testPeriods: make(map[TimeSlot]struct{}, len(s.testPeriods)),
	}
	for k, v := range s.assignments {
		clone.assignments[k] = v
	}
	for k, v := range s.locked {
		clone.locked[k] = v
	}
	for k, v := range s.testPeriods {
		clone.testPeriods[k] = v
	}
	return clone
}

// RestoreFrom replaces this schedule's mutable contents with a snapshot
// previously produced by Clone, preserving registered onMutate callbacks,
// and fires the notification once.
func (s *Schedule) RestoreFrom(snapshot *Schedule) {
	s.assignments = snapshot.assignments
	s.locked = snapshot.locked
	s.testPeriods = snapshot.testPeriods
	s.notify()
}
