package constraint

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// TeacherExclusivityConstraint enforces invariant 1: no teacher appears in
// more than one assignment at a given slot, except that the Grade-5 triple
// sharing the same teacher for the same subject at the same slot counts as
// a single usage.
type TeacherExclusivityConstraint struct {
	Base
}

func NewTeacherExclusivityConstraint() *TeacherExclusivityConstraint {
	return &TeacherExclusivityConstraint{Base: NewBase("teacher-exclusivity", FamilyTeacherScheduling, Critical, Hard)}
}

// countsOnceForGrade5 reports whether two classes sharing a teacher at the
// same slot represent a single teaching session rather than a real
// double-booking: either both belong to the Grade-5 triple holding the
// same subject, or one is the exchange class mirroring its parent's
// subject (the exchange student sits in on the parent class, so the
// teacher is not actually in two places at once).
func countsOnceForGrade5(school *domain.School, a, b domain.ClassRef, subjA, subjB domain.Subject) bool {
	if school.Exchange.IsGrade5(a) && school.Exchange.IsGrade5(b) && subjA == subjB {
		return true
	}
	if subjA != subjB {
		return false
	}
	if p, ok := school.Exchange.ParentOf(a); ok && p == b {
		return true
	}
	if p, ok := school.Exchange.ParentOf(b); ok && p == a {
		return true
	}
	return false
}

func (c *TeacherExclusivityConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, slot := range domain.AllTimeSlots() {
		byTeacher := make(map[domain.Teacher][]domain.Cell)
		atSlot := ctx.Schedule.AssignmentsAt(slot)
		for class, a := range atSlot {
			if !a.HasTeacher() {
				continue
			}
			byTeacher[a.Teacher] = append(byTeacher[a.Teacher], domain.NewCell(slot, class))
		}
		for teacher, cells := range byTeacher {
			if len(cells) <= 1 {
				continue
			}
			if allPairsExempt(ctx, cells) {
				continue
			}
			for _, cell := range cells {
				a, _ := ctx.Schedule.Get(cell)
				violations = append(violations, Violation{
					Severity: SeverityError,
					Family:   FamilyTeacherScheduling,
					Slot:     slot,
					Class:    cell.Class,
					Teacher:  teacher,
					Subject:  a.Subject,
					Message:  fmt.Sprintf("teacher %q double-booked at %s", teacher, slot),
				})
			}
		}
	}
	return violations
}

// allPairsExempt reports whether every pair of cells sharing a teacher at
// one slot is individually exempt from the exclusivity rule (a Grade-5
// triple member pair or an exchange/parent mirror pair), so the whole
// group represents legitimate shared teaching rather than a conflict.
func allPairsExempt(ctx *Context, cells []domain.Cell) bool {
	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			ai, _ := ctx.Schedule.Get(cells[i])
			aj, _ := ctx.Schedule.Get(cells[j])
			if !countsOnceForGrade5(ctx.School, cells[i].Class, cells[j].Class, ai.Subject, aj.Subject) {
				return false
			}
		}
	}
	return true
}

func (c *TeacherExclusivityConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if cand.Teacher == "" {
		return true, ""
	}
	atSlot := ctx.Schedule.AssignmentsAt(cand.Slot)
	for class, a := range atSlot {
		if class == cand.Class || a.Teacher != cand.Teacher {
			continue
		}
		if countsOnceForGrade5(ctx.School, class, cand.Class, a.Subject, cand.Subject) {
			continue
		}
		return false, fmt.Sprintf("teacher %q already teaching %s at this slot", cand.Teacher, class)
	}
	return true, ""
}

// TeacherAvailabilityConstraint enforces invariant 8: no assignment
// schedules a teacher marked unavailable at that slot.
type TeacherAvailabilityConstraint struct {
	Base
}

func NewTeacherAvailabilityConstraint() *TeacherAvailabilityConstraint {
	return &TeacherAvailabilityConstraint{Base: NewBase("teacher-availability", FamilyTeacherScheduling, Critical, Hard)}
}

func (c *TeacherAvailabilityConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, cell := range ctx.Schedule.Cells() {
		a, _ := ctx.Schedule.Get(cell)
		if !a.HasTeacher() {
			continue
		}
		if !ctx.Availability.IsAvailable(a.Teacher, cell.Slot) {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Family:   FamilyTeacherScheduling,
				Slot:     cell.Slot,
				Class:    cell.Class,
				Teacher:  a.Teacher,
				Subject:  a.Subject,
				Message:  fmt.Sprintf("teacher %q is unavailable at %s", a.Teacher, cell.Slot),
			})
		}
	}
	return violations
}

func (c *TeacherAvailabilityConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if cand.Teacher == "" {
		return true, ""
	}
	if !ctx.Availability.IsAvailable(cand.Teacher, cand.Slot) {
		return false, fmt.Sprintf("teacher %q is unavailable at %s", cand.Teacher, cand.Slot)
	}
	return true, ""
}

// TeacherDailyWorkloadConstraint is a soft cap discouraging more than
// maxPerDay assignments for a single teacher on one day, smoothing load.
type TeacherDailyWorkloadConstraint struct {
	Base
	maxPerDay int
}

func NewTeacherDailyWorkloadConstraint(maxPerDay int) *TeacherDailyWorkloadConstraint {
	if maxPerDay <= 0 {
		maxPerDay = 5
	}
	return &TeacherDailyWorkloadConstraint{
		Base:      NewBase("teacher-daily-workload", FamilyTeacherScheduling, Suggestion, Soft),
		maxPerDay: maxPerDay,
	}
}

func (c *TeacherDailyWorkloadConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, day := range domain.Weekdays {
		counts := make(map[domain.Teacher]int)
		for p := domain.PeriodMin; p <= domain.PeriodMax; p++ {
			slot := domain.NewTimeSlot(day, p)
			for _, a := range ctx.Schedule.AssignmentsAt(slot) {
				if a.HasTeacher() {
					counts[a.Teacher]++
				}
			}
		}
		for teacher, n := range counts {
			if n > c.maxPerDay {
				violations = append(violations, Violation{
					Severity: SeverityWarning,
					Family:   FamilyTeacherScheduling,
					Slot:     domain.NewTimeSlot(day, 0),
					Teacher:  teacher,
					Message:  fmt.Sprintf("teacher %q has %d assignments on %s, above soft cap %d", teacher, n, day, c.maxPerDay),
				})
			}
		}
	}
	return violations
}

func (c *TeacherDailyWorkloadConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if cand.Teacher == "" {
		return true, ""
	}
	count := 0
	for p := domain.PeriodMin; p <= domain.PeriodMax; p++ {
		slot := domain.NewTimeSlot(cand.Slot.Day, p)
		for _, a := range ctx.Schedule.AssignmentsAt(slot) {
			if a.Teacher == cand.Teacher {
				count++
			}
		}
	}
	if count >= c.maxPerDay {
		return false, fmt.Sprintf("teacher %q would exceed soft daily cap of %d", cand.Teacher, c.maxPerDay)
	}
	return true, ""
}
