package constraint

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// FixedSlotConstraint enforces the school-wide fixed assignments: Monday's
// 6th period is always "欠", and Tuesday/Wednesday/Friday's 6th period is
// "YT" for every class except the Grade-5 triple. It also forbids any
// change to a cell already holding a fixed or special-needs subject, since
// those are locked in Phase 1 and this constraint is the belt-and-braces
// check for code paths that run before locking completes.
type FixedSlotConstraint struct {
	Base
}

func NewFixedSlotConstraint() *FixedSlotConstraint {
	return &FixedSlotConstraint{Base: NewBase("fixed-slot", FamilyProtectedSlot, Critical, Hard)}
}

func (c *FixedSlotConstraint) requiredSubject(slot domain.TimeSlot, class domain.ClassRef) (domain.Subject, bool) {
	if slot.Day == domain.Monday && slot.Period == 6 {
		return "欠", true
	}
	if class.IsGrade5() {
		return "", false
	}
	if slot.Period == 6 && (slot.Day == domain.Tuesday || slot.Day == domain.Wednesday || slot.Day == domain.Friday) {
		return "YT", true
	}
	return "", false
}

func (c *FixedSlotConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, class := range ctx.School.Classes {
		for _, slot := range domain.AllTimeSlots() {
			required, ok := c.requiredSubject(slot, class)
			if !ok {
				continue
			}
			got, _ := ctx.Schedule.GetAt(slot, class)
			if got.Subject != required {
				violations = append(violations, Violation{
					Severity: SeverityError,
					Family:   FamilyProtectedSlot,
					Slot:     slot,
					Class:    class,
					Subject:  got.Subject,
					Message:  fmt.Sprintf("expected fixed subject %q, found %q", required, got.Subject),
				})
			}
		}
	}
	return violations
}

func (c *FixedSlotConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	required, ok := c.requiredSubject(cand.Slot, cand.Class)
	if ok && cand.Subject != required {
		return false, fmt.Sprintf("slot requires fixed subject %q", required)
	}
	if existing, has := ctx.Schedule.GetAt(cand.Slot, cand.Class); has && existing.Subject != cand.Subject &&
		(existing.Subject.IsFixed() || existing.Subject.IsSpecialNeeds()) {
		return false, fmt.Sprintf("cell already holds protected subject %q", existing.Subject)
	}
	return true, ""
}

// TestPeriodLockConstraint refuses any placement touching a cell within a
// marked test-period slot, regardless of subject (invariant 6).
type TestPeriodLockConstraint struct {
	Base
}

func NewTestPeriodLockConstraint() *TestPeriodLockConstraint {
	return &TestPeriodLockConstraint{Base: NewBase("test-period-lock", FamilyProtectedSlot, Critical, Hard)}
}

func (c *TestPeriodLockConstraint) Validate(ctx *Context) []Violation {
	// Content preservation for test periods is enforced structurally by
	// Schedule locking (invariant 6); this constraint only flags attempts
	// to place into one, which CheckAssignment already blocks, so a full
	// scan has nothing further to report.
	return nil
}

func (c *TestPeriodLockConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if ctx.Schedule.IsTestPeriod(cand.Slot) {
		return false, "slot falls within a locked test period"
	}
	return true, ""
}

// ForbiddenCellConstraint enforces "非X" markers: a cell may not hold a
// subject explicitly forbidden there.
type ForbiddenCellConstraint struct {
	Base
}

func NewForbiddenCellConstraint() *ForbiddenCellConstraint {
	return &ForbiddenCellConstraint{Base: NewBase("forbidden-cell", FamilyProtectedSlot, High, Hard)}
}

func (c *ForbiddenCellConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for cell, forbidden := range ctx.ForbiddenCells {
		got, ok := ctx.Schedule.Get(cell)
		if !ok || got.Empty() {
			continue
		}
		if _, isForbidden := forbidden[got.Subject]; isForbidden {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Family:   FamilyProtectedSlot,
				Slot:     cell.Slot,
				Class:    cell.Class,
				Subject:  got.Subject,
				Message:  fmt.Sprintf("subject %q is forbidden in this cell", got.Subject),
			})
		}
	}
	return violations
}

func (c *ForbiddenCellConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	cell := domain.NewCell(cand.Slot, cand.Class)
	if ctx.ForbiddenAt(cell, cand.Subject) {
		return false, fmt.Sprintf("subject %q is forbidden in this cell", cand.Subject)
	}
	return true, ""
}

// MeetingUnavailabilityConstraint makes every teacher named in a recurring
// meeting unavailable at that meeting's slot, even without an explicit
// follow-up absence note.
type MeetingUnavailabilityConstraint struct {
	Base
}

func NewMeetingUnavailabilityConstraint() *MeetingUnavailabilityConstraint {
	return &MeetingUnavailabilityConstraint{Base: NewBase("meeting-unavailability", FamilyProtectedSlot, High, Hard)}
}

func (c *MeetingUnavailabilityConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, cell := range ctx.Schedule.Cells() {
		got, _ := ctx.Schedule.Get(cell)
		if !got.HasTeacher() {
			continue
		}
		meeting, ok := ctx.MeetingInfo[cell.Slot]
		if !ok {
			continue
		}
		for _, t := range meeting.Teachers {
			if t == got.Teacher {
				violations = append(violations, Violation{
					Severity: SeverityError,
					Family:   FamilyProtectedSlot,
					Slot:     cell.Slot,
					Class:    cell.Class,
					Teacher:  got.Teacher,
					Message:  fmt.Sprintf("teacher %q is in meeting %q at this slot", got.Teacher, meeting.Name),
				})
			}
		}
	}
	return violations
}

func (c *MeetingUnavailabilityConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if cand.Teacher == "" {
		return true, ""
	}
	meeting, ok := ctx.MeetingInfo[cand.Slot]
	if !ok {
		return true, ""
	}
	for _, t := range meeting.Teachers {
		if t == cand.Teacher {
			return false, fmt.Sprintf("teacher is in meeting %q at this slot", meeting.Name)
		}
	}
	return true, ""
}
