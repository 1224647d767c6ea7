package constraint

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// SubjectClassEligibilityConstraint restricts special-needs subjects
// (自立/日生/生単/作業) to Grade-5 and exchange classes: any other class may
// never be assigned a special-needs subject, since those periods only exist
// for students receiving individualized instruction.
type SubjectClassEligibilityConstraint struct {
	Base
}

func NewSubjectClassEligibilityConstraint() *SubjectClassEligibilityConstraint {
	return &SubjectClassEligibilityConstraint{Base: NewBase("subject-class-eligibility", FamilySubjectValidation, High, Hard)}
}

func (c *SubjectClassEligibilityConstraint) eligible(class domain.ClassRef, subject domain.Subject) (bool, string) {
	if subject.IsSpecialNeeds() && !class.IsExchange() && !class.IsGrade5() {
		return false, fmt.Sprintf("special-needs subject %q is only valid for a Grade-5 or exchange class", subject)
	}
	return true, ""
}

func (c *SubjectClassEligibilityConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, cell := range ctx.Schedule.Cells() {
		a, _ := ctx.Schedule.Get(cell)
		if a.Empty() {
			continue
		}
		if ok, reason := c.eligible(cell.Class, a.Subject); !ok {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Family:   FamilySubjectValidation,
				Slot:     cell.Slot,
				Class:    cell.Class,
				Subject:  a.Subject,
				Message:  reason,
			})
		}
	}
	return violations
}

func (c *SubjectClassEligibilityConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if ok, reason := c.eligible(cand.Class, cand.Subject); !ok {
		return false, reason
	}
	return true, ""
}

// TeacherSubjectAssignmentConstraint enforces that a candidate's teacher,
// when specified, matches the teacher the school roster assigns to that
// class/subject pair. An unassigned-teacher candidate is allowed through
// (placement phases fill the teacher from the roster before committing).
type TeacherSubjectAssignmentConstraint struct {
	Base
}

func NewTeacherSubjectAssignmentConstraint() *TeacherSubjectAssignmentConstraint {
	return &TeacherSubjectAssignmentConstraint{Base: NewBase("teacher-subject-assignment", FamilySubjectValidation, High, Hard)}
}

func (c *TeacherSubjectAssignmentConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, cell := range ctx.Schedule.Cells() {
		a, _ := ctx.Schedule.Get(cell)
		if a.Empty() || !a.HasTeacher() {
			continue
		}
		rostered, ok := ctx.School.TeacherFor(cell.Class, a.Subject)
		if !ok || rostered == "" {
			continue
		}
		if rostered != a.Teacher {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Family:   FamilySubjectValidation,
				Slot:     cell.Slot,
				Class:    cell.Class,
				Subject:  a.Subject,
				Teacher:  a.Teacher,
				Message:  fmt.Sprintf("roster assigns %q to %s/%s, not %q", rostered, cell.Class, a.Subject, a.Teacher),
			})
		}
	}
	return violations
}

func (c *TeacherSubjectAssignmentConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if cand.Teacher == "" {
		return true, ""
	}
	rostered, ok := ctx.School.TeacherFor(cand.Class, cand.Subject)
	if !ok || rostered == "" {
		return true, ""
	}
	if rostered != cand.Teacher {
		return false, fmt.Sprintf("roster assigns %q to %s/%s", rostered, cand.Class, cand.Subject)
	}
	return true, ""
}
