package constraint

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// DailySubjectUniquenessConstraint enforces invariant 2: a class does not
// repeat the same non-protected subject twice within one day. Fixed and
// special-needs subjects are exempt since their daily placement is
// structural, not a scheduling choice.
type DailySubjectUniquenessConstraint struct {
	Base
}

func NewDailySubjectUniquenessConstraint() *DailySubjectUniquenessConstraint {
	return &DailySubjectUniquenessConstraint{Base: NewBase("daily-subject-uniqueness", FamilySchedulingRule, Critical, Hard)}
}

func (c *DailySubjectUniquenessConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, class := range ctx.School.Classes {
		for _, day := range domain.Weekdays {
			seen := make(map[domain.Subject]int)
			for p := domain.PeriodMin; p <= domain.PeriodMax; p++ {
				slot := domain.NewTimeSlot(day, p)
				a, ok := ctx.Schedule.GetAt(slot, class)
				if !ok || a.Empty() || a.Subject.IsProtected() {
					continue
				}
				seen[a.Subject]++
			}
			for subject, count := range seen {
				if count > 1 {
					violations = append(violations, Violation{
						Severity: SeverityError,
						Family:   FamilySchedulingRule,
						Slot:     domain.NewTimeSlot(day, 0),
						Class:    class,
						Subject:  subject,
						Message:  fmt.Sprintf("%q appears %d times on %s", subject, count, day),
					})
				}
			}
		}
	}
	return violations
}

func (c *DailySubjectUniquenessConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if cand.Subject.IsProtected() {
		return true, ""
	}
	for p := domain.PeriodMin; p <= domain.PeriodMax; p++ {
		slot := domain.NewTimeSlot(cand.Slot.Day, p)
		if slot == cand.Slot {
			continue
		}
		a, ok := ctx.Schedule.GetAt(slot, cand.Class)
		if ok && !a.Empty() && a.Subject == cand.Subject {
			return false, fmt.Sprintf("%q already scheduled on %s", cand.Subject, cand.Slot.Day)
		}
	}
	return true, ""
}

// HoursBudgetConstraint enforces invariant 7: a class never receives more
// weekly occurrences of a subject than its configured standard hours.
// Falling short is reported as a soft warning rather than blocked, since
// partial placement is expected mid-generation.
type HoursBudgetConstraint struct {
	Base
}

func NewHoursBudgetConstraint() *HoursBudgetConstraint {
	return &HoursBudgetConstraint{Base: NewBase("hours-budget", FamilySchedulingRule, High, Hard)}
}

func (c *HoursBudgetConstraint) countFor(ctx *Context, class domain.ClassRef, subject domain.Subject) int {
	count := 0
	for _, a := range ctx.Schedule.AssignmentsFor(class) {
		if a.Subject == subject {
			count++
		}
	}
	return count
}

func (c *HoursBudgetConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, class := range ctx.School.Classes {
		for _, subject := range ctx.School.SubjectsFor(class) {
			required := ctx.School.RequiredHours(class, subject)
			if required <= 0 {
				continue
			}
			got := c.countFor(ctx, class, subject)
			if got != required {
				violations = append(violations, Violation{
					Severity: SeverityWarning,
					Family:   FamilySchedulingRule,
					Class:    class,
					Subject:  subject,
					Message:  fmt.Sprintf("%s/%s has %d of %d required weekly hours", class, subject, got, required),
				})
			}
		}
	}
	return violations
}

func (c *HoursBudgetConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	required := ctx.School.RequiredHours(cand.Class, cand.Subject)
	if required <= 0 {
		return true, ""
	}
	got := c.countFor(ctx, cand.Class, cand.Subject)
	if got >= required {
		return false, fmt.Sprintf("%s/%s already has its %d required weekly hours", cand.Class, cand.Subject, required)
	}
	return true, ""
}

// MorningPreferenceConstraint is a soft preference (Suggestion-level):
// main subjects are preferred in the configured morning periods, skill
// subjects in the configured afternoon periods, and PE on the configured
// preferred day. Violations never block placement; they only weigh the
// optimizer's scoring.
type MorningPreferenceConstraint struct {
	Base
}

func NewMorningPreferenceConstraint() *MorningPreferenceConstraint {
	return &MorningPreferenceConstraint{Base: NewBase("morning-preference", FamilySchedulingRule, Suggestion, Soft)}
}

func inPeriodSet(period int, periods []int) bool {
	for _, p := range periods {
		if p == period {
			return true
		}
	}
	return len(periods) == 0
}

func (c *MorningPreferenceConstraint) mismatch(ctx *Context, slot domain.TimeSlot, subject domain.Subject) string {
	if ctx.Config == nil {
		return ""
	}
	params := ctx.Config.Parameters()
	if _, ok := params.MainSubjects[subject]; ok {
		if !inPeriodSet(slot.Period, params.MainSubjectsPreferredPeriods) {
			return fmt.Sprintf("main subject %q outside preferred periods", subject)
		}
	}
	if _, ok := params.SkillSubjects[subject]; ok {
		if !inPeriodSet(slot.Period, params.SkillSubjectsPreferredPeriods) {
			return fmt.Sprintf("skill subject %q outside preferred periods", subject)
		}
	}
	if subject == domain.PE && slot.Day != params.PEPreferredDay {
		return "PE scheduled outside preferred day"
	}
	return ""
}

func (c *MorningPreferenceConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, cell := range ctx.Schedule.Cells() {
		a, _ := ctx.Schedule.Get(cell)
		if a.Empty() {
			continue
		}
		if msg := c.mismatch(ctx, cell.Slot, a.Subject); msg != "" {
			violations = append(violations, Violation{
				Severity: SeverityWarning,
				Family:   FamilySchedulingRule,
				Slot:     cell.Slot,
				Class:    cell.Class,
				Subject:  a.Subject,
				Message:  msg,
			})
		}
	}
	return violations
}

func (c *MorningPreferenceConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	return true, ""
}
