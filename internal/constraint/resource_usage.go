package constraint

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// jointGroupFor returns the joint-PE group containing class, if any, as a
// set for fast membership tests.
func jointGroupFor(ctx *Context, class domain.ClassRef) map[domain.ClassRef]struct{} {
	if ctx.Config == nil {
		return nil
	}
	for _, group := range ctx.Config.Parameters().JointPEGroups {
		for _, c := range group {
			if c == class {
				set := make(map[domain.ClassRef]struct{}, len(group))
				for _, gc := range group {
					set[gc] = struct{}{}
				}
				return set
			}
		}
	}
	return nil
}

// GymExclusivityConstraint enforces invariant 3: at most one class (or one
// registered joint-PE group) occupies the gym, i.e. holds PE, at a given
// slot. Classes sharing a joint-PE group are permitted to hold PE together.
type GymExclusivityConstraint struct {
	Base
}

func NewGymExclusivityConstraint() *GymExclusivityConstraint {
	return &GymExclusivityConstraint{Base: NewBase("gym-exclusivity", FamilyResourceUsage, Critical, Hard)}
}

func (c *GymExclusivityConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
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
		if allInSameJointGroup(ctx, peClasses) {
			continue
		}
		for _, class := range peClasses {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Family:   FamilyResourceUsage,
				Slot:     slot,
				Class:    class,
				Subject:  domain.PE,
				Message:  fmt.Sprintf("gym double-booked at %s", slot),
			})
		}
	}
	return violations
}

func allInSameJointGroup(ctx *Context, classes []domain.ClassRef) bool {
	group := jointGroupFor(ctx, classes[0])
	if group == nil {
		return false
	}
	for _, c := range classes[1:] {
		if _, ok := group[c]; !ok {
			return false
		}
	}
	return true
}

func (c *GymExclusivityConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if cand.Subject != domain.PE {
		return true, ""
	}
	group := jointGroupFor(ctx, cand.Class)
	for class, a := range ctx.Schedule.AssignmentsAt(cand.Slot) {
		if class == cand.Class || a.Subject != domain.PE {
			continue
		}
		if group != nil {
			if _, ok := group[class]; ok {
				continue
			}
		}
		return false, "gym already in use at this slot"
	}
	return true, ""
}
