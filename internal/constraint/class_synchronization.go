package constraint

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// Grade5SyncConstraint enforces invariant 5: the Grade-5 triple holds an
// identical subject at every slot, since the three classes are taught
// together as one group for scheduling purposes.
type Grade5SyncConstraint struct {
	Base
}

func NewGrade5SyncConstraint() *Grade5SyncConstraint {
	return &Grade5SyncConstraint{Base: NewBase("grade5-sync", FamilyClassSynchronization, Critical, Hard)}
}

func (c *Grade5SyncConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	triple := ctx.School.Exchange.Grade5Set()
	if len(triple) == 0 {
		return nil
	}
	for _, slot := range domain.AllTimeSlots() {
		var subj domain.Subject
		var seen bool
		var mismatched []domain.ClassRef
		for i, class := range triple {
			got, ok := ctx.Schedule.GetAt(slot, class)
			if !ok || got.Empty() {
				continue
			}
			if !seen {
				subj = got.Subject
				seen = true
				continue
			}
			if got.Subject != subj {
				mismatched = append(mismatched, triple[i])
			}
		}
		for _, class := range mismatched {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Family:   FamilyClassSynchronization,
				Slot:     slot,
				Class:    class,
				Subject:  subj,
				Message:  fmt.Sprintf("Grade-5 triple out of sync at %s, expected %q", slot, subj),
			})
		}
	}
	return violations
}

func (c *Grade5SyncConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	if !ctx.School.Exchange.IsGrade5(cand.Class) {
		return true, ""
	}
	for _, class := range ctx.School.Exchange.Grade5Set() {
		if class == cand.Class {
			continue
		}
		got, ok := ctx.Schedule.GetAt(cand.Slot, class)
		if !ok || got.Empty() {
			continue
		}
		if got.Subject != cand.Subject {
			return false, fmt.Sprintf("Grade-5 triple already holds %q at this slot", got.Subject)
		}
	}
	return true, ""
}

// isMainSubject reports whether subject is configured as a main subject,
// the set exchange mirroring is restricted to for restricted-only classes.
func isMainSubject(ctx *Context, subject domain.Subject) bool {
	if ctx.Config == nil {
		return false
	}
	_, ok := ctx.Config.Parameters().MainSubjects[subject]
	return ok
}

func isJiritsuSubject(ctx *Context, subject domain.Subject) bool {
	if ctx.Config == nil {
		return false
	}
	_, ok := ctx.Config.JiritsuSubjects()[subject]
	return ok
}

// ExchangeMirrorConstraint enforces invariant 4: an exchange class mirrors
// its parent class's subject at every slot, except when the exchange
// student is in a self-study (jiritsu) period, or when the exchange class
// is restricted to mirroring only during main-subject periods.
type ExchangeMirrorConstraint struct {
	Base
}

func NewExchangeMirrorConstraint() *ExchangeMirrorConstraint {
	return &ExchangeMirrorConstraint{Base: NewBase("exchange-mirror", FamilyClassSynchronization, High, Hard)}
}

func (c *ExchangeMirrorConstraint) Validate(ctx *Context) []Violation {
	var violations []Violation
	for _, pair := range ctx.School.Exchange.ExchangePairs() {
		restricted := ctx.School.Exchange.IsRestrictedToMainSubjectsOnly(pair.Exchange)
		for _, slot := range domain.AllTimeSlots() {
			exch, ok := ctx.Schedule.GetAt(slot, pair.Exchange)
			if !ok || exch.Empty() || isJiritsuSubject(ctx, exch.Subject) {
				continue
			}
			parent, ok := ctx.Schedule.GetAt(slot, pair.Parent)
			if !ok || parent.Empty() {
				continue
			}
			if restricted && !isMainSubject(ctx, parent.Subject) {
				continue
			}
			if exch.Subject != parent.Subject {
				violations = append(violations, Violation{
					Severity: SeverityError,
					Family:   FamilyClassSynchronization,
					Slot:     slot,
					Class:    pair.Exchange,
					Subject:  exch.Subject,
					Message:  fmt.Sprintf("exchange class out of sync with parent %s, expected %q", pair.Parent, parent.Subject),
				})
			}
		}
	}
	return violations
}

func (c *ExchangeMirrorConstraint) CheckAssignment(ctx *Context, cand Candidate) (bool, string) {
	parent, hasParent := ctx.School.Exchange.ParentOf(cand.Class)
	if !hasParent {
		return true, ""
	}
	if isJiritsuSubject(ctx, cand.Subject) {
		return true, ""
	}
	parentAssignment, ok := ctx.Schedule.GetAt(cand.Slot, parent)
	if !ok || parentAssignment.Empty() {
		return true, ""
	}
	if ctx.School.Exchange.IsRestrictedToMainSubjectsOnly(cand.Class) && !isMainSubject(ctx, parentAssignment.Subject) {
		return true, ""
	}
	if cand.Subject != parentAssignment.Subject {
		return false, fmt.Sprintf("must mirror parent class %s's subject %q", parent, parentAssignment.Subject)
	}
	return true, ""
}
