// Package constraint implements the typed constraint registry (C2): a set
// of hard/soft constraints classified by priority, each able to run a full
// validation scan or a cheap pre-placement admissibility check. Dispatch is
// a tagged-variant set registered imperatively (per the engine's design
// note ruling out open-ended inheritance), grounded on the
// BaseConstraint/Evaluate shape seen in the paiban constraint package.
package constraint

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
)

// Priority orders constraints for check_before_assignment short-circuiting.
type Priority int

const (
	Critical Priority = iota
	High
	Medium
	Low
	Suggestion
)

func (p Priority) String() string {
	switch p {
	case Critical:
		return "CRITICAL"
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	case Suggestion:
		return "SUGGESTION"
	default:
		return "UNKNOWN"
	}
}

// Kind distinguishes hard constraints from soft ones. A hard violation
// makes the facade's ValidationResult invalid; a soft violation is
// reported without doing so. Both kinds take part in
// Registry.CheckBeforeAssignment, where a soft constraint that refuses a
// candidate blocks it just as a hard one does.
type Kind int

const (
	Hard Kind = iota
	Soft
)

// Severity marks a Violation's urgency in a ValidationResult.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Family names the consolidated constraint family a constraint belongs to.
type Family string

const (
	FamilyProtectedSlot         Family = "ProtectedSlot"
	FamilyTeacherScheduling     Family = "TeacherScheduling"
	FamilyClassSynchronization  Family = "ClassSynchronization"
	FamilyResourceUsage         Family = "ResourceUsage"
	FamilySchedulingRule        Family = "SchedulingRule"
	FamilySubjectValidation     Family = "SubjectValidation"
)

// Violation describes one constraint breach found during a full scan.
type Violation struct {
	Severity Severity
	Family   Family
	Slot     domain.TimeSlot
	Class    domain.ClassRef
	Subject  domain.Subject
	Teacher  domain.Teacher
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s/%s] %s %s: %s", v.Severity, v.Family, v.Slot, v.Class, v.Message)
}

// Candidate is a tentative (slot, class, subject, teacher) placement to be
// checked against the current schedule before committing it.
type Candidate struct {
	Slot    domain.TimeSlot
	Class   domain.ClassRef
	Subject domain.Subject
	Teacher domain.Teacher
}

// Context bundles the read-only state every constraint consults. Within a
// single generation run the schedule is owned exclusively by the placement
// pipeline; constraints only ever read it (spec.md §5 shared-resource
// policy).
type Context struct {
	Schedule     *domain.Schedule
	School       *domain.School
	Config       ports.ConfigurationReader
	Availability domain.AvailabilityOracle
	// ForbiddenCells holds the "非X" markers extracted from source data:
	// cells that forbid a specific subject regardless of other rules.
	ForbiddenCells map[domain.Cell]map[domain.Subject]struct{}
	// MeetingInfo maps a slot to the recurring meeting occupying it, if any.
	MeetingInfo map[domain.TimeSlot]ports.MeetingInfo
}

// ForbiddenAt reports whether subject is forbidden at cell.
func (c *Context) ForbiddenAt(cell domain.Cell, subject domain.Subject) bool {
	if c.ForbiddenCells == nil {
		return false
	}
	set, ok := c.ForbiddenCells[cell]
	if !ok {
		return false
	}
	_, forbidden := set[subject]
	return forbidden
}

// Constraint is the dispatch interface every constraint kind implements.
// Adding a new constraint kind means adding a new type satisfying this
// interface and registering it; there is no inheritance hierarchy to climb.
type Constraint interface {
	Name() string
	Family() Family
	Priority() Priority
	Kind() Kind
	// Validate performs a full scan of the schedule, returning every
	// violation found.
	Validate(ctx *Context) []Violation
	// CheckAssignment decides whether placing candidate on top of the
	// current schedule is admissible under this constraint alone. The
	// returned reason is empty when admissible.
	CheckAssignment(ctx *Context, candidate Candidate) (bool, string)
}

// Base provides the common bookkeeping (name/family/priority/kind) that
// every concrete constraint embeds, grounded on the paiban
// BaseConstraint(name, type, category, weight) pattern.
type Base struct {
	name     string
	family   Family
	priority Priority
	kind     Kind
}

func NewBase(name string, family Family, priority Priority, kind Kind) Base {
	return Base{name: name, family: family, priority: priority, kind: kind}
}

func (b Base) Name() string       { return b.name }
func (b Base) Family() Family     { return b.family }
func (b Base) Priority() Priority { return b.priority }
func (b Base) Kind() Kind         { return b.kind }
