// Package ports declares the narrow interfaces the core scheduling engine
// consumes from external collaborators (repositories, follow-up parsing,
// configuration) and exposes nothing of its own storage or wire format —
// per spec.md §6, the core defines no wire format; all persistence is the
// collaborators' concern.
package ports

import (
	"context"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// SchoolRepository loads the School aggregate: classes, teachers, standard
// hours and teacher-subject-class mappings.
type SchoolRepository interface {
	LoadSchool(ctx context.Context) (*domain.School, error)
}

// ScheduleRepository loads the initial partial schedule and persists the
// final one. ForbiddenCells extracts "非X" markers from the source data.
type ScheduleRepository interface {
	LoadInitial(ctx context.Context, school *domain.School) (*domain.Schedule, error)
	Save(ctx context.Context, schedule *domain.Schedule) error
	ForbiddenCells(ctx context.Context) (map[domain.Cell]map[domain.Subject]struct{}, error)
}

// TeacherAbsenceRepository answers whether a teacher is absent at a slot,
// sourced from the weekly follow-up notes.
type TeacherAbsenceRepository interface {
	IsAbsent(name domain.Teacher, slot domain.TimeSlot) bool
}

// TestPeriod describes a block of periods on a day reserved for
// examinations; its content must be preserved unmodified.
type TestPeriod struct {
	Day         domain.Weekday
	Periods     []int
	Description string
}

// FollowUpParser extracts weekly exceptions from the follow-up notes:
// test periods, free-form special instructions, and teacher absences.
type FollowUpParser interface {
	ParseTestPeriods() ([]TestPeriod, error)
	SpecialInstructions() ([]string, error)
	ParseTeacherAbsences() (map[domain.Teacher][]domain.TimeSlot, error)
}

// ExchangePair names an (exchange, parent) class pairing read from config.
type ExchangePair struct {
	Exchange domain.ClassRef
	Parent   domain.ClassRef
}

// MeetingInfo names a recurring school meeting occupying a slot and the
// teachers it makes unavailable even absent an explicit follow-up note.
type MeetingInfo struct {
	Name     string
	Teachers []domain.Teacher
}

// Parameters holds the tunable scheduling parameters read from
// configuration (spec.md §6 "Configuration parameters recognized").
type Parameters struct {
	MainSubjects                  map[domain.Subject]struct{}
	SkillSubjects                 map[domain.Subject]struct{}
	MainSubjectsPreferredPeriods  []int
	SkillSubjectsPreferredPeriods []int
	PEPreferredDay                domain.Weekday
	ParentSubjectsForJiritsu      map[domain.Subject]struct{}
	ExcludedSyncSubjects          map[domain.Subject]struct{}
	Temperature                   float64
	JointPEGroups                 [][]domain.ClassRef
	GradeFiveTeacherRatios        map[domain.Subject]map[domain.Teacher]float64
}

// DefaultParentSubjectsForJiritsu is the spec.md default {"数","英"}.
func DefaultParentSubjectsForJiritsu() map[domain.Subject]struct{} {
	return map[domain.Subject]struct{}{"数": {}, "英": {}}
}

// ConfigurationReader exposes static scheduling configuration: the
// Grade-5/exchange class topology, fixed/jiritsu subject sets, meeting
// unavailability and the tunable Parameters above.
type ConfigurationReader interface {
	Grade5Classes() []domain.ClassRef
	ExchangeClassPairs() []ExchangePair
	FixedSubjects() map[domain.Subject]struct{}
	JiritsuSubjects() map[domain.Subject]struct{}
	MeetingInfo() map[domain.TimeSlot]MeetingInfo
	RestrictedExchangeClasses() []domain.ClassRef
	Parameters() Parameters
}
