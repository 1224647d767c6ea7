package domain

// TeacherAssignmentKey identifies the (subject, class) pair a teacher is
// assigned to teach.
type TeacherAssignmentKey struct {
	Class   ClassRef
	Subject Subject
}

// StandardHoursKey identifies a (class, subject) standard-weekly-hours
// requirement.
type StandardHoursKey struct {
	Class   ClassRef
	Subject Subject
}

// School collects classes, teachers, subject-to-teacher assignments and
// standard weekly hour requirements, plus a teacher-availability oracle.
type School struct {
	Classes       []ClassRef
	Teachers      []Teacher
	TeacherOf     map[TeacherAssignmentKey]Teacher
	StandardHours map[StandardHoursKey]int
	Availability   AvailabilityOracle
	Exchange      *ExchangeRegistry
}

// NewSchool builds an empty School; callers populate its exported slices
// and maps directly (loaders and tests both do so).
func NewSchool() *School {
	return &School{
		TeacherOf:     make(map[TeacherAssignmentKey]Teacher),
		StandardHours: make(map[StandardHoursKey]int),
		Availability:  NewStaticAvailability(),
		Exchange:      NewExchangeRegistry(),
	}
}

// TeacherFor returns the teacher assigned to teach subject to class, if any.
func (s *School) TeacherFor(class ClassRef, subject Subject) (Teacher, bool) {
	t, ok := s.TeacherOf[TeacherAssignmentKey{Class: class, Subject: subject}]
	return t, ok
}

// RequiredHours returns the standard weekly hour count for (class, subject).
func (s *School) RequiredHours(class ClassRef, subject Subject) int {
	return s.StandardHours[StandardHoursKey{Class: class, Subject: subject}]
}

// SubjectsFor enumerates every non-fixed subject with a nonzero standard
// hour requirement for a class, in a stable order (by subject name) so
// placement order is deterministic given a fixed School.
func (s *School) SubjectsFor(class ClassRef) []Subject {
	seen := make(map[Subject]struct{})
	var out []Subject
	for k, hours := range s.StandardHours {
		if k.Class != class || hours <= 0 || k.Subject.IsFixed() {
			continue
		}
		if _, ok := seen[k.Subject]; ok {
			continue
		}
		seen[k.Subject] = struct{}{}
		out = append(out, k.Subject)
	}
	sortSubjects(out)
	return out
}

func sortSubjects(subs []Subject) {
	for i := 1; i < len(subs); i++ {
		j := i
		for j > 0 && subs[j-1] > subs[j] {
			subs[j-1], subs[j] = subs[j], subs[j-1]
			j--
		}
	}
}
