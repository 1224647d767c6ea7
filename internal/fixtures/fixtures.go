// Package fixtures builds a small, complete School plus a
// ports.ConfigurationReader over it for use across package tests, in the
// spirit of the teacher's ExampleInputData: one hand-built example school
// good enough to exercise every constraint family at once, kept in one
// place so every package's tests describe the same world.
package fixtures

import (
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
)

// School builds three regular classes (1-1, 1-2, 1-3), one Grade-5 triple
// (1-5, 2-5, 3-5) and one exchange/parent pair (1-6 mirroring 1-1), each
// with teachers and standard hours for the core/skill/PE subjects.
func School() *domain.School {
	school := domain.NewSchool()

	regular := []domain.ClassRef{
		domain.NewClassRef(1, 1), domain.NewClassRef(1, 2), domain.NewClassRef(1, 3),
	}
	grade5 := []domain.ClassRef{
		domain.NewClassRef(1, 5), domain.NewClassRef(2, 5), domain.NewClassRef(3, 5),
	}
	exchange := domain.NewClassRef(1, 6)

	school.Classes = append(school.Classes, regular...)
	school.Classes = append(school.Classes, grade5...)
	school.Classes = append(school.Classes, exchange)

	school.Exchange.RegisterPair(exchange, regular[0])
	school.Exchange.RegisterGrade5(grade5[0], grade5[1], grade5[2])

	hours := map[domain.Subject]int{
		"国": 4, "数": 4, "英": 4, "理": 3, "社": 3,
		"音": 1, "美": 1, "技": 1, "家": 1,
		domain.PE: 3,
	}

	for _, class := range regular {
		for subject, h := range hours {
			school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: subject}] = teacherFor(class, subject)
			school.StandardHours[domain.StandardHoursKey{Class: class, Subject: subject}] = h
		}
	}

	for _, class := range grade5 {
		for _, subject := range []domain.Subject{"国", "数", "英", "自立"} {
			h := 2
			if subject == "自立" {
				h = 3
			}
			school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: subject}] = teacherFor(class, subject)
			school.StandardHours[domain.StandardHoursKey{Class: class, Subject: subject}] = h
		}
	}

	for _, subject := range []domain.Subject{"数", "英", "自立"} {
		h := 2
		if subject == "自立" {
			h = 3
		}
		school.TeacherOf[domain.TeacherAssignmentKey{Class: exchange, Subject: subject}] = teacherFor(exchange, subject)
		school.StandardHours[domain.StandardHoursKey{Class: exchange, Subject: subject}] = h
	}

	teacherSet := make(map[domain.Teacher]struct{})
	for key, teacher := range school.TeacherOf {
		_ = key
		teacherSet[teacher] = struct{}{}
	}
	for t := range teacherSet {
		school.Teachers = append(school.Teachers, t)
	}

	return school
}

func teacherFor(class domain.ClassRef, subject domain.Subject) domain.Teacher {
	return domain.Teacher(string(subject) + "-sensei-" + class.String())
}

// config is the reference ports.ConfigurationReader over School's shape.
type config struct{}

// Config returns a ConfigurationReader matching School's topology and the
// engine's documented defaults.
func Config() ports.ConfigurationReader {
	return config{}
}

func (config) Grade5Classes() []domain.ClassRef {
	return []domain.ClassRef{domain.NewClassRef(1, 5), domain.NewClassRef(2, 5), domain.NewClassRef(3, 5)}
}

func (config) ExchangeClassPairs() []ports.ExchangePair {
	return []ports.ExchangePair{{Exchange: domain.NewClassRef(1, 6), Parent: domain.NewClassRef(1, 1)}}
}

func (config) FixedSubjects() map[domain.Subject]struct{} {
	return map[domain.Subject]struct{}{"欠": {}, "YT": {}, "道": {}, "学": {}, "総": {}, "学総": {}, "行": {}, "テスト": {}, "技家": {}}
}

func (config) JiritsuSubjects() map[domain.Subject]struct{} {
	return map[domain.Subject]struct{}{"自立": {}, "日生": {}, "生単": {}, "作業": {}}
}

func (config) MeetingInfo() map[domain.TimeSlot]ports.MeetingInfo {
	return map[domain.TimeSlot]ports.MeetingInfo{}
}

func (config) RestrictedExchangeClasses() []domain.ClassRef { return nil }

func (config) Parameters() ports.Parameters {
	return ports.Parameters{
		MainSubjects:                  map[domain.Subject]struct{}{"国": {}, "数": {}, "英": {}, "理": {}, "社": {}},
		SkillSubjects:                 map[domain.Subject]struct{}{"音": {}, "美": {}, "技": {}, "家": {}},
		MainSubjectsPreferredPeriods:  []int{1, 2, 3},
		SkillSubjectsPreferredPeriods: []int{4, 5, 6},
		PEPreferredDay:                domain.Tuesday,
		ParentSubjectsForJiritsu:      ports.DefaultParentSubjectsForJiritsu(),
		ExcludedSyncSubjects:          map[domain.Subject]struct{}{domain.PE: {}},
		Temperature:                   10.0,
	}
}
