package propagation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seito-school/timetable-engine/internal/domain"
)

func smallSchool() *domain.School {
	school := domain.NewSchool()
	c1 := domain.NewClassRef(1, 1)
	c2 := domain.NewClassRef(1, 2)
	school.Classes = []domain.ClassRef{c1, c2}
	school.StandardHours[domain.StandardHoursKey{Class: c1, Subject: "国"}] = 4
	school.StandardHours[domain.StandardHoursKey{Class: c2, Subject: "国"}] = 4
	school.TeacherOf[domain.TeacherAssignmentKey{Class: c1, Subject: "国"}] = "tanaka"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: c2, Subject: "国"}] = "tanaka"
	school.StandardHours[domain.StandardHoursKey{Class: c1, Subject: "数"}] = 4
	school.StandardHours[domain.StandardHoursKey{Class: c1, Subject: "英"}] = 4
	school.StandardHours[domain.StandardHoursKey{Class: c2, Subject: "数"}] = 4
	school.StandardHours[domain.StandardHoursKey{Class: c2, Subject: "英"}] = 4
	school.TeacherOf[domain.TeacherAssignmentKey{Class: c1, Subject: "数"}] = "sato"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: c1, Subject: "英"}] = "suzuki"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: c2, Subject: "数"}] = "kato"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: c2, Subject: "英"}] = "ito"
	return school
}

func TestBuildDomainsRespectsLockedCell(t *testing.T) {
	school := smallSchool()
	schedule := domain.NewSchedule()
	class := school.Classes[0]
	slot := domain.NewTimeSlot(domain.Monday, 1)
	cell := domain.NewCell(slot, class)
	require.NoError(t, schedule.Assign(cell, domain.Assignment{Subject: "数", Teacher: "sato"}))
	schedule.Lock(cell)

	domains := BuildDomains(school, schedule, domain.NewStaticAvailability())
	values := domains[Variable{Slot: slot, Class: class}]
	require.Len(t, values, 1)
	assert.Equal(t, Value{Subject: "数", Teacher: "sato"}, values[0])
}

func TestBuildDomainsDropsUnavailableTeacher(t *testing.T) {
	school := smallSchool()
	schedule := domain.NewSchedule()
	avail := domain.NewStaticAvailability()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	avail.MarkUnavailable("tanaka", slot)

	domains := BuildDomains(school, schedule, avail)
	values := domains[Variable{Slot: slot, Class: school.Classes[0]}]
	for _, v := range values {
		assert.NotEqual(t, "国", string(v.Subject))
	}
}

func TestAC3RemovesTeacherConflict(t *testing.T) {
	school := smallSchool()
	schedule := domain.NewSchedule()
	domains := BuildDomains(school, schedule, domain.NewStaticAvailability())
	arcs := BuildArcs(school)

	slot := domain.NewTimeSlot(domain.Monday, 1)
	c1, c2 := school.Classes[0], school.Classes[1]

	// Collapse c1's domain at this slot to {国/tanaka} to force a conflict.
	domains[Variable{Slot: slot, Class: c1}] = []Value{{Subject: "国", Teacher: "tanaka"}}

	ok := AC3(domains, arcs)
	require.True(t, ok)

	for _, v := range domains[Variable{Slot: slot, Class: c2}] {
		assert.False(t, v.Subject == "国" && v.Teacher == "tanaka")
	}
}

func TestAC3DetectsEmptyDomain(t *testing.T) {
	school := smallSchool()
	schedule := domain.NewSchedule()
	domains := BuildDomains(school, schedule, domain.NewStaticAvailability())
	arcs := BuildArcs(school)

	slot := domain.NewTimeSlot(domain.Monday, 1)
	c1, c2 := school.Classes[0], school.Classes[1]
	domains[Variable{Slot: slot, Class: c1}] = []Value{{Subject: "国", Teacher: "tanaka"}}
	domains[Variable{Slot: slot, Class: c2}] = []Value{{Subject: "国", Teacher: "tanaka"}}

	ok := AC3(domains, arcs)
	assert.False(t, ok)
}

func TestForwardCheckRemovesDailyDuplicate(t *testing.T) {
	school := smallSchool()
	schedule := domain.NewSchedule()
	domains := BuildDomains(school, schedule, domain.NewStaticAvailability())
	arcs := BuildArcs(school)

	c1 := school.Classes[0]
	slot1 := domain.NewTimeSlot(domain.Monday, 1)
	variable := Variable{Slot: slot1, Class: c1}

	removed, ok := ForwardCheck(domains, arcs, variable, Value{Subject: "国", Teacher: "tanaka"})
	require.True(t, ok)
	assert.NotEmpty(t, removed)

	for otherVar, values := range domains {
		if otherVar.Class != c1 || otherVar.Slot.Day != domain.Monday || otherVar == variable {
			continue
		}
		for _, v := range values {
			assert.NotEqual(t, domain.Subject("国"), v.Subject)
		}
	}

	Undo(domains, removed)
}

func TestInferSingletonDomain(t *testing.T) {
	domains := DomainStore{
		Variable{Slot: domain.NewTimeSlot(domain.Monday, 1), Class: domain.NewClassRef(1, 1)}: {{Subject: "国", Teacher: "tanaka"}},
		Variable{Slot: domain.NewTimeSlot(domain.Monday, 2), Class: domain.NewClassRef(1, 1)}: {{Subject: "国"}, {Subject: "数"}},
	}
	implied := Infer(domains)
	assert.Len(t, implied, 1)
}
