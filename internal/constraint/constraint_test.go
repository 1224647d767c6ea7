package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
)

// fakeConfig is a minimal ports.ConfigurationReader for constraint tests.
type fakeConfig struct {
	main, skill, jiritsu map[domain.Subject]struct{}
	peDay                domain.Weekday
	jointGroups          [][]domain.ClassRef
}

func (f fakeConfig) Grade5Classes() []domain.ClassRef             { return nil }
func (f fakeConfig) ExchangeClassPairs() []ports.ExchangePair     { return nil }
func (f fakeConfig) FixedSubjects() map[domain.Subject]struct{}   { return nil }
func (f fakeConfig) JiritsuSubjects() map[domain.Subject]struct{} { return f.jiritsu }
func (f fakeConfig) MeetingInfo() map[domain.TimeSlot]ports.MeetingInfo {
	return map[domain.TimeSlot]ports.MeetingInfo{}
}
func (f fakeConfig) RestrictedExchangeClasses() []domain.ClassRef { return nil }
func (f fakeConfig) Parameters() ports.Parameters {
	return ports.Parameters{
		MainSubjects:                  f.main,
		SkillSubjects:                 f.skill,
		MainSubjectsPreferredPeriods:  []int{1, 2, 3},
		SkillSubjectsPreferredPeriods: []int{4, 5, 6},
		PEPreferredDay:                f.peDay,
		JointPEGroups:                 f.jointGroups,
	}
}

func newFakeConfig() fakeConfig {
	return fakeConfig{
		main:    map[domain.Subject]struct{}{"国": {}, "数": {}, "英": {}},
		skill:   map[domain.Subject]struct{}{"音": {}, "美": {}},
		jiritsu: map[domain.Subject]struct{}{"自立": {}, "日生": {}},
		peDay:   domain.Tuesday,
	}
}

func newTestSchool(regular, exchange, parent domain.ClassRef) *domain.School {
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{regular, exchange, parent}
	school.Exchange.RegisterPair(exchange, parent)
	return school
}

func baseContext(school *domain.School, schedule *domain.Schedule) *Context {
	return &Context{
		Schedule:     schedule,
		School:       school,
		Config:       newFakeConfig(),
		Availability: domain.NewStaticAvailability(),
	}
}

func TestTeacherExclusivityBlocksDoubleBooking(t *testing.T) {
	school := newTestSchool(domain.NewClassRef(1, 1), domain.NewClassRef(1, 6), domain.NewClassRef(1, 2))
	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	require.NoError(t, schedule.Assign(domain.NewCell(slot, domain.NewClassRef(1, 1)), domain.Assignment{Subject: "国", Teacher: "tanaka"}))

	ctx := baseContext(school, schedule)
	c := NewTeacherExclusivityConstraint()

	ok, reason := c.CheckAssignment(ctx, Candidate{Slot: slot, Class: domain.NewClassRef(1, 2), Subject: "数", Teacher: "tanaka"})
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	ok, _ = c.CheckAssignment(ctx, Candidate{Slot: slot, Class: domain.NewClassRef(1, 2), Subject: "数", Teacher: "sato"})
	assert.True(t, ok)
}

func TestTeacherExclusivityAllowsGrade5SameTeacherSameSubject(t *testing.T) {
	g1, g2, g3 := domain.NewClassRef(1, 5), domain.NewClassRef(2, 5), domain.NewClassRef(3, 5)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{g1, g2, g3}
	school.Exchange.RegisterGrade5(g1, g2, g3)

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	require.NoError(t, schedule.Assign(domain.NewCell(slot, g1), domain.Assignment{Subject: "音", Teacher: "suzuki"}))
	require.NoError(t, schedule.Assign(domain.NewCell(slot, g2), domain.Assignment{Subject: "音", Teacher: "suzuki"}))

	ctx := baseContext(school, schedule)
	c := NewTeacherExclusivityConstraint()

	ok, reason := c.CheckAssignment(ctx, Candidate{Slot: slot, Class: g3, Subject: "音", Teacher: "suzuki"})
	assert.True(t, ok, reason)
}

func TestGrade5SyncRejectsMismatchedSubject(t *testing.T) {
	g1, g2, g3 := domain.NewClassRef(1, 5), domain.NewClassRef(2, 5), domain.NewClassRef(3, 5)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{g1, g2, g3}
	school.Exchange.RegisterGrade5(g1, g2, g3)

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	require.NoError(t, schedule.Assign(domain.NewCell(slot, g1), domain.Assignment{Subject: "音"}))

	ctx := baseContext(school, schedule)
	c := NewGrade5SyncConstraint()

	ok, _ := c.CheckAssignment(ctx, Candidate{Slot: slot, Class: g2, Subject: "美"})
	assert.False(t, ok)

	ok, _ = c.CheckAssignment(ctx, Candidate{Slot: slot, Class: g2, Subject: "音"})
	assert.True(t, ok)
}

func TestExchangeMirrorAllowsJiritsuException(t *testing.T) {
	exchange, parent := domain.NewClassRef(1, 6), domain.NewClassRef(1, 1)
	school := newTestSchool(domain.NewClassRef(1, 2), exchange, parent)

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	require.NoError(t, schedule.Assign(domain.NewCell(slot, parent), domain.Assignment{Subject: "数"}))

	ctx := baseContext(school, schedule)
	c := NewExchangeMirrorConstraint()

	ok, _ := c.CheckAssignment(ctx, Candidate{Slot: slot, Class: exchange, Subject: "英"})
	assert.False(t, ok)

	ok, reason := c.CheckAssignment(ctx, Candidate{Slot: slot, Class: exchange, Subject: "自立"})
	assert.True(t, ok, reason)

	ok, _ = c.CheckAssignment(ctx, Candidate{Slot: slot, Class: exchange, Subject: "数"})
	assert.True(t, ok)
}

func TestGymExclusivityAllowsJointGroup(t *testing.T) {
	a, b := domain.NewClassRef(1, 1), domain.NewClassRef(1, 2)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{a, b}

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	require.NoError(t, schedule.Assign(domain.NewCell(slot, a), domain.Assignment{Subject: domain.PE}))

	ctx := baseContext(school, schedule)
	ctx.Config = fakeConfig{
		main: newFakeConfig().main, skill: newFakeConfig().skill, jiritsu: newFakeConfig().jiritsu,
		peDay:       domain.Tuesday,
		jointGroups: [][]domain.ClassRef{{a, b}},
	}
	c := NewGymExclusivityConstraint()

	ok, reason := c.CheckAssignment(ctx, Candidate{Slot: slot, Class: b, Subject: domain.PE})
	assert.True(t, ok, reason)

	ctx.Config = newFakeConfig()
	ok, _ = c.CheckAssignment(ctx, Candidate{Slot: slot, Class: b, Subject: domain.PE})
	assert.False(t, ok)
}

func TestDailySubjectUniquenessBlocksRepeat(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}

	schedule := domain.NewSchedule()
	slot1 := domain.NewTimeSlot(domain.Monday, 1)
	slot2 := domain.NewTimeSlot(domain.Monday, 2)
	require.NoError(t, schedule.Assign(domain.NewCell(slot1, class), domain.Assignment{Subject: "国"}))

	ctx := baseContext(school, schedule)
	c := NewDailySubjectUniquenessConstraint()

	ok, _ := c.CheckAssignment(ctx, Candidate{Slot: slot2, Class: class, Subject: "国"})
	assert.False(t, ok)

	ok, _ = c.CheckAssignment(ctx, Candidate{Slot: slot2, Class: class, Subject: "数"})
	assert.True(t, ok)
}

func TestHoursBudgetBlocksOverflow(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "国"}] = 1

	schedule := domain.NewSchedule()
	slot1 := domain.NewTimeSlot(domain.Monday, 1)
	slot2 := domain.NewTimeSlot(domain.Tuesday, 1)
	require.NoError(t, schedule.Assign(domain.NewCell(slot1, class), domain.Assignment{Subject: "国"}))

	ctx := baseContext(school, schedule)
	c := NewHoursBudgetConstraint()

	ok, _ := c.CheckAssignment(ctx, Candidate{Slot: slot2, Class: class, Subject: "国"})
	assert.False(t, ok)
}

func TestRegistryShortCircuitsOnCriticalFailure(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 6)

	ctx := baseContext(school, schedule)
	registry := NewRegistry(DefaultConstraints(0))

	ok, reasons := registry.CheckBeforeAssignment(ctx, Candidate{Slot: slot, Class: class, Subject: "国"})
	assert.False(t, ok)
	require.NotEmpty(t, reasons)

	_, misses := registry.CacheStats()
	assert.Equal(t, 1, misses)

	ok2, reasons2 := registry.CheckBeforeAssignment(ctx, Candidate{Slot: slot, Class: class, Subject: "国"})
	assert.Equal(t, ok, ok2)
	assert.Equal(t, reasons, reasons2)
	hits, _ := registry.CacheStats()
	assert.Equal(t, 1, hits)
}

func TestRegistryInvalidateClearsCache(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}
	schedule := domain.NewSchedule()
	ctx := baseContext(school, schedule)
	registry := NewRegistry(DefaultConstraints(0))
	schedule.OnMutate(registry.Invalidate)

	slot := domain.NewTimeSlot(domain.Monday, 1)
	_, _ = registry.CheckBeforeAssignment(ctx, Candidate{Slot: slot, Class: class, Subject: "国"})
	require.NoError(t, schedule.Assign(domain.NewCell(slot, class), domain.Assignment{Subject: "国"}))
	_, _ = registry.CheckBeforeAssignment(ctx, Candidate{Slot: slot, Class: class, Subject: "国"})

	_, misses := registry.CacheStats()
	assert.Equal(t, 2, misses)
}
