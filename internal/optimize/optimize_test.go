package optimize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
)

type fakeConfig struct{}

func (f fakeConfig) Grade5Classes() []domain.ClassRef             { return nil }
func (f fakeConfig) ExchangeClassPairs() []ports.ExchangePair     { return nil }
func (f fakeConfig) FixedSubjects() map[domain.Subject]struct{}   { return nil }
func (f fakeConfig) JiritsuSubjects() map[domain.Subject]struct{} { return nil }
func (f fakeConfig) MeetingInfo() map[domain.TimeSlot]ports.MeetingInfo {
	return map[domain.TimeSlot]ports.MeetingInfo{}
}
func (f fakeConfig) RestrictedExchangeClasses() []domain.ClassRef { return nil }
func (f fakeConfig) Parameters() ports.Parameters                { return ports.Parameters{} }

func TestTeacherLoadVarianceZeroWhenBalanced(t *testing.T) {
	school := domain.NewSchool()
	a, b := domain.NewClassRef(1, 1), domain.NewClassRef(1, 2)
	school.Classes = []domain.ClassRef{a, b}

	schedule := domain.NewSchedule()
	schedule.SeedAssign(domain.NewCell(domain.NewTimeSlot(domain.Monday, 1), a), domain.Assignment{Subject: "国", Teacher: "x"})
	schedule.SeedAssign(domain.NewCell(domain.NewTimeSlot(domain.Monday, 1), b), domain.Assignment{Subject: "数", Teacher: "y"})

	assert.Equal(t, 0.0, teacherLoadVariance(school, schedule))
}

func TestEvaluatorScoreWeightsJiritsuHigher(t *testing.T) {
	school := domain.NewSchool()
	exchange, parent := domain.NewClassRef(1, 6), domain.NewClassRef(1, 1)
	school.Classes = []domain.ClassRef{exchange, parent}
	school.Exchange.RegisterPair(exchange, parent)

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	schedule.SeedAssign(domain.NewCell(slot, exchange), domain.Assignment{Subject: "自立", Teacher: "support"})
	schedule.SeedAssign(domain.NewCell(slot, parent), domain.Assignment{Subject: "社", Teacher: "yamada"})

	ctx := &constraint.Context{Schedule: schedule, School: school, Config: fakeConfig{}, Availability: domain.NewStaticAvailability()}
	registry := constraint.NewRegistry(constraint.DefaultConstraints(0))
	evaluator := NewEvaluator(registry)

	score := evaluator.Score(ctx)
	assert.Greater(t, score, 900.0, "an exchange-mirror violation should weigh like a jiritsu violation")
}

func TestOptimizerAcceptsImprovingSwap(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}
	school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "国"}] = "kokugo"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "数"}] = "suugaku"
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "国"}] = 1
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "数"}] = 1

	schedule := domain.NewSchedule()
	slotA := domain.NewTimeSlot(domain.Monday, 1)
	slotB := domain.NewTimeSlot(domain.Tuesday, 1)
	schedule.SeedAssign(domain.NewCell(slotA, class), domain.Assignment{Subject: "国", Teacher: "kokugo"})
	schedule.SeedAssign(domain.NewCell(slotB, class), domain.Assignment{Subject: "数", Teacher: "suugaku"})

	ctx := &constraint.Context{Schedule: schedule, School: school, Config: fakeConfig{}, Availability: domain.NewStaticAvailability()}
	registry := constraint.NewRegistry(constraint.DefaultConstraints(0))
	optimizer := NewOptimizer(registry, NewEvaluator(registry))

	rng := rand.New(rand.NewSource(9))
	score := optimizer.Run(ctx, rng, Config{Iterations: 50, Temperature: 1.0, StallLimit: 50})
	assert.GreaterOrEqual(t, score, 0.0)

	a, okA := schedule.GetAt(slotA, class)
	b, okB := schedule.GetAt(slotB, class)
	require.True(t, okA)
	require.True(t, okB)
	assert.ElementsMatch(t, []domain.Subject{"国", "数"}, []domain.Subject{a.Subject, b.Subject})
}

func TestRepairerFixesGymDoubleBooking(t *testing.T) {
	a, b := domain.NewClassRef(1, 1), domain.NewClassRef(1, 2)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{a, b}
	school.TeacherOf[domain.TeacherAssignmentKey{Class: b, Subject: domain.PE}] = "taiiku-b"
	school.StandardHours[domain.StandardHoursKey{Class: b, Subject: domain.PE}] = 3

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Tuesday, 3)
	schedule.SeedAssign(domain.NewCell(slot, a), domain.Assignment{Subject: domain.PE, Teacher: "taiiku-a"})
	schedule.SeedAssign(domain.NewCell(slot, b), domain.Assignment{Subject: domain.PE, Teacher: "taiiku-b"})

	ctx := &constraint.Context{Schedule: schedule, School: school, Config: fakeConfig{}, Availability: domain.NewStaticAvailability()}
	registry := constraint.NewRegistry(constraint.DefaultConstraints(0))
	repairer := NewRepairer(registry)

	n := repairer.RepairAll(ctx)
	assert.GreaterOrEqual(t, n, 1)

	peClasses := 0
	for _, a := range ctx.Schedule.AssignmentsAt(slot) {
		if a.Subject == domain.PE {
			peClasses++
		}
	}
	assert.Equal(t, 1, peClasses)
}

func TestRepairerFixesDailyDuplicate(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}
	school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "国"}] = "kokugo"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "数"}] = "suugaku"
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "国"}] = 1
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "数"}] = 1

	schedule := domain.NewSchedule()
	schedule.SeedAssign(domain.NewCell(domain.NewTimeSlot(domain.Monday, 1), class), domain.Assignment{Subject: "国", Teacher: "kokugo"})
	schedule.SeedAssign(domain.NewCell(domain.NewTimeSlot(domain.Monday, 2), class), domain.Assignment{Subject: "国", Teacher: "kokugo"})

	ctx := &constraint.Context{Schedule: schedule, School: school, Config: fakeConfig{}, Availability: domain.NewStaticAvailability()}
	registry := constraint.NewRegistry(constraint.DefaultConstraints(0))
	repairer := NewRepairer(registry)

	n := repairer.RepairAll(ctx)
	assert.GreaterOrEqual(t, n, 1)

	count := 0
	for p := domain.PeriodMin; p <= domain.PeriodMax; p++ {
		a, ok := schedule.GetAt(domain.NewTimeSlot(domain.Monday, p), class)
		if ok && a.Subject == "国" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
