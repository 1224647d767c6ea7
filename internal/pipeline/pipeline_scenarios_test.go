package pipeline

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
)

type scenarioConfig struct {
	main    map[domain.Subject]struct{}
	skill   map[domain.Subject]struct{}
	jiritsu map[domain.Subject]struct{}
	peDay   domain.Weekday
}

func (c scenarioConfig) Grade5Classes() []domain.ClassRef         { return nil }
func (c scenarioConfig) ExchangeClassPairs() []ports.ExchangePair { return nil }
func (c scenarioConfig) FixedSubjects() map[domain.Subject]struct{} {
	return nil
}
func (c scenarioConfig) JiritsuSubjects() map[domain.Subject]struct{} { return c.jiritsu }
func (c scenarioConfig) MeetingInfo() map[domain.TimeSlot]ports.MeetingInfo {
	return map[domain.TimeSlot]ports.MeetingInfo{}
}
func (c scenarioConfig) RestrictedExchangeClasses() []domain.ClassRef { return nil }
func (c scenarioConfig) Parameters() ports.Parameters {
	return ports.Parameters{
		MainSubjects:                 c.main,
		SkillSubjects:                c.skill,
		MainSubjectsPreferredPeriods: []int{1, 2, 3},
		PEPreferredDay:               c.peDay,
		ParentSubjectsForJiritsu:     ports.DefaultParentSubjectsForJiritsu(),
	}
}

func newScenarioContext(school *domain.School, schedule *domain.Schedule, cfg ports.ConfigurationReader, seed int64) *Context {
	rng := rand.New(rand.NewSource(seed))
	return NewContext(school, schedule, cfg, domain.NewStaticAvailability(), nil, rng, zap.NewNop())
}

// E1: a class with two Monday 国 placements and no locks ends up with at
// most one 国 that day: input correction clears the later duplicate,
// leaving that slot empty for regular placement to fill.
func TestScenarioE1DuplicateSubjectResolved(t *testing.T) {
	class := domain.NewClassRef(1, 2)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}
	school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "国"}] = "kokugo-sensei"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "数"}] = "suugaku-sensei"
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "国"}] = 1
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "数"}] = 2

	schedule := domain.NewSchedule()
	schedule.SeedAssign(domain.NewCell(domain.NewTimeSlot(domain.Monday, 1), class), domain.Assignment{Subject: "国", Teacher: "kokugo-sensei"})
	schedule.SeedAssign(domain.NewCell(domain.NewTimeSlot(domain.Monday, 2), class), domain.Assignment{Subject: "数", Teacher: "suugaku-sensei"})
	schedule.SeedAssign(domain.NewCell(domain.NewTimeSlot(domain.Monday, 3), class), domain.Assignment{Subject: "国", Teacher: "kokugo-sensei"})

	cfg := scenarioConfig{main: map[domain.Subject]struct{}{"国": {}, "数": {}}}
	ctx := newScenarioContext(school, schedule, cfg, 1)

	require.NoError(t, RunPhase1(ctx))
	removed := CorrectInputSchedule(ctx)
	assert.Equal(t, 1, removed)

	count := 0
	for p := domain.PeriodMin; p <= domain.PeriodMax; p++ {
		a, ok := schedule.GetAt(domain.NewTimeSlot(domain.Monday, p), class)
		if ok && a.Subject == "国" {
			count++
		}
	}
	assert.Equal(t, 1, count, "exactly one 国 should remain on Monday")

	thirdPeriod, ok := schedule.GetAt(domain.NewTimeSlot(domain.Monday, 3), class)
	assert.False(t, ok, "the duplicate slot must have been cleared")
	assert.True(t, thirdPeriod.Empty(), "the duplicate slot must have been cleared")
}

// E2: an exchange class already holding 自立 (and now locked by Phase 1)
// whose parent holds a non-jiritsu subject gets its parent cell corrected
// to an eligible companion subject, since the exchange side can't move.
func TestScenarioE2JiritsuMismatchCorrectsParent(t *testing.T) {
	exchange, parent := domain.NewClassRef(1, 6), domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{exchange, parent}
	school.Exchange.RegisterPair(exchange, parent)
	school.TeacherOf[domain.TeacherAssignmentKey{Class: parent, Subject: "数"}] = "ito"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: parent, Subject: "社"}] = "yamada"
	school.StandardHours[domain.StandardHoursKey{Class: parent, Subject: "数"}] = 4
	school.StandardHours[domain.StandardHoursKey{Class: parent, Subject: "社"}] = 3

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	schedule.SeedAssign(domain.NewCell(slot, exchange), domain.Assignment{Subject: "自立", Teacher: "support-sensei"})
	schedule.SeedAssign(domain.NewCell(slot, parent), domain.Assignment{Subject: "社", Teacher: "yamada"})

	cfg := scenarioConfig{}
	ctx := newScenarioContext(school, schedule, cfg, 2)

	require.NoError(t, RunPhase1(ctx))
	assert.True(t, schedule.IsLocked(domain.NewCell(slot, exchange)), "自立 cell locks on sight in Phase 1")

	require.NoError(t, RunPhase2(ctx))

	parentAssignment, ok := schedule.GetAt(slot, parent)
	require.True(t, ok)
	assert.Contains(t, []domain.Subject{"数", "英"}, parentAssignment.Subject, "parent must change to a jiritsu companion subject")

	exchangeAssignment, ok := schedule.GetAt(slot, exchange)
	require.True(t, ok)
	assert.Equal(t, domain.Subject("自立"), exchangeAssignment.Subject, "exchange cell must stay untouched")
}

// E3: cells inside a configured test period keep their initial content and
// end up locked, with no phase overwriting them.
func TestScenarioE3TestPeriodPreserved(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{class}
	school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "英"}] = "eigo-sensei"
	school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "英"}] = 4

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	schedule.SeedAssign(domain.NewCell(slot, class), domain.Assignment{Subject: "英", Teacher: "eigo-sensei"})

	cfg := scenarioConfig{}
	ctx := newScenarioContext(school, schedule, cfg, 3)
	ctx.TestPeriods = []ports.TestPeriod{{Day: domain.Monday, Periods: []int{1, 2, 3}, Description: "term exam"}}

	require.NoError(t, RunPhase1(ctx))

	a, ok := schedule.GetAt(slot, class)
	require.True(t, ok)
	assert.Equal(t, domain.Subject("英"), a.Subject)
	assert.True(t, schedule.IsLocked(domain.NewCell(slot, class)))
}

// E4: two classes that both need PE at the same slot, sharing one gym and
// no joint-PE membership, never both hold PE there; exactly one does.
func TestScenarioE4GymExclusivityEnforced(t *testing.T) {
	a, b := domain.NewClassRef(1, 1), domain.NewClassRef(1, 2)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{a, b}
	school.TeacherOf[domain.TeacherAssignmentKey{Class: a, Subject: domain.PE}] = "taiiku-a"
	school.TeacherOf[domain.TeacherAssignmentKey{Class: b, Subject: domain.PE}] = "taiiku-b"
	school.StandardHours[domain.StandardHoursKey{Class: a, Subject: domain.PE}] = 3
	school.StandardHours[domain.StandardHoursKey{Class: b, Subject: domain.PE}] = 3

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Tuesday, 3)
	schedule.SeedAssign(domain.NewCell(slot, a), domain.Assignment{Subject: domain.PE, Teacher: "taiiku-a"})

	cfg := scenarioConfig{}
	ctx := newScenarioContext(school, schedule, cfg, 4)
	require.NoError(t, RunPhase1(ctx))

	cand := constraint.Candidate{Slot: slot, Class: b, Subject: domain.PE, Teacher: "taiiku-b"}
	ok, _ := ctx.Registry.CheckBeforeAssignment(ctx.ConstraintCtx, cand)
	assert.False(t, ok, "a second class cannot also take PE in the same gym slot")
}

// E5: when all three Grade-5 classes are missing 数 for the week and a
// single teacher is available, Phase 3 places them atomically as one
// teacher usage rather than three independent bookings.
func TestScenarioE5Grade5SyncAtomic(t *testing.T) {
	g1, g2, g3 := domain.NewClassRef(1, 5), domain.NewClassRef(2, 5), domain.NewClassRef(3, 5)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{g1, g2, g3}
	school.Exchange.RegisterGrade5(g1, g2, g3)
	for _, c := range []domain.ClassRef{g1, g2, g3} {
		school.TeacherOf[domain.TeacherAssignmentKey{Class: c, Subject: "数"}] = "kaneko"
		school.StandardHours[domain.StandardHoursKey{Class: c, Subject: "数"}] = 4
	}

	schedule := domain.NewSchedule()
	cfg := scenarioConfig{}
	ctx := newScenarioContext(school, schedule, cfg, 5)

	require.NoError(t, RunPhase1(ctx))
	require.NoError(t, RunPhase3(ctx))

	found := false
	for _, candidate := range domain.AllTimeSlots() {
		a1, ok1 := schedule.GetAt(candidate, g1)
		a2, ok2 := schedule.GetAt(candidate, g2)
		a3, ok3 := schedule.GetAt(candidate, g3)
		if ok1 && ok2 && ok3 && a1.Subject == "数" && a2.Subject == "数" && a3.Subject == "数" {
			assert.Equal(t, a1.Teacher, a2.Teacher)
			assert.Equal(t, a2.Teacher, a3.Teacher)
			found = true
			break
		}
	}
	assert.True(t, found, "all three Grade-5 classes should share one 数 slot")
}

// E6: running the whole phase sequence twice over identical inputs with a
// fixed seed produces byte-identical schedules.
func TestScenarioE6DeterministicAcrossRuns(t *testing.T) {
	build := func() (*domain.School, *domain.Schedule) {
		class := domain.NewClassRef(1, 1)
		school := domain.NewSchool()
		school.Classes = []domain.ClassRef{class}
		school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "国"}] = "kokugo-sensei"
		school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: "数"}] = "suugaku-sensei"
		school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "国"}] = 3
		school.StandardHours[domain.StandardHoursKey{Class: class, Subject: "数"}] = 3
		return school, domain.NewSchedule()
	}

	cfg := scenarioConfig{main: map[domain.Subject]struct{}{"国": {}, "数": {}}}

	school1, schedule1 := build()
	ctx1 := newScenarioContext(school1, schedule1, cfg, 42)
	_, err := Run(ctx1)
	require.NoError(t, err)

	school2, schedule2 := build()
	ctx2 := newScenarioContext(school2, schedule2, cfg, 42)
	_, err = Run(ctx2)
	require.NoError(t, err)

	for _, class := range school1.Classes {
		for _, slot := range domain.AllTimeSlots() {
			a1, _ := schedule1.GetAt(slot, class)
			a2, _ := schedule2.GetAt(slot, class)
			if !reflect.DeepEqual(a1, a2) {
				t.Fatalf("schedules diverged at %s/%s: %+v vs %+v", class, slot, a1, a2)
			}
		}
	}
}
