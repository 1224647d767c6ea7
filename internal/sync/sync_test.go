package sync

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
)

type fakeConfig struct{ main map[domain.Subject]struct{} }

func (f fakeConfig) Grade5Classes() []domain.ClassRef             { return nil }
func (f fakeConfig) ExchangeClassPairs() []ports.ExchangePair     { return nil }
func (f fakeConfig) FixedSubjects() map[domain.Subject]struct{}   { return nil }
func (f fakeConfig) JiritsuSubjects() map[domain.Subject]struct{} { return nil }
func (f fakeConfig) MeetingInfo() map[domain.TimeSlot]ports.MeetingInfo {
	return map[domain.TimeSlot]ports.MeetingInfo{}
}
func (f fakeConfig) RestrictedExchangeClasses() []domain.ClassRef { return nil }
func (f fakeConfig) Parameters() ports.Parameters {
	return ports.Parameters{MainSubjects: f.main}
}

func TestGrade5TeacherSelectorBalancesByHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	selector := NewGrade5TeacherSelector(nil, rng)
	candidates := []domain.Teacher{"kaneko", "terada"}

	counts := map[domain.Teacher]int{}
	for i := 0; i < 20; i++ {
		teacher, ok := selector.Select("国", candidates)
		require.True(t, ok)
		counts[teacher]++
	}
	assert.InDelta(t, 10, counts["kaneko"], 4)
	assert.InDelta(t, 10, counts["terada"], 4)
}

func TestGrade5TeacherSelectorHonorsRatios(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ratios := map[domain.Subject]map[domain.Teacher]float64{
		"国": {"kaneko": 0.8, "terada": 0.2},
	}
	selector := NewGrade5TeacherSelector(ratios, rng)
	candidates := []domain.Teacher{"kaneko", "terada"}

	counts := map[domain.Teacher]int{}
	for i := 0; i < 50; i++ {
		teacher, ok := selector.Select("国", candidates)
		require.True(t, ok)
		counts[teacher]++
	}
	assert.Greater(t, counts["kaneko"], counts["terada"])
}

func TestGrade5PlacerCommitsAllOrNothing(t *testing.T) {
	g1, g2, g3 := domain.NewClassRef(1, 5), domain.NewClassRef(2, 5), domain.NewClassRef(3, 5)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{g1, g2, g3}
	school.Exchange.RegisterGrade5(g1, g2, g3)

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	ctx := &constraint.Context{Schedule: schedule, School: school, Config: fakeConfig{}, Availability: domain.NewStaticAvailability()}
	registry := constraint.NewRegistry(constraint.DefaultConstraints(0))

	placer := NewGrade5Placer([]domain.ClassRef{g1, g2, g3})
	err := placer.PlaceAtomic(registry, ctx, schedule, slot, "音", "suzuki")
	require.NoError(t, err)

	for _, c := range []domain.ClassRef{g1, g2, g3} {
		a, ok := schedule.GetAt(slot, c)
		require.True(t, ok)
		assert.Equal(t, domain.Subject("音"), a.Subject)
		assert.Equal(t, domain.Teacher("suzuki"), a.Teacher)
	}
}

func TestExchangePlacerMirrorsParent(t *testing.T) {
	exchange, parent := domain.NewClassRef(1, 6), domain.NewClassRef(1, 1)
	school := domain.NewSchool()
	school.Classes = []domain.ClassRef{exchange, parent}
	school.Exchange.RegisterPair(exchange, parent)

	schedule := domain.NewSchedule()
	slot := domain.NewTimeSlot(domain.Monday, 1)
	require.NoError(t, schedule.Assign(domain.NewCell(slot, parent), domain.Assignment{Subject: "数", Teacher: "ito"}))

	ctx := &constraint.Context{Schedule: schedule, School: school, Config: fakeConfig{main: map[domain.Subject]struct{}{"数": {}}}, Availability: domain.NewStaticAvailability()}
	registry := constraint.NewRegistry(constraint.DefaultConstraints(0))

	placer := NewExchangePlacer()
	require.NoError(t, placer.MirrorSlot(registry, ctx, school, schedule, exchange, parent, slot))

	a, ok := schedule.GetAt(slot, exchange)
	require.True(t, ok)
	assert.Equal(t, domain.Subject("数"), a.Subject)
}

func TestTestPeriodProtectorLocksCells(t *testing.T) {
	class := domain.NewClassRef(1, 1)
	schedule := domain.NewSchedule()
	protector := NewTestPeriodProtector()
	protector.Apply(schedule, []domain.ClassRef{class}, []ports.TestPeriod{
		{Day: domain.Monday, Periods: []int{1, 2}, Description: "term exam"},
	})

	assert.True(t, schedule.IsLocked(domain.NewCell(domain.NewTimeSlot(domain.Monday, 1), class)))
	assert.True(t, schedule.IsLocked(domain.NewCell(domain.NewTimeSlot(domain.Monday, 2), class)))
	assert.False(t, schedule.IsLocked(domain.NewCell(domain.NewTimeSlot(domain.Monday, 3), class)))
}
