package sync

import (
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
)

// TestPeriodProtector marks every (day, period) pair named by a parsed
// test-period block and locks the corresponding cells for every class, so
// no later phase can alter an exam's recorded content (spec.md §4.4
// "Protection").
type TestPeriodProtector struct{}

func NewTestPeriodProtector() *TestPeriodProtector { return &TestPeriodProtector{} }

// Apply marks and locks every cell touched by periods, across classes.
func (p *TestPeriodProtector) Apply(schedule *domain.Schedule, classes []domain.ClassRef, periods []ports.TestPeriod) {
	for _, period := range periods {
		for _, n := range period.Periods {
			schedule.MarkTestPeriod(domain.NewTimeSlot(period.Day, n))
		}
	}
	schedule.LockTestPeriodCells(classes)
}
