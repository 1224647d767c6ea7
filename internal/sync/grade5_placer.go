package sync

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
	domerrors "github.com/seito-school/timetable-engine/pkg/errors"
)

// Grade5Placer commits a (subject, teacher) placement across the whole
// Grade-5 triple atomically: every class in the triple receives the same
// assignment, or none do. Grounded on spec.md §4.4's "commits all three or
// none" rule.
type Grade5Placer struct {
	Triple []domain.ClassRef
}

func NewGrade5Placer(triple []domain.ClassRef) *Grade5Placer {
	return &Grade5Placer{Triple: triple}
}

// PlaceAtomic checks every class in the triple against ctx/registry before
// committing any of them, so a mid-triple failure never leaves a partial
// placement on the schedule.
func (p *Grade5Placer) PlaceAtomic(
	registry *constraint.Registry,
	ctx *constraint.Context,
	schedule *domain.Schedule,
	slot domain.TimeSlot,
	subject domain.Subject,
	teacher domain.Teacher,
) error {
	for _, class := range p.Triple {
		cell := domain.NewCell(slot, class)
		if schedule.IsLocked(cell) {
			return domerrors.Wrap(domerrors.ErrFixedSubjectProtection, domerrors.CodeFixedSubjectProtection,
				fmt.Sprintf("grade-5 triple cell %s is locked", cell.Class))
		}
		ok, reasons := registry.CheckBeforeAssignment(ctx, constraint.Candidate{
			Slot: slot, Class: class, Subject: subject, Teacher: teacher,
		})
		if !ok {
			return domerrors.New(domerrors.CodePhaseExecution,
				fmt.Sprintf("grade-5 triple placement rejected for %s at %s: %v", class, slot, reasons))
		}
	}

	for _, class := range p.Triple {
		cell := domain.NewCell(slot, class)
		if err := schedule.Assign(cell, domain.Assignment{Subject: subject, Teacher: teacher}); err != nil {
			return domerrors.WrapPhase(err, "grade5-sync", "failed to commit grade-5 triple placement")
		}
	}
	return nil
}
