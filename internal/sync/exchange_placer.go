package sync

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
	domerrors "github.com/seito-school/timetable-engine/pkg/errors"
)

// ExchangePlacer mirrors a parent class's subject into its paired exchange
// class once the parent already holds a non-PE subject at a slot and the
// exchange class is still free there (spec.md §4.4 "exchange-class sync").
type ExchangePlacer struct{}

func NewExchangePlacer() *ExchangePlacer { return &ExchangePlacer{} }

// MirrorSlot attempts to place parent's current subject/teacher into
// exchange at slot. It is a no-op (not an error) when the parent holds
// nothing, holds PE, the exchange cell is already occupied or locked, or
// the exchange class is restricted to main subjects and the parent's
// subject is not one.
func (p *ExchangePlacer) MirrorSlot(
	registry *constraint.Registry,
	ctx *constraint.Context,
	school *domain.School,
	schedule *domain.Schedule,
	exchange, parent domain.ClassRef,
	slot domain.TimeSlot,
) error {
	parentAssignment, ok := schedule.GetAt(slot, parent)
	if !ok || parentAssignment.Empty() || parentAssignment.Subject == domain.PE {
		return nil
	}

	exchangeCell := domain.NewCell(slot, exchange)
	if schedule.IsLocked(exchangeCell) {
		return nil
	}
	existing, _ := schedule.Get(exchangeCell)
	if !existing.Empty() {
		return nil
	}

	if school.Exchange.IsRestrictedToMainSubjectsOnly(exchange) {
		params := ctx.Config.Parameters()
		if _, isMain := params.MainSubjects[parentAssignment.Subject]; !isMain {
			return nil
		}
	}

	ok, reasons := registry.CheckBeforeAssignment(ctx, constraint.Candidate{
		Slot: slot, Class: exchange, Subject: parentAssignment.Subject, Teacher: parentAssignment.Teacher,
	})
	if !ok {
		return domerrors.New(domerrors.CodePhaseExecution,
			fmt.Sprintf("exchange mirror rejected for %s at %s: %v", exchange, slot, reasons))
	}

	if err := schedule.Assign(exchangeCell, domain.Assignment{Subject: parentAssignment.Subject, Teacher: parentAssignment.Teacher}); err != nil {
		return domerrors.WrapPhase(err, "exchange-sync", "failed to mirror exchange class")
	}
	return nil
}
