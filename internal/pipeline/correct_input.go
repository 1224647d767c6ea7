package pipeline

import (
	"fmt"

	"github.com/seito-school/timetable-engine/internal/domain"
)

const phaseCorrection = "input_correction"

// CorrectInputSchedule resolves pre-existing daily-subject duplicates
// carried over from the loaded input schedule: when a class holds the
// same non-protected subject twice on the same day, every occurrence
// after the first is cleared so later phases are free to fill the slot
// properly. Locked cells (fixed subjects, test periods) are left alone
// even when they duplicate, since they cannot be moved regardless.
// RunPhase5 calls it before filling; the improved_csp and advanced_csp
// strategies also call it before Phase 1.
func CorrectInputSchedule(ctx *Context) int {
	corrected := 0

	for _, class := range ctx.School.Classes {
		for _, day := range domain.Weekdays {
			seen := make(map[domain.Subject]bool)
			for _, period := range domain.Periods() {
				slot := domain.NewTimeSlot(day, period)
				cell := domain.NewCell(slot, class)
				a, ok := ctx.Schedule.Get(cell)
				if !ok || a.Empty() || a.Subject.IsProtected() {
					continue
				}
				if seen[a.Subject] {
					if ctx.Schedule.IsLocked(cell) {
						continue
					}
					if err := ctx.Schedule.Clear(cell); err == nil {
						corrected++
						ctx.Stats.recordPlacement(phaseCorrection)
					}
					continue
				}
				seen[a.Subject] = true
			}
		}
	}

	if corrected > 0 {
		ctx.Stats.warn(fmt.Sprintf("input correction: cleared %d duplicate daily subject placements", corrected))
	}
	return corrected
}
