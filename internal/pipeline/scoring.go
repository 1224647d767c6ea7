package pipeline

import "github.com/seito-school/timetable-engine/internal/domain"

// scoreSlot implements spec.md §4.5's best-slot scoring: lower is better.
// Mid-week slots get a small bonus; core subjects prefer the morning;
// PE prefers the configured preferred day; skill subjects tolerate the
// afternoon with a smaller bonus than core's morning preference.
func scoreSlot(ctx *Context, subject domain.Subject, slot domain.TimeSlot) int {
	score := 0

	if slot.Day == domain.Wednesday {
		score -= 3
	} else if slot.Day == domain.Tuesday || slot.Day == domain.Thursday {
		score -= 1
	}

	switch subject.Category() {
	case domain.CategoryCore:
		if slot.Period <= 3 {
			score -= 10
		}
	case domain.CategorySkill:
		if slot.Period >= 4 {
			score -= 5
		}
	}

	if subject == domain.PE {
		peDay := domain.Tuesday
		if ctx.Config != nil {
			peDay = ctx.Config.Parameters().PEPreferredDay
		}
		if slot.Day == peDay {
			score -= 20
		}
	}

	return score
}

// orderedSlots returns every weekly slot sorted best-first by scoreSlot,
// breaking ties by natural (day, period) order for determinism.
func orderedSlots(ctx *Context, subject domain.Subject) []domain.TimeSlot {
	slots := domain.AllTimeSlots()
	scored := make([]struct {
		slot  domain.TimeSlot
		score int
	}, len(slots))
	for i, s := range slots {
		scored[i] = struct {
			slot  domain.TimeSlot
			score int
		}{slot: s, score: scoreSlot(ctx, subject, s)}
	}
	for i := 1; i < len(scored); i++ {
		j := i
		for j > 0 && (scored[j].score < scored[j-1].score ||
			(scored[j].score == scored[j-1].score && scored[j].slot.Less(scored[j-1].slot))) {
			scored[j-1], scored[j] = scored[j], scored[j-1]
			j--
		}
	}
	out := make([]domain.TimeSlot, len(scored))
	for i, s := range scored {
		out[i] = s.slot
	}
	return out
}
