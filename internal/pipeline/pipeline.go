package pipeline

import (
	"time"

	domerrors "github.com/seito-school/timetable-engine/pkg/errors"
)

// phaseFunc is the signature every ordered phase implements.
type phaseFunc func(ctx *Context) error

// Run executes Phases 1 through 5 in order against ctx.Schedule, which the
// caller must have already seeded with the input timetable via
// Schedule.SeedAssign before calling. Local-search optimization (phase 6)
// is a separate, optional pass run by the orchestrator after Run returns,
// not part of this sequence.
func Run(ctx *Context) (*Statistics, error) {
	start := ctx.Stats.start()

	phases := []struct {
		name string
		run  phaseFunc
	}{
		{"lock", RunPhase1},
		{"jiritsu", RunPhase2},
		{"grade5_sync", RunPhase3},
		{"exchange_mirror", RunPhase4},
		{"regular", RunPhase5},
	}

	for _, phase := range phases {
		if err := phase.run(ctx); err != nil {
			return ctx.Stats, domerrors.WrapPhase(err, phase.name, "pipeline phase failed")
		}
	}

	ctx.Stats.Duration = time.Since(start)
	return ctx.Stats, nil
}
