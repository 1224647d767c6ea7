// Package pipeline implements the phased placement pipeline (C5): the
// ordered Phase 1-5 sequence a strategy runs over a working schedule,
// carrying every collaborator explicitly through a Context struct rather
// than through package-level singletons (spec.md §9 design note).
package pipeline

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seito-school/timetable-engine/internal/constraint"
	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
	"github.com/seito-school/timetable-engine/internal/sync"
)

// Context bundles everything a phase needs: the shared domain model, the
// constraint registry, the synchronization placers, configuration, a
// deterministic RNG, a logger, the run's correlation ID, and the running
// statistics every phase contributes to.
type Context struct {
	School       *domain.School
	Schedule     *domain.Schedule
	Config       ports.ConfigurationReader
	Availability domain.AvailabilityOracle
	Registry     *constraint.Registry
	ConstraintCtx *constraint.Context

	Grade5Selector  *sync.Grade5TeacherSelector
	Grade5Placer    *sync.Grade5Placer
	ExchangePlacer  *sync.ExchangePlacer
	TestProtector   *sync.TestPeriodProtector
	TestPeriods     []ports.TestPeriod

	RNG    *rand.Rand
	Logger *zap.Logger
	RunID  uuid.UUID

	Stats *Statistics
}

// NewContext wires the pipeline's collaborators from a school, a schedule
// to mutate in place, configuration, and a teacher-availability oracle
// that already folds in weekly absences. rng must be seeded by the caller
// for deterministic runs (spec.md §5/§8 E6).
func NewContext(
	school *domain.School,
	schedule *domain.Schedule,
	config ports.ConfigurationReader,
	availability domain.AvailabilityOracle,
	forbiddenCells map[domain.Cell]map[domain.Subject]struct{},
	rng *rand.Rand,
	logger *zap.Logger,
) *Context {
	registry := constraint.NewRegistry(constraint.DefaultConstraints(0))
	schedule.OnMutate(registry.Invalidate)

	cctx := &constraint.Context{
		Schedule:       schedule,
		School:         school,
		Config:         config,
		Availability:   availability,
		ForbiddenCells: forbiddenCells,
		MeetingInfo:    config.MeetingInfo(),
	}

	triple := school.Exchange.Grade5Set()

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Context{
		School:         school,
		Schedule:       schedule,
		Config:         config,
		Availability:   availability,
		Registry:       registry,
		ConstraintCtx:  cctx,
		Grade5Selector: sync.NewGrade5TeacherSelector(config.Parameters().GradeFiveTeacherRatios, rng),
		Grade5Placer:   sync.NewGrade5Placer(triple),
		ExchangePlacer: sync.NewExchangePlacer(),
		TestProtector:  sync.NewTestPeriodProtector(),
		RNG:            rng,
		Logger:         logger,
		RunID:          uuid.New(),
		Stats:          NewStatistics(),
	}
}
