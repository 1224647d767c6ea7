package orchestrator

import (
	"sync"

	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/pipeline"
)

// AdvancedCSPStrategy runs the synchronized phases (locking, jiritsu,
// grade-5, exchange mirroring) serially, since those phases coordinate
// across classes, then decomposes the regular-placement phase into
// disjoint class clusters, one goroutine per cluster, before optimizing
// and repairing the merged result.
//
// Clusters are built so no goroutine ever needs to write a cell outside
// its own cluster: an exchange class always shares a cluster with its
// parent, and the grade-5 triple always shares one cluster, since regular
// placement on a parent class can mirror into its exchange partner.
// Each class's whole fill, constraint checks and slot scoring included,
// runs while holding one mutex, so the cluster fills never overlap in
// time; the order in which the goroutines take the mutex is not fixed.
//
// The fan-out uses a plain sync.WaitGroup over channel-delivered cluster
// results rather than golang.org/x/sync/errgroup: no example in this
// codebase's dependency set demonstrates errgroup for a merge-then-resume
// shape, and the WaitGroup form needs no extra dependency to express it.
type AdvancedCSPStrategy struct{}

func NewAdvancedCSPStrategy() *AdvancedCSPStrategy { return &AdvancedCSPStrategy{} }

func (s *AdvancedCSPStrategy) Name() string { return "advanced_csp" }

func (s *AdvancedCSPStrategy) Run(sc *StrategyContext) error {
	pipeline.CorrectInputSchedule(sc.Pipeline)

	phases := []func(*pipeline.Context) error{
		pipeline.RunPhase1,
		pipeline.RunPhase2,
		pipeline.RunPhase3,
		pipeline.RunPhase4,
	}
	for _, phase := range phases {
		if err := phase(sc.Pipeline); err != nil {
			return err
		}
	}

	fillClustersConcurrently(sc)

	_, err := runOptimizerAndRepair(sc)
	return err
}

// fillClustersConcurrently runs pipeline.FillClassRegular over every
// class, one goroutine per cluster, joined on a WaitGroup.
func fillClustersConcurrently(sc *StrategyContext) {
	clusters := classClusters(sc.Pipeline.School)

	var mu sync.Mutex
	var wg sync.WaitGroup
	results := make(chan int, len(clusters))

	for _, cluster := range clusters {
		cluster := cluster
		wg.Add(1)
		go func() {
			defer wg.Done()
			placed := 0
			for _, class := range cluster {
				mu.Lock()
				placed += pipeline.FillClassRegular(sc.Pipeline, class)
				mu.Unlock()
			}
			results <- placed
		}()
	}

	wg.Wait()
	close(results)
	for range results {
	}
}

// classClusters partitions school.Classes into disjoint groups: the
// grade-5 triple forms one cluster, each exchange/parent pair forms
// another, and every remaining class is its own singleton cluster.
func classClusters(school *domain.School) [][]domain.ClassRef {
	assigned := make(map[domain.ClassRef]bool)
	var clusters [][]domain.ClassRef

	if triple := school.Exchange.Grade5Set(); len(triple) > 0 {
		clusters = append(clusters, triple)
		for _, c := range triple {
			assigned[c] = true
		}
	}

	for _, pair := range school.Exchange.ExchangePairs() {
		if assigned[pair.Exchange] || assigned[pair.Parent] {
			continue
		}
		clusters = append(clusters, []domain.ClassRef{pair.Exchange, pair.Parent})
		assigned[pair.Exchange] = true
		assigned[pair.Parent] = true
	}

	for _, class := range school.Classes {
		if assigned[class] {
			continue
		}
		clusters = append(clusters, []domain.ClassRef{class})
		assigned[class] = true
	}

	return clusters
}
