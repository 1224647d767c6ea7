// Package orchestrator implements the orchestration facade (C7): the one
// place that knows about strategy names, wires a chosen Strategy through
// the placement pipeline and optimizer, and reports generation statistics.
package orchestrator

import "time"

// Statistics aggregates one Generate call's outcome across every phase and
// the optimizer, independent of pipeline.Statistics (which is scoped to a
// single pipeline.Run invocation and gets folded in here).
type Statistics struct {
	Strategy           string
	PlacementsByPhase  map[string]int
	CacheHits          int
	CacheMisses        int
	ExchangeSyncEvents int
	OptimizerScore     float64
	Warnings           []string
	Duration           time.Duration
	Incomplete         bool
}

// ValidationResult reports the outcome of validating a schedule: whether it
// is free of hard-constraint violations, plus the full violation list and
// per-priority counts.
type ValidationResult struct {
	Valid            bool
	Violations       []string
	CountsByPriority map[string]int
	QualityScore     float64
}
