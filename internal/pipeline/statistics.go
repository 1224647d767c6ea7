package pipeline

import "time"

// Statistics accumulates counters across a pipeline run, surfaced by the
// orchestration facade (spec.md §4.5 "statistics dictionary").
type Statistics struct {
	PlacementsByPhase      map[string]int
	ViolationCounts        map[string]int
	CacheHits, CacheMisses int
	ExchangeSyncEvents     int
	Warnings               []string
	Duration               time.Duration
}

// NewStatistics returns a zero-valued Statistics with its maps initialized.
func NewStatistics() *Statistics {
	return &Statistics{
		PlacementsByPhase: make(map[string]int),
		ViolationCounts:   make(map[string]int),
	}
}

func (s *Statistics) recordPlacement(phase string) {
	s.PlacementsByPhase[phase]++
}

func (s *Statistics) warn(message string) {
	s.Warnings = append(s.Warnings, message)
}

// start marks the beginning of a run and returns the timestamp the caller
// should hand back to Statistics once the run completes, so Duration
// reflects wall-clock time across the whole phase sequence.
func (s *Statistics) start() time.Time {
	return time.Now()
}
