package orchestrator

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors the facade updates after every
// Generate call, registered on a caller-supplied registry rather than the
// global default one (no package-level mutable state).
type Metrics struct {
	generations        *prometheus.CounterVec
	placementsByPhase  *prometheus.CounterVec
	cacheHitRatio      prometheus.Gauge
	violationCount     *prometheus.GaugeVec
	generationDuration *prometheus.HistogramVec
}

// NewMetrics constructs and registers the facade's collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "generations_total",
			Help:      "Number of schedule generation runs by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		placementsByPhase: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "placements_total",
			Help:      "Number of cells placed by pipeline phase.",
		}, []string{"phase"}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetable",
			Name:      "constraint_cache_hit_ratio",
			Help:      "Constraint admissibility cache hit ratio of the most recent run.",
		}),
		violationCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "timetable",
			Name:      "violations",
			Help:      "Violation count of the most recent run by priority.",
		}, []string{"priority"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "timetable",
			Name:      "generation_duration_seconds",
			Help:      "Wall-clock duration of a Generate call by strategy.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
	}
	reg.MustRegister(m.generations, m.placementsByPhase, m.cacheHitRatio, m.violationCount, m.generationDuration)
	return m
}

func (m *Metrics) observe(strategy string, stats *Statistics, outcome string) {
	m.generations.WithLabelValues(strategy, outcome).Inc()
	for phase, count := range stats.PlacementsByPhase {
		m.placementsByPhase.WithLabelValues(phase).Add(float64(count))
	}
	if total := stats.CacheHits + stats.CacheMisses; total > 0 {
		m.cacheHitRatio.Set(float64(stats.CacheHits) / float64(total))
	}
	m.generationDuration.WithLabelValues(strategy).Observe(stats.Duration.Seconds())
}

func (m *Metrics) observeViolations(countsByPriority map[string]int) {
	for priority, count := range countsByPriority {
		m.violationCount.WithLabelValues(priority).Set(float64(count))
	}
}
