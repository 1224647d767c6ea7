package constraint

import (
	"sort"

	lru "github.com/hashicorp/golang-lru"

	"github.com/seito-school/timetable-engine/internal/domain"
)

// cacheKey is the comparable tuple the per-candidate admissibility cache is
// keyed on: (day, period, class, subject, teacher).
type cacheKey struct {
	Day     domain.Weekday
	Period  int
	Class   domain.ClassRef
	Subject domain.Subject
	Teacher domain.Teacher
}

func keyFor(c Candidate) cacheKey {
	return cacheKey{
		Day:     c.Slot.Day,
		Period:  c.Slot.Period,
		Class:   c.Class,
		Subject: c.Subject,
		Teacher: c.Teacher,
	}
}

type cacheEntry struct {
	admissible bool
	reasons    []string
}

// Registry holds every registered constraint and the per-candidate
// admissibility cache. Constraints are kept sorted by descending priority
// so CheckBeforeAssignment can short-circuit on a CRITICAL failure as
// spec.md §4.2 requires.
type Registry struct {
	constraints []Constraint
	cache       *lru.Cache
	hits        int
	misses      int
}

// DefaultCacheSize bounds the LRU cache; candidates seen beyond this
// recency window are simply recomputed, never wrong.
const DefaultCacheSize = 4096

// NewRegistry builds a registry from a set of constraints, sorting them by
// descending priority (CRITICAL first) once at construction time.
func NewRegistry(constraints []Constraint) *Registry {
	sorted := make([]Constraint, len(constraints))
	copy(sorted, constraints)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	cache, _ := lru.New(DefaultCacheSize)
	return &Registry{constraints: sorted, cache: cache}
}

// Constraints returns the registry's constraints in priority order.
func (r *Registry) Constraints() []Constraint {
	return r.constraints
}

// Invalidate purges the admissibility cache. Mutation events on the
// schedule are infrequent relative to candidate checks, so a full clear is
// the simplest correct invalidation strategy (spec.md §9 "Caching").
func (r *Registry) Invalidate() {
	r.cache.Purge()
}

// CacheStats reports cumulative hit/miss counts since construction (or the
// last ResetStats), surfaced in the orchestrator's Statistics.
func (r *Registry) CacheStats() (hits, misses int) {
	return r.hits, r.misses
}

func (r *Registry) ResetStats() {
	r.hits, r.misses = 0, 0
}

// CheckBeforeAssignment iterates constraints in descending priority order.
// A CRITICAL failure short-circuits the check; lower-priority failures
// accumulate as reasons but do not stop evaluation, so all applicable
// reasons are available for diagnostics. The result is true only when
// every constraint reports the candidate admissible.
func (r *Registry) CheckBeforeAssignment(ctx *Context, candidate Candidate) (bool, []string) {
	key := keyFor(candidate)
	if cached, ok := r.cache.Get(key); ok {
		r.hits++
		entry := cached.(cacheEntry)
		return entry.admissible, entry.reasons
	}
	r.misses++

	var reasons []string
	for _, c := range r.constraints {
		ok, reason := c.CheckAssignment(ctx, candidate)
		if !ok {
			reasons = append(reasons, c.Name()+": "+reason)
			if c.Priority() == Critical {
				break
			}
		}
	}

	admissible := len(reasons) == 0
	r.cache.Add(key, cacheEntry{admissible: admissible, reasons: reasons})
	return admissible, reasons
}

// Validate performs a full scan across every registered constraint,
// concatenating every violation found, for the orchestration facade's
// ValidationResult.
func (r *Registry) Validate(ctx *Context) []Violation {
	var all []Violation
	for _, c := range r.constraints {
		all = append(all, c.Validate(ctx)...)
	}
	return all
}
