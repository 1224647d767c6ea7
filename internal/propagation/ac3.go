package propagation

// revise trims domains[arc.From], removing any value with no supporting
// value in domains[arc.To] under arc.Compatible. Reports whether anything
// was removed.
func revise(domains DomainStore, arc Arc) bool {
	fromValues := domains[arc.From]
	toValues := domains[arc.To]
	changed := false
	kept := make([]Value, 0, len(fromValues))
	for _, fv := range fromValues {
		supported := false
		for _, tv := range toValues {
			if arc.Compatible(fv, tv) {
				supported = true
				break
			}
		}
		if supported {
			kept = append(kept, fv)
		} else {
			changed = true
		}
	}
	if changed {
		domains[arc.From] = kept
	}
	return changed
}

// AC3 runs arc consistency to a fixed point over domains using arcs,
// mutating domains in place. It returns false the moment any domain
// becomes empty (spec.md §4.3: "empty-domain ⇒ infeasible prefix"),
// leaving domains in whatever partially-reduced state it reached; callers
// that need to roll back should pass domains.Clone().
func AC3(domains DomainStore, arcs []Arc) bool {
	idx := arcIndex(arcs)
	queue := make([]Arc, len(arcs))
	copy(queue, arcs)

	for len(queue) > 0 {
		arc := queue[0]
		queue = queue[1:]

		if !revise(domains, arc) {
			continue
		}
		if len(domains[arc.From]) == 0 {
			return false
		}
		queue = append(queue, idx[arc.From]...)
	}
	return true
}
