package domain

// ExchangeRegistry maps exchange classes to their parent regular class and
// back, and tracks the set of Grade-5 classes. It is loaded once from
// configuration; per the design note on cyclic references, the mapping
// lives here as an external registry rather than as object-to-object
// pointers on ClassRef.
type ExchangeRegistry struct {
	parentOf             map[ClassRef]ClassRef
	exchangeOf           map[ClassRef]ClassRef
	grade5               map[ClassRef]struct{}
	restrictedToMainOnly map[ClassRef]struct{} // e.g. 3年6組: mirrors its parent only for main subjects
}

func NewExchangeRegistry() *ExchangeRegistry {
	return &ExchangeRegistry{
		parentOf:             make(map[ClassRef]ClassRef),
		exchangeOf:           make(map[ClassRef]ClassRef),
		grade5:               make(map[ClassRef]struct{}),
		restrictedToMainOnly: make(map[ClassRef]struct{}),
	}
}

// RegisterPair records that exchange mirrors parent.
func (r *ExchangeRegistry) RegisterPair(exchange, parent ClassRef) {
	r.parentOf[exchange] = parent
	r.exchangeOf[parent] = exchange
}

// RegisterGrade5 records the three classes that form the Grade-5 triple.
func (r *ExchangeRegistry) RegisterGrade5(classes ...ClassRef) {
	for _, c := range classes {
		r.grade5[c] = struct{}{}
	}
}

// RestrictToMainSubjectsOnly marks an exchange class (e.g. 3年6組) whose
// mirroring of its parent covers only the configured main subjects
// (Parameters.MainSubjects): the exchange-mirror constraint and
// ExchangePlacer ignore parent slots holding any other subject. The flag
// does not limit the parent's own placements to 数/英, and test periods
// play no part in it.
func (r *ExchangeRegistry) RestrictToMainSubjectsOnly(exchange ClassRef) {
	r.restrictedToMainOnly[exchange] = struct{}{}
}

// IsRestrictedToMainSubjectsOnly reports whether exchange carries that flag.
func (r *ExchangeRegistry) IsRestrictedToMainSubjectsOnly(exchange ClassRef) bool {
	_, ok := r.restrictedToMainOnly[exchange]
	return ok
}

// ParentOf returns the parent class of an exchange class, if registered.
func (r *ExchangeRegistry) ParentOf(exchange ClassRef) (ClassRef, bool) {
	p, ok := r.parentOf[exchange]
	return p, ok
}

// ExchangeOf returns the exchange class mirroring a parent class, if any.
func (r *ExchangeRegistry) ExchangeOf(parent ClassRef) (ClassRef, bool) {
	e, ok := r.exchangeOf[parent]
	return e, ok
}

// IsGrade5 reports whether a class is one of the three Grade-5 classes.
func (r *ExchangeRegistry) IsGrade5(class ClassRef) bool {
	_, ok := r.grade5[class]
	return ok
}

// Grade5Set returns the three registered Grade-5 classes, in stable order.
func (r *ExchangeRegistry) Grade5Set() []ClassRef {
	out := make([]ClassRef, 0, len(r.grade5))
	for c := range r.grade5 {
		out = append(out, c)
	}
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j].Less(out[j-1]) {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}

// ExchangePairs returns every registered (exchange, parent) pair.
func (r *ExchangeRegistry) ExchangePairs() []struct{ Exchange, Parent ClassRef } {
	out := make([]struct{ Exchange, Parent ClassRef }, 0, len(r.parentOf))
	for e, p := range r.parentOf {
		out = append(out, struct{ Exchange, Parent ClassRef }{Exchange: e, Parent: p})
	}
	return out
}
