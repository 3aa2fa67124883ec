package phase

// Resolver selects implementations from a Registry for one EAPI.
type Resolver struct {
	registry *Registry
	eapi     string
	level    int
}

// NewResolver validates eapi and returns a Resolver over registry.
func NewResolver(registry *Registry, eapi string) (*Resolver, error) {
	level, err := ParseEAPI(eapi)
	if err != nil {
		return nil, err
	}
	return &Resolver{registry: registry, eapi: eapi, level: level}, nil
}

// EAPI returns the active EAPI tag.
func (r *Resolver) EAPI() string {
	return r.eapi
}

// Eligible reports whether def exists at the active EAPI.
func (r *Resolver) Eligible(def Definition) bool {
	return ValidFor(def.Name, r.level)
}

// Resolve returns the implementation of def.
//
// A phase that does not exist at the active EAPI is treated as absent:
// mandatory phases fail with VERSION_INCOMPATIBLE_PHASE and optional ones
// resolve to a no-op. Unimplemented mandatory phases fail with
// MISSING_PHASE.
func (r *Resolver) Resolve(def Definition) (Implementation, error) {
	if !r.Eligible(def) {
		if def.Mandatory {
			return Implementation{}, NewVersionIncompatibleError(def.Name, r.eapi)
		}
		return NoOpImplementation(), nil
	}

	impl, ok := r.registry.Lookup(def.Name)
	if ok && impl.Run != nil {
		return impl, nil
	}
	if def.Mandatory {
		return Implementation{}, NewMissingPhaseError(def.Name)
	}
	return NoOpImplementation(), nil
}

// Plan resolves every definition once, in order. Resolution stops at the
// first mandatory phase that cannot be resolved.
func (r *Resolver) Plan(defs []Definition) (*Plan, error) {
	plan := NewPlan(r.eapi)
	for _, def := range defs {
		impl, err := r.Resolve(def)
		if err != nil {
			return nil, err
		}
		plan.Add(NewEntry(def, impl, r.Eligible(def)))
	}
	return plan, nil
}
