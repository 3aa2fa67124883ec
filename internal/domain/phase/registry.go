package phase

// Source labels for implementations.
const (
	SourcePackage = "package"
	SourceBuiltin = "builtin"
)

type buildClass struct {
	name  string
	funcs map[Name]Func
}

// Registry holds the three implementation tiers for one build.
//
// Precedence is package over build-class over default. Within the
// build-class tier a class added later overrides one added earlier.
type Registry struct {
	pkg      map[Name]Func
	classes  []buildClass
	defaults map[Name]Func
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		pkg:      make(map[Name]Func),
		defaults: make(map[Name]Func),
	}
}

// SetPackage registers the recipe's own implementation of a phase.
func (r *Registry) SetPackage(name Name, fn Func) {
	r.pkg[name] = fn
}

// AddBuildClass appends a build-class to the inherit chain.
func (r *Registry) AddBuildClass(class string, funcs map[Name]Func) {
	copied := make(map[Name]Func, len(funcs))
	for n, fn := range funcs {
		copied[n] = fn
	}
	r.classes = append(r.classes, buildClass{name: class, funcs: copied})
}

// SetDefault registers the engine's built-in implementation of a phase.
func (r *Registry) SetDefault(name Name, fn Func) {
	r.defaults[name] = fn
}

// Inherited returns the build-class chain in inherit order.
func (r *Registry) Inherited() []string {
	out := make([]string, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c.name)
	}
	return out
}

// Lookup returns the highest-precedence implementation of name. Nil entries
// do not shadow lower tiers.
func (r *Registry) Lookup(name Name) (Implementation, bool) {
	if fn := r.pkg[name]; fn != nil {
		return Implementation{Kind: PackageOverride, Source: SourcePackage, Run: fn}, true
	}
	for i := len(r.classes) - 1; i >= 0; i-- {
		if fn := r.classes[i].funcs[name]; fn != nil {
			return Implementation{Kind: BuildClassProvided, Source: r.classes[i].name, Run: fn}, true
		}
	}
	if fn := r.defaults[name]; fn != nil {
		return Implementation{Kind: Default, Source: SourceBuiltin, Run: fn}, true
	}
	return Implementation{}, false
}
