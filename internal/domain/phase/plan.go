package phase

// Entry is one resolved phase of a Plan.
type Entry struct {
	definition     Definition
	implementation Implementation
	eligible       bool
}

// NewEntry creates a new Entry.
func NewEntry(def Definition, impl Implementation, eligible bool) Entry {
	return Entry{
		definition:     def,
		implementation: impl,
		eligible:       eligible,
	}
}

// Definition returns the phase definition.
func (e Entry) Definition() Definition {
	return e.definition
}

// Name returns the phase name.
func (e Entry) Name() Name {
	return e.definition.Name
}

// Implementation returns the resolved implementation.
func (e Entry) Implementation() Implementation {
	return e.implementation
}

// Eligible reports whether the phase exists at the plan's EAPI.
func (e Entry) Eligible() bool {
	return e.eligible
}

// Plan is the ordered, resolved pipeline of one build.
type Plan struct {
	eapi    string
	entries []Entry
}

// NewPlan creates an empty Plan for eapi.
func NewPlan(eapi string) *Plan {
	return &Plan{
		eapi:    eapi,
		entries: make([]Entry, 0),
	}
}

// Add appends an entry.
func (p *Plan) Add(entry Entry) {
	p.entries = append(p.entries, entry)
}

// EAPI returns the EAPI the plan was resolved for.
func (p *Plan) EAPI() string {
	return p.eapi
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.entries)
}

// Entries returns all entries in order.
func (p *Plan) Entries() []Entry {
	return p.entries
}

// Regular returns the non-cleanup entries in order.
func (p *Plan) Regular() []Entry {
	result := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		if !e.definition.Cleanup {
			result = append(result, e)
		}
	}
	return result
}

// Cleanup returns the cleanup entries in order.
func (p *Plan) Cleanup() []Entry {
	result := make([]Entry, 0)
	for _, e := range p.entries {
		if e.definition.Cleanup {
			result = append(result, e)
		}
	}
	return result
}

// Lookup returns the entry for name.
func (p *Plan) Lookup(name Name) (Entry, bool) {
	for _, e := range p.entries {
		if e.definition.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
