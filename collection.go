package autowire

// Registration is one service binding in the pre-build collection. An
// alias registration (AliasFor set) delegates resolution to another
// service identity, which is how interface registrations of a
// singleton defer to the single concrete instance.
type Registration struct {
	// Service is the identity the binding is resolved under.
	Service string
	// Module is the owning module path, empty for manual additions.
	Module string

	Lifetime Lifetime

	// Factory is nil for alias registrations and for metadata-only
	// bindings loaded from a serialized table.
	Factory Factory

	// AliasFor delegates to the named service.
	AliasFor string

	// Params is the dependency list used by verification.
	Params []ServiceRef

	// ExcludeInjection removes the binding from the verification
	// graph.
	ExcludeInjection bool
}

// Collection is the mutable registration set the pipeline assembles
// before the container is finalized. At most one registration per
// service identity is active at a time; superseded entries are kept as
// history but never resolved.
type Collection struct {
	history []Registration
	active  map[string]int // service -> index into history
	order   []string       // active services in first-seen order
}

func newCollection() *Collection {
	return &Collection{active: make(map[string]int)}
}

// Add appends a registration. A later registration for the same
// service supersedes the earlier one but keeps its position in the
// collection order.
func (c *Collection) Add(reg Registration) {
	c.history = append(c.history, reg)

	if _, seen := c.active[reg.Service]; !seen {
		c.order = append(c.order, reg.Service)
	}

	c.active[reg.Service] = len(c.history) - 1
}

// Lookup returns the active registration for a service.
func (c *Collection) Lookup(service string) (Registration, bool) {
	i, ok := c.active[service]
	if !ok {
		return Registration{}, false
	}

	return c.history[i], true
}

// Registrations returns the active set in collection order.
func (c *Collection) Registrations() []Registration {
	regs := make([]Registration, 0, len(c.order))
	for _, service := range c.order {
		regs = append(regs, c.history[c.active[service]])
	}

	return regs
}

// Len reports the number of active registrations.
func (c *Collection) Len() int { return len(c.order) }

// factoryFor returns the construction path of a registration: the
// factory itself, or a delegating resolve for aliases.
func (c *Collection) factoryFor(reg Registration) Factory {
	if reg.AliasFor == "" {
		return reg.Factory
	}

	target := reg.AliasFor
	return func(r Resolver) (any, error) {
		return r.Resolve(ServiceRef{Name: target})
	}
}

// entries freezes the active set into container entries. Alias
// registrations are folded into their target's entry, which is what
// makes resolve(IFoo) and resolve(Foo) the same singleton instance.
func (c *Collection) entries() []*entry {
	byService := make(map[string]*entry)

	var entries []*entry
	for _, reg := range c.Registrations() {
		if reg.AliasFor != "" {
			continue
		}

		e := &entry{names: []string{reg.Service}, lifetime: reg.Lifetime, factory: reg.Factory}
		byService[reg.Service] = e
		entries = append(entries, e)
	}

	for _, reg := range c.Registrations() {
		if reg.AliasFor == "" {
			continue
		}

		if target, ok := byService[reg.AliasFor]; ok {
			target.addName(reg.Service)
			byService[reg.Service] = target
			continue
		}

		// Alias to a service that is itself an alias or missing:
		// fall back to a delegating entry.
		e := &entry{names: []string{reg.Service}, lifetime: reg.Lifetime, factory: c.factoryFor(reg)}
		entries = append(entries, e)
	}

	return entries
}
