package autowire

// The precomputed table is the durable contract between the engine and
// whatever build step produced it: per module, the candidate tuples
// and the plugin tuples. Entries are trusted as already classified;
// the engine applies no shape rules to them.

// Table is a static registry of candidates and plugins, produced ahead
// of time and consumed instead of runtime introspection.
type Table struct {
	Modules []TableModule
}

// TableModule groups the table entries of one module.
type TableModule struct {
	Name    string
	Types   []TableType
	Plugins []TablePlugin
}

// TableType is one precomputed candidate tuple. Type, Factory and Wrap
// are nil for metadata-only tables, which support classification
// inspection and verification but not resolution.
type TableType struct {
	Name             string
	Interfaces       []ServiceRef
	Lifetime         Lifetime
	Params           []ServiceRef
	Factory          Factory
	Decorator        *DecoratorSpec
	ExcludeInjection bool

	// Wrap is the decorator construction path around an inner layer,
	// required when Decorator is set and Factory is live.
	Wrap func(inner any, r Resolver) (any, error)
}

// TablePlugin is one precomputed plugin tuple.
type TablePlugin struct {
	Name         string
	Capabilities []string
	Factory      func() any
}

// TableType exports a classified candidate as a table tuple. Build
// steps producing generated tables use this to stay on the contract
// shape.
func (c Candidate) TableType() TableType {
	return TableType{
		Name:             c.Name,
		Interfaces:       c.Interfaces,
		Lifetime:         c.Lifetime,
		Params:           c.Params,
		Factory:          c.Factory,
		Decorator:        c.Decorator,
		ExcludeInjection: c.ExcludeInjection,
		Wrap:             c.wrap,
	}
}

// precomputedSource serves a prebuilt table, filtered to the
// discovered modules. With no modules and the unfiltered flag set, the
// whole table is served; that mode exists for environments where
// module enumeration is unavailable.
type precomputedSource struct {
	table      *Table
	modules    []*Module
	unfiltered bool
}

// NewPrecomputedSource returns the static candidate source over table,
// filtered to the given modules.
func NewPrecomputedSource(table *Table, modules []*Module) CandidateSource {
	return &precomputedSource{table: table, modules: modules}
}

// NewUnfilteredSource returns the static source in do-not-filter mode:
// every table entry is served regardless of discovery.
func NewUnfilteredSource(table *Table) CandidateSource {
	return &precomputedSource{table: table, unfiltered: true}
}

// served returns the table modules to enumerate, in the order the
// downstream stages must see them: the discovered module sequence when
// modules were supplied, so candidate and plugin order matches the
// introspective backend regardless of how the producer laid the table
// out, and table order only in unfiltered mode, where no discovery
// sequence exists.
func (s *precomputedSource) served() []*TableModule {
	if len(s.modules) == 0 {
		if !s.unfiltered {
			return nil
		}

		all := make([]*TableModule, 0, len(s.table.Modules))
		for i := range s.table.Modules {
			all = append(all, &s.table.Modules[i])
		}

		return all
	}

	byName := make(map[string]*TableModule, len(s.table.Modules))
	for i := range s.table.Modules {
		byName[s.table.Modules[i].Name] = &s.table.Modules[i]
	}

	served := make([]*TableModule, 0, len(s.modules))
	for _, m := range s.modules {
		if tm, ok := byName[m.Name]; ok {
			served = append(served, tm)
		}
	}

	return served
}

func (s *precomputedSource) Candidates() ([]Candidate, error) {
	var candidates []Candidate
	for _, m := range s.served() {
		for _, t := range m.Types {
			candidates = append(candidates, Candidate{
				Name:             t.Name,
				Module:           m.Name,
				Interfaces:       t.Interfaces,
				Params:           t.Params,
				Lifetime:         t.Lifetime,
				Factory:          t.Factory,
				Decorator:        t.Decorator,
				ExcludeInjection: t.ExcludeInjection,
				wrap:             t.Wrap,
			})
		}
	}

	return candidates, nil
}

func (s *precomputedSource) Plugins() ([]PluginSpec, error) {
	var specs []PluginSpec
	for _, m := range s.served() {
		for _, p := range m.Plugins {
			specs = append(specs, PluginSpec{
				Name:         p.Name,
				Module:       m.Name,
				Capabilities: p.Capabilities,
				Factory:      p.Factory,
			})
		}
	}

	return specs, nil
}
