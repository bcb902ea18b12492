package autowire

// registrar turns classified candidates into concrete registrations:
// the implementation under its own identity, then every qualifying
// interface as an alias of it. Candidates declared as decorators are
// held back, in declaration order; they only enter the graph through
// the decorator chain.
type registrar struct {
	col *Collection
}

func (r *registrar) register(candidates []Candidate) []Candidate {
	var decorators []Candidate

	for _, c := range candidates {
		if c.Decorator != nil {
			decorators = append(decorators, c)
			continue
		}

		lifetime := c.Lifetime
		if lifetime == Unset {
			lifetime = Singleton
		}

		r.col.Add(Registration{
			Service:          c.Name,
			Module:           c.Module,
			Lifetime:         lifetime,
			Factory:          c.Factory,
			Params:           c.Params,
			ExcludeInjection: c.ExcludeInjection,
		})

		for _, iface := range c.Interfaces {
			r.col.Add(Registration{
				Service:  iface.Name,
				Module:   c.Module,
				Lifetime: lifetime,
				AliasFor: c.Name,
			})
		}
	}

	return decorators
}
