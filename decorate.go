package autowire

import (
	"sort"
)

// applyDecorations layers decorators over their target registrations.
// Decorators arrive in declaration order; within one target they apply
// ascending by Order, the stable sort keeping declaration order on
// ties. The lowest order wraps the undecorated base, every later one
// wraps the previous result. The base lifetime is preserved through
// every layer.
//
// A decorator whose target has no registration is skipped by default;
// strict mode turns that into a MissingDecorationTargetError.
func applyDecorations(col *Collection, decorators []Candidate, strict bool) error {
	groups := make(map[string][]Candidate)

	var targets []string
	for _, d := range decorators {
		target := d.Decorator.Target.Name
		if _, seen := groups[target]; !seen {
			targets = append(targets, target)
		}

		groups[target] = append(groups[target], d)
	}

	sort.Strings(targets)

	for _, target := range targets {
		group := groups[target]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Decorator.Order < group[j].Decorator.Order
		})

		base, ok := col.Lookup(target)
		if !ok {
			if strict {
				return &MissingDecorationTargetError{
					Target:    target,
					Decorator: group[0].Name,
				}
			}

			continue
		}

		factory := col.factoryFor(base)
		params := base.Params

		for _, d := range group {
			factory = wrapLayer(factory, d)
			params = append(params, dependenciesBeside(d, target)...)
		}

		col.Add(Registration{
			Service:  target,
			Module:   base.Module,
			Lifetime: base.Lifetime,
			Factory:  factory,
			AliasFor: "",
			Params:   params,
		})
	}

	return nil
}

// wrapLayer builds the next chain layer: construct the inner value,
// then the decorator around it.
func wrapLayer(inner Factory, cand Candidate) Factory {
	wrap := cand.wrap
	name := cand.Name

	return func(r Resolver) (any, error) {
		if wrap == nil {
			return nil, &ConstructionError{Service: name, Err: ErrNotFound}
		}

		base, err := inner(r)
		if err != nil {
			return nil, err
		}

		instance, err := wrap(base, r)
		if err != nil {
			return nil, &ConstructionError{Service: name, Err: err}
		}

		if init, ok := instance.(Initializable); ok {
			if err := init.Init(); err != nil {
				return nil, &ConstructionError{Service: name, Err: err}
			}
		}

		return instance, nil
	}
}

// dependenciesBeside lists a decorator's own dependencies, minus the
// target it wraps, so verification sees the full decorated graph.
func dependenciesBeside(cand Candidate, target string) []ServiceRef {
	var params []ServiceRef
	for _, p := range cand.Params {
		if p.Name == target {
			continue
		}

		params = append(params, p)
	}

	return params
}
