package autowire

import (
	"github.com/goccy/go-reflect"
)

// Resolver is the minimal resolution surface factories receive. Both
// the root container and derived scopes implement it.
type Resolver interface {
	// Resolve returns the service standing for the sample value.
	// Interface services are requested with a nil interface pointer,
	// e.g. (*IService)(nil).
	Resolve(sample any) (any, error)
}

// Factory constructs one service instance against a resolver.
type Factory func(r Resolver) (any, error)

// ServiceRef identifies a service by canonical name. Type is present
// when the reference was produced by a live (introspective or
// generated) source and nil for metadata-only tables.
type ServiceRef struct {
	Name string
	Type reflect.Type
}

// RefOf builds a ServiceRef from a sample value, following the same
// convention as Resolver.Resolve.
func RefOf(sample any) ServiceRef {
	t := sampleType(sample)
	return ServiceRef{Name: typeName(t), Type: t}
}

// DecoratorSpec declares one decorator layer over a target service.
// Lower orders sit closer to the undecorated base; ties are broken by
// declaration sequence and remain stable across runs.
type DecoratorSpec struct {
	Target ServiceRef
	Order  int
}

// Candidate is one classified implementation type as produced by a
// CandidateSource. Candidates are immutable once enumerated.
type Candidate struct {
	// Name is the qualified identity of the implementation type.
	Name string
	// Module is the canonical path of the owning module.
	Module string

	// Type is the concrete implementation type, nil for
	// metadata-only candidates loaded from a serialized table.
	Type reflect.Type

	// Interfaces the implementation is exposed under, after the
	// exclusion rules have been applied.
	Interfaces []ServiceRef

	// Params are the constructor-injectable dependencies, used both
	// to drive construction and to verify the finished graph.
	Params []ServiceRef

	Lifetime Lifetime

	// Factory builds an instance. Nil for metadata-only candidates,
	// which support verification but not resolution.
	Factory Factory

	// Decorator is set when the candidate was declared as a
	// decorator; such candidates only enter the graph through the
	// decorator chain.
	Decorator *DecoratorSpec

	// ExcludeInjection keeps the candidate resolvable but removes it
	// from the injection graph: no interface exposure, no
	// participation in verification.
	ExcludeInjection bool

	// wrap builds a decorator layer around an already resolved inner
	// instance. Only set for live decorator candidates.
	wrap wrapFunc
}

// wrapFunc constructs a decorator instance around the inner layer,
// resolving every other dependency through the resolver.
type wrapFunc func(inner any, r Resolver) (any, error)

// Plugin phase capabilities. A plugin may carry any subset.
const (
	CapBeforeRegistration = "before-registration"
	CapBeforeFinalize     = "before-finalize"
	CapAfterBuild         = "after-build"
)

// PluginSpec describes one discovered plugin: its identity, owning
// module, the phases it participates in and a factory producing the
// instance the hooks are invoked on.
type PluginSpec struct {
	Name         string
	Module       string
	Capabilities []string
	Factory      func() any
}

// HasCapability reports whether the plugin declared the given phase.
func (p PluginSpec) HasCapability(c string) bool {
	for _, have := range p.Capabilities {
		if have == c {
			return true
		}
	}

	return false
}
