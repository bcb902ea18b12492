package autowire

import (
	"github.com/goccy/go-reflect"
)

// CandidateSource enumerates the candidate types and plugins of the
// discovered modules. The two implementations, introspective and
// precomputed, must yield semantically identical results for the same
// program; switching between them is a construction-time choice that
// changes nothing downstream.
type CandidateSource interface {
	Candidates() ([]Candidate, error)
	Plugins() ([]PluginSpec, error)
}

// SourceFactory binds a source to the discovered module sequence. The
// pipeline invokes it once per build, after discovery.
type SourceFactory func(modules []*Module) CandidateSource

// introspectiveSource walks every declaration of every discovered
// module and classifies it with the shape rules of the classifier.
type introspectiveSource struct {
	modules []*Module
}

// NewIntrospectiveSource returns the reflective candidate source over
// the given modules.
func NewIntrospectiveSource(modules []*Module) CandidateSource {
	return &introspectiveSource{modules: modules}
}

func (s *introspectiveSource) Candidates() ([]Candidate, error) {
	cl := &classifier{universe: exportedInterfaces(s.modules)}

	var candidates []Candidate
	for _, m := range s.modules {
		for _, decl := range m.types {
			if c, ok := cl.classify(m.Name, decl); ok {
				candidates = append(candidates, c)
			}
		}
	}

	return candidates, nil
}

func (s *introspectiveSource) Plugins() ([]PluginSpec, error) {
	var specs []PluginSpec
	for _, m := range s.modules {
		for _, decl := range m.plugins {
			spec, ok := describePlugin(m.Name, decl)
			if !ok {
				continue
			}

			specs = append(specs, spec)
		}
	}

	return specs, nil
}

// exportedInterfaces merges every module's exported interface set into
// one deduplicated universe.
func exportedInterfaces(modules []*Module) []reflect.Type {
	seen := make(map[string]bool)

	var universe []reflect.Type
	for _, m := range modules {
		for _, iface := range m.interfaces {
			name := typeName(iface)
			if seen[name] {
				continue
			}

			seen[name] = true
			universe = append(universe, iface)
		}
	}

	return universe
}

// describePlugin derives a PluginSpec from a declaration. Capabilities
// come from the hook interfaces the instance implements; a value
// without any hook is not a plugin. A factory-form declaration is
// invoked exactly once, and the spec's factory hands out that same
// instance, so the hooks run on the instance the capabilities were
// read from.
func describePlugin(module string, decl PluginDecl) (PluginSpec, bool) {
	probe := decl.Value
	if factory, ok := decl.Value.(func() any); ok {
		probe = factory()
	}

	if probe == nil {
		return PluginSpec{}, false
	}

	var capabilities []string
	if _, ok := probe.(BeforeRegistrationHook); ok {
		capabilities = append(capabilities, CapBeforeRegistration)
	}
	if _, ok := probe.(BeforeFinalizeHook); ok {
		capabilities = append(capabilities, CapBeforeFinalize)
	}
	if _, ok := probe.(AfterBuildHook); ok {
		capabilities = append(capabilities, CapAfterBuild)
	}

	if len(capabilities) == 0 {
		return PluginSpec{}, false
	}

	return PluginSpec{
		Name:         typeName(reflect.TypeOf(probe)),
		Module:       module,
		Capabilities: capabilities,
		Factory:      func() any { return probe },
	}, true
}
