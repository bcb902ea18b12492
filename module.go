package autowire

import (
	"github.com/goccy/go-reflect"
)

// Module is one participating unit of registration. In Go there is no
// runtime enumeration of loaded packages, so a module announces its
// own contents: the constructors and prototypes it provides, the
// interfaces it exports and the plugins it contributes. Modules are
// usually registered from a package init via Register, which makes a
// blank import the anchor reference forcing participation (see doc.go).
type Module struct {
	// Name is the canonical module path, used as the stable sort key
	// during discovery and as the idempotency key in the bootstrap
	// registry.
	Name string

	loader     func() error
	types      []TypeDecl
	plugins    []PluginDecl
	interfaces []reflect.Type
}

// TypeDecl is a raw, unclassified declaration of a provided type. All
// registration metadata is attached here as plain fields; the
// classifier consumes nothing else.
type TypeDecl struct {
	// Value is either a constructor func or a prototype pointer to a
	// struct whose `inject` tagged fields are the dependencies.
	Value any

	Lifetime            Lifetime
	ExcludeRegistration bool
	ExcludeInjection    bool
	Decorator           *DecoratorSpec
}

// PluginDecl declares a plugin contributed by a module. Value is the
// plugin instance or a func() any producing it; capabilities are
// derived from the hook interfaces the instance implements.
type PluginDecl struct {
	Value any
}

type ModuleOption = func(*Module)

// NewModule assembles a module declaration from options.
func NewModule(name string, options ...ModuleOption) *Module {
	m := &Module{Name: name}

	for _, option := range options {
		option(m)
	}

	return m
}

// Provide declares a constructor func or struct prototype.
func Provide(value any, options ...ProvideOption) ModuleOption {
	return func(m *Module) {
		decl := TypeDecl{Value: value}

		for _, option := range options {
			option(&decl)
		}

		m.types = append(m.types, decl)
	}
}

// ProvideDecl declares an already assembled TypeDecl. Generated
// registration code uses this form.
func ProvideDecl(decl TypeDecl) ModuleOption {
	return func(m *Module) { m.types = append(m.types, decl) }
}

// Export adds an interface to the module's exported interface set.
// The introspective source matches every candidate against this
// universe to compute its exposed interfaces. Pass a nil interface
// pointer, e.g. Export((*IService)(nil)).
func Export(iface any) ModuleOption {
	return func(m *Module) {
		t := sampleType(iface)
		if t.Kind() != reflect.Interface {
			panic("Export expects a pointer to an interface type")
		}

		m.interfaces = append(m.interfaces, t)
	}
}

// ProvidePlugin declares a plugin instance or factory.
func ProvidePlugin(value any) ModuleOption {
	return func(m *Module) {
		m.plugins = append(m.plugins, PluginDecl{Value: value})
	}
}

// WithLoader attaches a load hook run once during discovery. A loader
// error aborts discovery unless continue-on-error mode is active.
func WithLoader(loader func() error) ModuleOption {
	return func(m *Module) { m.loader = loader }
}

type ProvideOption = func(*TypeDecl)

// WithLifetime tags the declaration with an explicit lifetime.
// Untagged declarations default to Singleton during classification.
func WithLifetime(l Lifetime) ProvideOption {
	return func(d *TypeDecl) { d.Lifetime = l }
}

// AsDecorator marks the declaration as a decorator for the target
// service at the given order.
func AsDecorator(target any, order int) ProvideOption {
	return func(d *TypeDecl) {
		d.Decorator = &DecoratorSpec{Target: RefOf(target), Order: order}
	}
}

// ExcludeFromRegistration keeps the type out of the registry entirely.
func ExcludeFromRegistration() ProvideOption {
	return func(d *TypeDecl) { d.ExcludeRegistration = true }
}

// ExcludeFromInjection registers the type for direct resolution but
// keeps it out of the injection graph.
func ExcludeFromInjection() ProvideOption {
	return func(d *TypeDecl) { d.ExcludeInjection = true }
}
