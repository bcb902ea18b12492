package autowire

// Container is the finished, queryable service graph handed back by
// the pipeline. Resolution honors the registered lifetimes: one shared
// instance for singletons, one per derived scope for scoped services
// and a fresh instance per call for transients.
type Container interface {
	Resolver

	// Has checks whether the service of the sample's type exists.
	Has(sample any) bool

	// Services lists every registered service identity.
	Services() []string

	// Scope derives a unit-of-work resolver with its own scoped
	// instance cache. Singletons stay shared with the root.
	Scope() Resolver

	// Close disposes every built singleton implementing Disposable,
	// in reverse construction order.
	Close() error
}

// Initializable services run Init once, right after construction.
type Initializable interface {
	Init() error
}

// Disposable services are closed when the container closes.
type Disposable interface {
	Close() error
}
