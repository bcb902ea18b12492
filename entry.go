package autowire

import (
	"sync"
)

// entry is one resolvable unit of the container. A singleton entry
// carries every service identity it is exposed under, so resolving an
// implementation through any of its interfaces lands on the same
// instance.
type entry struct {
	names    []string
	lifetime Lifetime
	factory  Factory

	once     sync.Once
	resolved any
	err      error
}

func (e *entry) primary() string {
	if len(e.names) == 0 {
		return "<unnamed>"
	}

	return e.names[0]
}

func (e *entry) addName(name string) {
	for _, n := range e.names {
		if n == name {
			return
		}
	}

	e.names = append(e.names, name)
}

// construct runs the factory and the optional Init hook. Singleton
// caching is handled by the resolution session, not here.
func (e *entry) construct(r Resolver) (any, error) {
	if e.factory == nil {
		return nil, &ConstructionError{Service: e.primary(), Err: ErrNotFound}
	}

	instance, err := e.factory(r)
	if err != nil {
		return nil, &ConstructionError{Service: e.primary(), Err: err}
	}

	if init, ok := instance.(Initializable); ok {
		if err := init.Init(); err != nil {
			return nil, &ConstructionError{Service: e.primary(), Err: err}
		}
	}

	return instance, nil
}
