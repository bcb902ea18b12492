package autowire

import (
	"errors"
	"sort"
	"sync"
)

// serviceContainer is the finished registry. Entries are frozen at
// build time; the only mutable state afterwards is the singleton cache
// on each entry, the scoped caches and the disposal list.
type serviceContainer struct {
	entries []*entry
	index   map[string]*entry

	root *scopeState

	disposeMu sync.Mutex
	dispose   []Disposable
	closed    bool
}

func newServiceContainer(entries []*entry) *serviceContainer {
	c := &serviceContainer{
		entries: entries,
		index:   make(map[string]*entry, len(entries)),
		root:    newScopeState(),
	}

	// Self reference, so services can take the Container itself as a
	// dependency.
	self := &entry{
		names:    []string{containerServiceName},
		lifetime: Singleton,
		factory:  func(Resolver) (any, error) { return c, nil },
	}
	c.entries = append(c.entries, self)

	for _, e := range c.entries {
		for _, name := range e.names {
			c.index[name] = e
		}
	}

	return c
}

func (c *serviceContainer) Resolve(sample any) (any, error) {
	s := session{container: c, scope: c.root}
	return s.resolve(valueTypeName(sample))
}

func (c *serviceContainer) Has(sample any) bool {
	_, ok := c.index[valueTypeName(sample)]
	return ok
}

func (c *serviceContainer) Services() []string {
	names := make([]string, 0, len(c.index))
	for name := range c.index {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Scope derives a resolver with a fresh scoped cache. Singletons are
// shared with the root; the root container acts as its own default
// scope for scoped services resolved directly on it.
func (c *serviceContainer) Scope() Resolver {
	return &scopedResolver{container: c, scope: newScopeState()}
}

// initialize eagerly constructs every singleton, in registration
// order. The pipeline calls it once before the after-build plugins
// run, so misconfigured singletons surface at build time.
func (c *serviceContainer) initialize() error {
	for _, e := range c.entries {
		if e.lifetime != Singleton && e.lifetime != Unset {
			continue
		}

		s := session{container: c, scope: c.root}
		if _, err := s.build(e); err != nil {
			return err
		}
	}

	return nil
}

func (c *serviceContainer) noteBuilt(instance any) {
	if self, ok := instance.(*serviceContainer); ok && self == c {
		return
	}

	d, ok := instance.(Disposable)
	if !ok {
		return
	}

	c.disposeMu.Lock()
	c.dispose = append(c.dispose, d)
	c.disposeMu.Unlock()
}

// Close disposes built instances in reverse construction order.
func (c *serviceContainer) Close() error {
	c.disposeMu.Lock()
	defer c.disposeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for i := len(c.dispose) - 1; i >= 0; i-- {
		if err := c.dispose[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// scopedResolver resolves against one derived scope.
type scopedResolver struct {
	container *serviceContainer
	scope     *scopeState
}

func (r *scopedResolver) Resolve(sample any) (any, error) {
	s := session{container: r.container, scope: r.scope}
	return s.resolve(valueTypeName(sample))
}

// scopeState caches scoped instances for one unit of work.
type scopeState struct {
	mu    sync.Mutex
	cache map[*entry]any
}

func newScopeState() *scopeState {
	return &scopeState{cache: make(map[*entry]any)}
}

func (s *scopeState) get(e *entry) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache[e]
	return v, ok
}

// putOnce stores the instance unless a concurrent resolution won the
// race, in which case the first instance stays authoritative.
func (s *scopeState) putOnce(e *entry, v any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cache[e]; ok {
		return existing
	}

	s.cache[e] = v
	return v
}

// session is one resolution pass: it carries the cycle-detection stack
// and the active scope through nested factory calls.
type session struct {
	container *serviceContainer
	scope     *scopeState
	stack     buildStack
}

func (s *session) Resolve(sample any) (any, error) {
	return s.resolve(valueTypeName(sample))
}

func (s *session) resolve(name string) (any, error) {
	e, ok := s.container.index[name]
	if !ok {
		return nil, &NotRegisteredError{Service: name}
	}

	return s.build(e)
}

func (s *session) build(e *entry) (any, error) {
	if s.stack.Contains(e) {
		return nil, &CycleError{Service: e.primary(), Chain: append(s.stack.Names(), e.primary())}
	}

	s.stack.Push(e)
	defer s.stack.Pop()

	switch e.lifetime {
	case Transient:
		return e.construct(s)
	case Scoped:
		if v, ok := s.scope.get(e); ok {
			return v, nil
		}

		v, err := e.construct(s)
		if err != nil {
			return nil, err
		}

		return s.scope.putOnce(e, v), nil
	default:
		e.once.Do(func() {
			e.resolved, e.err = e.construct(s)
			if e.err == nil {
				s.container.noteBuilt(e.resolved)
			}
		})

		return e.resolved, e.err
	}
}
