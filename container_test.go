package autowire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type cycleA struct{ B *cycleB }

type cycleB struct{ A *cycleA }

func newCycleA(b *cycleB) *cycleA { return &cycleA{B: b} }

func newCycleB(a *cycleA) *cycleB { return &cycleB{A: a} }

var disposedOrder []string

type disposableOne struct{}

func newDisposableOne() *disposableOne { return &disposableOne{} }

func (*disposableOne) Close() error {
	disposedOrder = append(disposedOrder, "one")
	return nil
}

type disposableTwo struct {
	One *disposableOne
}

func newDisposableTwo(one *disposableOne) *disposableTwo { return &disposableTwo{One: one} }

func (*disposableTwo) Close() error {
	disposedOrder = append(disposedOrder, "two")
	return nil
}

var initCount int

type eagerService struct{}

func newEagerService() *eagerService { return &eagerService{} }

func (*eagerService) Init() error {
	initCount++
	return nil
}

type ContainerSuite struct {
	suite.Suite
}

func (s *ContainerSuite) build(options ...ModuleOption) Container {
	module := NewModule("example.com/container", options...)

	container, err := New().
		WithoutBootstrap().
		WithModules(module).
		WithLogger(nopLogger{}).
		Build()
	s.Require().NoError(err)

	return container
}

func (s *ContainerSuite) TestSingletonIdentity() {
	container := s.build(
		Provide(NewLogbook),
		Provide(NewGreetService),
		Export((*IService)(nil)),
	)

	viaInterface, err := container.Resolve((*IService)(nil))
	s.Require().NoError(err)
	viaConcrete, err := container.Resolve((*GreetService)(nil))
	s.Require().NoError(err)

	s.Same(viaConcrete, viaInterface)

	again, err := container.Resolve((*IService)(nil))
	s.Require().NoError(err)
	s.Same(viaInterface, again)
}

func (s *ContainerSuite) TestTransientFreshPerResolution() {
	container := s.build(Provide(NewLogbook, WithLifetime(Transient)))

	first, err := container.Resolve((*Logbook)(nil))
	s.Require().NoError(err)
	second, err := container.Resolve((*Logbook)(nil))
	s.Require().NoError(err)

	s.NotSame(first, second)
}

func (s *ContainerSuite) TestScopedCachedPerScope() {
	container := s.build(
		Provide(NewLogbook),
		Provide(NewCache, WithLifetime(Scoped)),
	)

	scopeOne := container.Scope()
	scopeTwo := container.Scope()

	a1, err := scopeOne.Resolve((*Cache)(nil))
	s.Require().NoError(err)
	a2, err := scopeOne.Resolve((*Cache)(nil))
	s.Require().NoError(err)
	b1, err := scopeTwo.Resolve((*Cache)(nil))
	s.Require().NoError(err)

	s.Same(a1, a2)
	s.NotSame(a1, b1)

	// Singletons stay shared across scopes.
	logOne, err := scopeOne.Resolve((*Logbook)(nil))
	s.Require().NoError(err)
	logTwo, err := scopeTwo.Resolve((*Logbook)(nil))
	s.Require().NoError(err)
	s.Same(logOne, logTwo)
}

func (s *ContainerSuite) TestNotRegistered() {
	container := s.build(Provide(NewLogbook))

	_, err := container.Resolve((*Cache)(nil))
	s.Require().Error(err)

	var notRegistered *NotRegisteredError
	s.ErrorAs(err, &notRegistered)
	s.ErrorIs(err, ErrNotFound)
	s.False(container.Has((*Cache)(nil)))
	s.True(container.Has((*Logbook)(nil)))
}

func (s *ContainerSuite) TestCycleFailsBuild() {
	module := NewModule("example.com/cycle",
		Provide(newCycleA),
		Provide(newCycleB),
	)

	_, err := New().
		WithoutBootstrap().
		WithModules(module).
		WithLogger(nopLogger{}).
		Build()
	s.Require().Error(err)

	var cycle *CycleError
	s.ErrorAs(err, &cycle)
}

func (s *ContainerSuite) TestContainerResolvesItself() {
	container := s.build(Provide(NewLogbook))

	self, err := container.Resolve((*Container)(nil))
	s.Require().NoError(err)
	s.Same(container, self)
}

func (s *ContainerSuite) TestEagerInitialization() {
	initCount = 0
	s.build(Provide(newEagerService))
	s.Equal(1, initCount, "singletons are built and initialized at build time")
}

func (s *ContainerSuite) TestCloseReverseOrder() {
	disposedOrder = nil

	container := s.build(
		Provide(newDisposableOne),
		Provide(newDisposableTwo),
	)

	s.Require().NoError(container.Close())
	s.Equal([]string{"two", "one"}, disposedOrder)

	// Idempotent.
	disposedOrder = nil
	s.Require().NoError(container.Close())
	s.Empty(disposedOrder)
}

func (s *ContainerSuite) TestServicesListing() {
	container := s.build(
		Provide(NewLogbook),
		Provide(NewGreetService),
		Export((*IService)(nil)),
	)

	services := container.Services()
	s.Contains(services, typeName(sampleType((*IService)(nil))))
	s.Contains(services, typeName(sampleType((*GreetService)(nil))))
}

func TestContainerSuite(t *testing.T) {
	suite.Run(t, new(ContainerSuite))
}

func TestConstructionErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	module := NewModule("example.com/failing",
		Provide(func() (*Logbook, error) { return nil, boom }),
	)

	_, err := New().
		WithoutBootstrap().
		WithModules(module).
		WithLogger(nopLogger{}).
		Build()
	if !errors.Is(err, boom) {
		t.Fatalf("expected construction failure to wrap the factory error, got %v", err)
	}
}
