package autowire

import (
	"os"
	"strconv"

	"github.com/goccy/go-reflect"
)

// Builder assembles and runs the registration pipeline: module
// discovery, candidate enumeration, classification, registration,
// decoration, plugin phases and verification, in that order, producing
// the finished container. All configuration is chainable and must
// happen before Build or Verify.
type Builder struct {
	sourceFactory   SourceFactory
	extras          []*Module
	reorder         ModuleOrder
	continueOnError bool
	skipBootstrap   bool

	manualDecorators []TypeDecl
	manualPlugins    []PluginDecl

	strictDecoration bool
	verifyOnBuild    bool
	policies         map[IssueKind]Policy
	reporter         Reporter

	logger Logger
}

// New returns a builder with the introspective source and the default
// logger.
func New() *Builder {
	return &Builder{
		policies: make(map[IssueKind]Policy),
		logger:   NewLogger(),
	}
}

// WithSource selects a custom discovery backend.
func (b *Builder) WithSource(f SourceFactory) *Builder {
	b.sourceFactory = f
	return b
}

// UseIntrospection selects the reflective backend. This is the
// default.
func (b *Builder) UseIntrospection() *Builder {
	b.sourceFactory = NewIntrospectiveSource
	return b
}

// UsePrecomputed selects the static-table backend, filtered to the
// discovered modules.
func (b *Builder) UsePrecomputed(table *Table) *Builder {
	b.sourceFactory = func(modules []*Module) CandidateSource {
		return NewPrecomputedSource(table, modules)
	}
	return b
}

// UseUnfiltered selects the static-table backend in do-not-filter
// mode and skips the bootstrap registry entirely.
func (b *Builder) UseUnfiltered(table *Table) *Builder {
	b.skipBootstrap = true
	b.sourceFactory = func([]*Module) CandidateSource {
		return NewUnfilteredSource(table)
	}
	return b
}

// WithModules supplies extra modules beyond the bootstrap registry.
func (b *Builder) WithModules(modules ...*Module) *Builder {
	b.extras = append(b.extras, modules...)
	return b
}

// WithModuleOrder installs a reordering function applied after the
// default alphabetical sort.
func (b *Builder) WithModuleOrder(order ModuleOrder) *Builder {
	b.reorder = order
	return b
}

// ContinueOnError makes discovery skip modules that fail to load
// instead of aborting the build.
func (b *Builder) ContinueOnError() *Builder {
	b.continueOnError = true
	return b
}

// WithoutBootstrap ignores the process-wide registry, discovering only
// explicitly supplied modules. Mostly useful in tests.
func (b *Builder) WithoutBootstrap() *Builder {
	b.skipBootstrap = true
	return b
}

// WithDecorator registers a decorator declaration manually, in
// addition to those found by the candidate source.
func (b *Builder) WithDecorator(value any, target any, order int) *Builder {
	b.manualDecorators = append(b.manualDecorators, TypeDecl{
		Value:     value,
		Decorator: &DecoratorSpec{Target: RefOf(target), Order: order},
	})
	return b
}

// WithPlugin registers a plugin instance or factory manually.
func (b *Builder) WithPlugin(value any) *Builder {
	b.manualPlugins = append(b.manualPlugins, PluginDecl{Value: value})
	return b
}

// StrictDecoration turns a decorator with an unregistered target into
// a build error instead of the default silent skip.
func (b *Builder) StrictDecoration() *Builder {
	b.strictDecoration = true
	return b
}

// WithVerification requests verification during Build with the given
// policy map. Nil keeps the default policy (Warn) for every kind.
func (b *Builder) WithVerification(policies map[IssueKind]Policy) *Builder {
	b.verifyOnBuild = true
	for kind, policy := range policies {
		b.policies[kind] = policy
	}
	return b
}

// WithReporter installs the callback receiving Warn-policy issues.
func (b *Builder) WithReporter(r Reporter) *Builder {
	b.reporter = r
	return b
}

// WithLogger replaces the default logger.
func (b *Builder) WithLogger(l Logger) *Builder {
	b.logger = l
	return b
}

// FromEnv applies configuration from the environment:
// AUTOWIRE_VERIFY_POLICY (silent|warn|throw, also requests
// verification), AUTOWIRE_STRICT_DECORATION and
// AUTOWIRE_CONTINUE_ON_ERROR (booleans).
func (b *Builder) FromEnv() *Builder {
	if v := os.Getenv("AUTOWIRE_VERIFY_POLICY"); v != "" {
		if policy, err := ParsePolicy(v); err == nil {
			b.WithVerification(map[IssueKind]Policy{KindLifetimeMismatch: policy})
		} else {
			b.logger.Warnf("ignoring AUTOWIRE_VERIFY_POLICY: %v", err)
		}
	}

	if v, err := strconv.ParseBool(os.Getenv("AUTOWIRE_STRICT_DECORATION")); err == nil && v {
		b.StrictDecoration()
	}

	if v, err := strconv.ParseBool(os.Getenv("AUTOWIRE_CONTINUE_ON_ERROR")); err == nil && v {
		b.ContinueOnError()
	}

	return b
}

// Build runs the full pipeline and returns the finished container.
func (b *Builder) Build() (Container, error) {
	state, err := b.assemble()
	if err != nil {
		return nil, err
	}

	if b.verifyOnBuild {
		v := b.verifier()
		if _, err := v.verify(state.col); err != nil {
			return nil, err
		}
	}

	container := newServiceContainer(state.col.entries())
	if err := container.initialize(); err != nil {
		return nil, err
	}

	buildCtx := &BuildContext{
		Container: container,
		Modules:   state.modules,
		Source:    state.source,
		Logger:    b.logger,
	}
	if err := state.plugins.afterBuild(buildCtx); err != nil {
		return nil, err
	}

	return container, nil
}

// Verify runs the pipeline up to the finalize boundary and verifies
// the registration set without building a container. The report is
// returned even when Throw-policy issues make the error non-nil.
func (b *Builder) Verify() (*Report, error) {
	state, err := b.assemble()
	if err != nil {
		return nil, err
	}

	return b.verifier().verify(state.col)
}

type pipelineState struct {
	modules []*Module
	source  CandidateSource
	col     *Collection
	plugins *orchestrator
}

// assemble runs discovery through decoration and the two pre-build
// plugin phases, shared by Build and Verify.
func (b *Builder) assemble() (*pipelineState, error) {
	d := &discovery{
		extras:          b.extras,
		reorder:         b.reorder,
		continueOnError: b.continueOnError,
		skipBootstrap:   b.skipBootstrap,
		logger:          b.logger,
	}

	modules, err := d.discover()
	if err != nil {
		return nil, err
	}

	factory := b.sourceFactory
	if factory == nil {
		factory = NewIntrospectiveSource
	}

	source := factory(modules)

	candidates, err := source.Candidates()
	if err != nil {
		return nil, err
	}

	specs, err := source.Plugins()
	if err != nil {
		return nil, err
	}

	for _, decl := range b.manualPlugins {
		if spec, ok := describePlugin("", decl); ok {
			specs = append(specs, spec)
		}
	}

	plugins := newOrchestrator(specs)
	col := newCollection()

	collectionCtx := &CollectionContext{
		Collection: col,
		Modules:    modules,
		Source:     source,
		Logger:     b.logger,
	}
	if err := plugins.beforeRegistration(collectionCtx); err != nil {
		return nil, err
	}

	reg := &registrar{col: col}
	decorators := reg.register(candidates)

	cl := &classifier{universe: exportedInterfaces(modules)}
	for _, decl := range b.manualDecorators {
		c, ok := cl.classify("", decl)
		if !ok {
			b.logger.Warnf("manual decorator %T is not injectable, skipping", decl.Value)
			continue
		}

		decorators = append(decorators, c)
	}

	if err := applyDecorations(col, decorators, b.strictDecoration); err != nil {
		return nil, err
	}

	if err := plugins.beforeFinalize(collectionCtx); err != nil {
		return nil, err
	}

	return &pipelineState{modules: modules, source: source, col: col, plugins: plugins}, nil
}

func (b *Builder) verifier() *verifier {
	return &verifier{policies: b.policies, reporter: b.reporter, logger: b.logger}
}

var containerServiceName = typeName(reflect.TypeOf((*Container)(nil)).Elem())
