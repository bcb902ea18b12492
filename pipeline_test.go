package autowire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEndDecoratedResolution(t *testing.T) {
	var reported []Issue

	container, err := New().
		WithoutBootstrap().
		WithModules(serviceModule()).
		WithVerification(nil).
		WithReporter(func(issue Issue) { reported = append(reported, issue) }).
		WithLogger(nopLogger{}).
		Build()
	require.NoError(t, err)
	assert.Empty(t, reported, "fixture graph has no lifetime issues")

	svc, err := container.Resolve((*IService)(nil))
	require.NoError(t, err)

	caching, ok := svc.(*CachingService)
	require.True(t, ok, "interface resolves to the decorated chain")
	assert.Equal(t, "cached:greet", caching.Do())

	greet, ok := caching.Inner.(*GreetService)
	require.True(t, ok)

	direct, err := container.Resolve((*GreetService)(nil))
	require.NoError(t, err)
	assert.Same(t, direct, greet, "the decorator wraps the shared singleton")

	log, err := container.Resolve((*Logbook)(nil))
	require.NoError(t, err)
	assert.Same(t, log, greet.Log, "the logbook singleton is shared through the chain")

	again, err := container.Resolve((*IService)(nil))
	require.NoError(t, err)
	assert.Same(t, svc, again)
}

type countingWidget struct{ n int }

func TestVerifyIsDryRun(t *testing.T) {
	built := 0
	module := NewModule("example.com/counting",
		Provide(func() *countingWidget {
			built++
			return &countingWidget{n: built}
		}))

	report, err := New().
		WithoutBootstrap().
		WithModules(module).
		WithLogger(nopLogger{}).
		Verify()
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.Zero(t, built, "verification never constructs services")

	container, err := New().
		WithoutBootstrap().
		WithModules(module).
		WithLogger(nopLogger{}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 1, built, "singletons are built eagerly exactly once")

	_, err = container.Resolve((*countingWidget)(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, built)
}

func TestEndToEndCaptiveDependency(t *testing.T) {
	// Default policy warns: the build still succeeds.
	logger := &captureLogger{}
	container, err := New().
		WithoutBootstrap().
		WithModules(captiveModule()).
		WithVerification(nil).
		WithLogger(logger).
		Build()
	require.NoError(t, err)
	require.NotNil(t, container)
	assert.NotEmpty(t, logger.warnings)

	// Throw turns the same graph into a build failure.
	_, err = New().
		WithoutBootstrap().
		WithModules(captiveModule()).
		WithVerification(map[IssueKind]Policy{KindLifetimeMismatch: Throw}).
		WithLogger(nopLogger{}).
		Build()
	require.Error(t, err)

	var agg *AggregateVerificationError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Issues, 1)
	assert.Equal(t, Singleton, agg.Issues[0].ConsumerLifetime)
	assert.Equal(t, Scoped, agg.Issues[0].DependencyLifetime)
}

func TestVerifyReportReturnedWithThrowError(t *testing.T) {
	report, err := New().
		WithoutBootstrap().
		WithModules(captiveModule()).
		WithVerification(map[IssueKind]Policy{KindLifetimeMismatch: Throw}).
		WithLogger(nopLogger{}).
		Verify()
	require.Error(t, err)
	require.NotNil(t, report, "the report accompanies the error")
	assert.Len(t, report.Issues, 1)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AUTOWIRE_VERIFY_POLICY", "throw")
	t.Setenv("AUTOWIRE_STRICT_DECORATION", "true")

	_, err := New().
		WithoutBootstrap().
		WithModules(captiveModule()).
		WithLogger(nopLogger{}).
		FromEnv().
		Build()
	require.Error(t, err)

	var agg *AggregateVerificationError
	assert.ErrorAs(t, err, &agg)
}

func TestFromEnvBadPolicyIgnored(t *testing.T) {
	t.Setenv("AUTOWIRE_VERIFY_POLICY", "shout")

	logger := &captureLogger{}
	_, err := New().
		WithoutBootstrap().
		WithModules(NewModule("example.com/plain2", Provide(NewLogbook))).
		WithLogger(logger).
		FromEnv().
		Build()
	require.NoError(t, err)
	assert.NotEmpty(t, logger.warnings)
}

func TestBuilderIsChainable(t *testing.T) {
	b := New()
	assert.Same(t, b, b.UseIntrospection())
	assert.Same(t, b, b.WithoutBootstrap())
	assert.Same(t, b, b.ContinueOnError())
	assert.Same(t, b, b.StrictDecoration())
	assert.Same(t, b, b.WithLogger(nopLogger{}))
	assert.Same(t, b, b.WithReporter(nil))
	assert.Same(t, b, b.WithVerification(nil))
}

func TestContainerClosesCleanly(t *testing.T) {
	container, err := New().
		WithoutBootstrap().
		WithModules(serviceModule()).
		WithLogger(nopLogger{}).
		Build()
	require.NoError(t, err)
	require.NoError(t, container.Close())
}
