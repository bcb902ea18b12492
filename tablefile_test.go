package autowire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureTableYAML = `modules:
  - name: example.com/fixture/service
    types:
      - name: example.com/svc.Logbook
      - name: example.com/svc.GreetService
        interfaces: [example.com/svc.IService]
        params: [example.com/svc.Logbook]
      - name: example.com/svc.CachingService
        lifetime: Singleton
        params: [example.com/svc.IService]
        decorator:
          target: example.com/svc.IService
          order: 1
    plugins:
      - name: example.com/svc.WarmupPlugin
        capabilities: [after-build]
  - name: example.com/fixture/captive
    types:
      - name: example.com/captive.Cache
        lifetime: scoped
      - name: example.com/captive.Consumer
        params: [example.com/captive.Cache]
        excludeInjection: true
`

func TestReadTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader(fixtureTableYAML))
	require.NoError(t, err)
	require.Len(t, table.Modules, 2)

	service := table.Modules[0]
	assert.Equal(t, "example.com/fixture/service", service.Name)
	require.Len(t, service.Types, 3)

	logbook := service.Types[0]
	assert.Equal(t, Unset, logbook.Lifetime, "omitted lifetime stays unset")
	assert.Empty(t, logbook.Params)

	greet := service.Types[1]
	assert.Equal(t, []ServiceRef{{Name: "example.com/svc.IService"}}, greet.Interfaces)
	assert.Equal(t, []ServiceRef{{Name: "example.com/svc.Logbook"}}, greet.Params)

	caching := service.Types[2]
	assert.Equal(t, Singleton, caching.Lifetime)
	require.NotNil(t, caching.Decorator)
	assert.Equal(t, "example.com/svc.IService", caching.Decorator.Target.Name)
	assert.Equal(t, 1, caching.Decorator.Order)

	require.Len(t, service.Plugins, 1)
	assert.Equal(t, []string{CapAfterBuild}, service.Plugins[0].Capabilities)

	captive := table.Modules[1]
	assert.Equal(t, Scoped, captive.Types[0].Lifetime, "lowercase lifetime tags parse")
	assert.True(t, captive.Types[1].ExcludeInjection)
}

func TestReadTableRejectsUnnamedModule(t *testing.T) {
	_, err := ReadTable(strings.NewReader("modules:\n  - types:\n      - name: x.T\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module without a name")
}

func TestReadTableRejectsUnnamedType(t *testing.T) {
	_, err := ReadTable(strings.NewReader("modules:\n  - name: m\n    types:\n      - lifetime: Scoped\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type without a name")
}

func TestReadTableRejectsUnknownLifetime(t *testing.T) {
	_, err := ReadTable(strings.NewReader("modules:\n  - name: m\n    types:\n      - name: x.T\n        lifetime: Forever\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown lifetime "Forever"`)
}

func TestReadTableRejectsMalformedYAML(t *testing.T) {
	_, err := ReadTable(strings.NewReader("modules: [unclosed"))
	require.Error(t, err)
}

func TestWriteTableRoundTrip(t *testing.T) {
	original, err := ReadTable(strings.NewReader(fixtureTableYAML))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteTable(&buf, original))

	reread, err := ReadTable(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, original, reread)
}

func TestWriteTableFromIntrospection(t *testing.T) {
	table := tableFromSource(t, []*Module{serviceModule()})

	var buf strings.Builder
	require.NoError(t, WriteTable(&buf, table))

	reread, err := ReadTable(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, reread.Modules, 1)

	// Factories only exist as code; the serialized form carries the
	// metadata needed for dry-run verification.
	for _, typ := range reread.Modules[0].Types {
		assert.Nil(t, typ.Factory)
		assert.Nil(t, typ.Wrap)
	}
	assert.Len(t, reread.Modules[0].Types, len(table.Modules[0].Types))
}
