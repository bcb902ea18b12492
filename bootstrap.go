package autowire

import (
	"sort"

	"github.com/puzpuzpuz/xsync"
)

// bootstrap is the process-wide registry modules append themselves to
// as a side effect of being imported. It is append-only, safe under
// concurrent package initialization and never cleared during the
// process lifetime. A pipeline snapshots it at most once per build and
// never waits for late registrations.
var bootstrap = xsync.NewMapOf[*Module]()

// Register announces a module to the bootstrap registry. Registration
// is idempotent per module name: importing the same module twice
// contributes a single entry, and the first registration wins.
//
// Call it from the providing package's init:
//
//	func init() { autowire.Register(cacheModule) }
func Register(m *Module) {
	if m == nil || m.Name == "" {
		panic("Register requires a named module")
	}

	bootstrap.LoadOrStore(m.Name, m)
}

// Registered reports whether a module name is present in the bootstrap
// registry.
func Registered(name string) bool {
	_, ok := bootstrap.Load(name)
	return ok
}

// snapshotBootstrap returns the registry contents sorted by module
// name. The slice is owned by the caller.
func snapshotBootstrap() []*Module {
	modules := make([]*Module, 0, bootstrap.Size())
	bootstrap.Range(func(_ string, m *Module) bool {
		modules = append(modules, m)
		return true
	})

	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	return modules
}
