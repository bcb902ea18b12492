// Package autowire is a dependency-injection registration engine. It
// discovers the modules participating in a program, classifies their
// candidate types into lifetimes, builds a service registry with
// deterministic decorator chains and plugin lifecycle phases, and
// verifies the resulting graph for captive dependencies.
//
// Modules announce themselves from their package init:
//
//	var module = autowire.NewModule("example.com/app/cache",
//		autowire.Provide(NewCache, autowire.WithLifetime(autowire.Scoped)),
//		autowire.Export((*Cache)(nil)),
//	)
//
//	func init() { autowire.Register(module) }
//
// A program builds its container with the pipeline builder:
//
//	container, err := autowire.New().
//		WithVerification(nil).
//		Build()
//
// Candidates can come from two interchangeable backends: the
// introspective source, which reflects over the declarations of every
// discovered module, and the precomputed source, which serves a static
// table produced ahead of time. Both yield the same registrations for
// the same program.
//
// # Anchor references
//
// A module participates only if something causes its package to be
// initialized. A package that is referenced transitively but never
// imported by program code stays invisible; force its inclusion with a
// blank import from any discovered package:
//
//	import _ "example.com/app/metrics" // anchor
//
// This is a deliberate requirement, not automatic transitive closure.
package autowire
