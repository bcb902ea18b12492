package autowire

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a service identity has no registration.
var ErrNotFound = errors.New("service not registered")

// ModuleLoadError reports a module whose loader failed during
// discovery.
type ModuleLoadError struct {
	Module string
	Err    error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("module %s failed to load: %v", e.Module, e.Err)
}

func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

// NotRegisteredError reports a resolution request for an unknown
// service.
type NotRegisteredError struct {
	Service string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no registration for service %s", e.Service)
}

func (e *NotRegisteredError) Unwrap() error {
	return ErrNotFound
}

// CycleError reports a constructor cycle hit while building a service.
type CycleError struct {
	Service string
	Chain   []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle on %s: %s", e.Service, strings.Join(e.Chain, " -> "))
}

// ConstructionError wraps a failure raised by a service factory.
type ConstructionError struct {
	Service string
	Err     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing %s: %v", e.Service, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// MissingDecorationTargetError reports a decorator whose target service
// has no base registration. It is raised only in strict decoration
// mode; the default behavior skips the declaration.
type MissingDecorationTargetError struct {
	Target    string
	Decorator string
}

func (e *MissingDecorationTargetError) Error() string {
	return fmt.Sprintf("decorator %s targets unregistered service %s", e.Decorator, e.Target)
}

// PluginError reports a failure raised inside a plugin phase callback.
// The engine never swallows these; the wrapped error is the plugin's
// own.
type PluginError struct {
	Plugin string
	Phase  string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed in phase %s: %v", e.Plugin, e.Phase, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// AggregateVerificationError carries every Throw-policy issue found in
// a single verification pass. It is raised once, after the whole
// registration set has been walked.
type AggregateVerificationError struct {
	Issues []Issue
}

func (e *AggregateVerificationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "verification failed with %d issue(s)", len(e.Issues))

	for i := range e.Issues {
		b.WriteString("\n\t")
		b.WriteString(e.Issues[i].String())
	}

	return b.String()
}
