package autowire

import (
	"fmt"
)

// Plugin phase hooks. A plugin implements any subset; each hook runs
// once per build, in module discovery order, and a hook error aborts
// the build immediately. The engine never swallows plugin failures.
type (
	// BeforeRegistrationHook runs before candidates are registered.
	// The collection is empty and mutable; manual registrations added
	// here are visible to decoration and verification.
	BeforeRegistrationHook interface {
		BeforeRegistration(ctx *CollectionContext) error
	}

	// BeforeFinalizeHook runs after registration and decoration, just
	// before the collection is frozen into a container.
	BeforeFinalizeHook interface {
		BeforeFinalize(ctx *CollectionContext) error
	}

	// AfterBuildHook runs against the finished container, typically
	// for post-build validation or eager warm-up.
	AfterBuildHook interface {
		AfterBuild(ctx *BuildContext) error
	}
)

// CollectionContext is the state handed to the pre-build phases.
type CollectionContext struct {
	Collection *Collection
	Modules    []*Module
	Source     CandidateSource
	Logger     Logger
}

// BuildContext is the state handed to the after-build phase.
type BuildContext struct {
	Container Container
	Modules   []*Module
	Source    CandidateSource
	Logger    Logger
}

// orchestrator holds the discovered plugins, instantiated at most once
// per build, and dispatches them phase by phase.
type orchestrator struct {
	specs     []PluginSpec
	instances []any
}

func newOrchestrator(specs []PluginSpec) *orchestrator {
	return &orchestrator{specs: specs, instances: make([]any, len(specs))}
}

func (o *orchestrator) instance(i int) any {
	if o.instances[i] == nil {
		o.instances[i] = o.specs[i].Factory()
	}

	return o.instances[i]
}

func (o *orchestrator) beforeRegistration(ctx *CollectionContext) error {
	for i, spec := range o.specs {
		if !spec.HasCapability(CapBeforeRegistration) {
			continue
		}

		hook, ok := o.instance(i).(BeforeRegistrationHook)
		if !ok {
			return &PluginError{Plugin: spec.Name, Phase: CapBeforeRegistration, Err: errCapabilityMismatch(spec, CapBeforeRegistration)}
		}

		if err := hook.BeforeRegistration(ctx); err != nil {
			return &PluginError{Plugin: spec.Name, Phase: CapBeforeRegistration, Err: err}
		}
	}

	return nil
}

func (o *orchestrator) beforeFinalize(ctx *CollectionContext) error {
	for i, spec := range o.specs {
		if !spec.HasCapability(CapBeforeFinalize) {
			continue
		}

		hook, ok := o.instance(i).(BeforeFinalizeHook)
		if !ok {
			return &PluginError{Plugin: spec.Name, Phase: CapBeforeFinalize, Err: errCapabilityMismatch(spec, CapBeforeFinalize)}
		}

		if err := hook.BeforeFinalize(ctx); err != nil {
			return &PluginError{Plugin: spec.Name, Phase: CapBeforeFinalize, Err: err}
		}
	}

	return nil
}

func (o *orchestrator) afterBuild(ctx *BuildContext) error {
	for i, spec := range o.specs {
		if !spec.HasCapability(CapAfterBuild) {
			continue
		}

		hook, ok := o.instance(i).(AfterBuildHook)
		if !ok {
			return &PluginError{Plugin: spec.Name, Phase: CapAfterBuild, Err: errCapabilityMismatch(spec, CapAfterBuild)}
		}

		if err := hook.AfterBuild(ctx); err != nil {
			return &PluginError{Plugin: spec.Name, Phase: CapAfterBuild, Err: err}
		}
	}

	return nil
}

func errCapabilityMismatch(spec PluginSpec, capability string) error {
	return fmt.Errorf("plugin declares capability %s but its instance does not implement the hook", capability)
}
