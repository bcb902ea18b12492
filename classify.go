package autowire

import (
	"fmt"

	"github.com/goccy/go-reflect"
)

// Exclusion markers. A type carrying one of these methods, directly or
// through an embedded interface, is excluded without being an error.
type (
	// RegistrationExcluded keeps a type out of the registry entirely.
	RegistrationExcluded interface{ ExcludedFromRegistration() }

	// InjectionExcluded keeps a registered type out of the injection
	// graph.
	InjectionExcluded interface{ ExcludedFromInjection() }
)

var (
	registrationExcludedType = reflect.TypeOf((*RegistrationExcluded)(nil)).Elem()
	injectionExcludedType    = reflect.TypeOf((*InjectionExcluded)(nil)).Elem()
	errorType                = reflect.TypeOf((*error)(nil)).Elem()
)

const injectTag = "inject"

// classifier decides injectability and lifetime from static shape
// alone. It consumes plain declarations, never runtime state.
type classifier struct {
	// universe is the set of exported interfaces across every
	// discovered module; candidate exposure is computed against it.
	universe []reflect.Type
}

// classify turns a raw declaration into a candidate, or reports that
// the declaration is not injectable. Exclusion is silent: a false
// result is not an error.
func (cl *classifier) classify(module string, decl TypeDecl) (Candidate, bool) {
	if decl.Value == nil {
		return Candidate{}, false
	}

	v := reflect.ValueOf(decl.Value)

	var (
		impl    reflect.Type
		params  []ServiceRef
		factory Factory
		wrap    wrapFunc
	)

	switch v.Kind() {
	case reflect.Func:
		ctor := v.Type()
		if !injectableConstructor(ctor) {
			return Candidate{}, false
		}

		impl = typeIndirect(ctor.Out(0))
		for i := 0; i < ctor.NumIn(); i++ {
			t := ctor.In(i)
			params = append(params, ServiceRef{Name: typeName(t), Type: t})
		}
	case reflect.Ptr:
		impl = typeIndirect(v.Type())
		if impl.Kind() != reflect.Struct {
			return Candidate{}, false
		}

		params = injectedFields(impl)
	default:
		return Candidate{}, false
	}

	if impl.Kind() != reflect.Struct || impl.Name() == "" {
		return Candidate{}, false
	}

	ptr := reflect.PtrTo(impl)
	if decl.ExcludeRegistration || ptr.Implements(registrationExcludedType) {
		return Candidate{}, false
	}

	excludeInjection := decl.ExcludeInjection || ptr.Implements(injectionExcludedType)

	for _, p := range params {
		if !injectableParam(p.Type, impl) {
			return Candidate{}, false
		}
	}

	lifetime := decl.Lifetime
	if lifetime == Unset {
		lifetime = Singleton
	}

	decorator := decl.Decorator
	var interfaces []ServiceRef
	for _, iface := range cl.universe {
		if stdlibInterface(iface) || !ptr.Implements(iface) {
			continue
		}

		// A type implementing an interface it also consumes is a
		// decorator for it: never auto-expose that interface, or
		// resolution would immediately chase its own tail. Wrapping
		// still requires an explicit declaration.
		if consumed(params, iface) {
			continue
		}

		if decorator != nil && decorator.Target.Name == typeName(iface) {
			continue
		}

		interfaces = append(interfaces, ServiceRef{Name: typeName(iface), Type: iface})
	}

	if excludeInjection {
		interfaces = nil
	}

	switch v.Kind() {
	case reflect.Func:
		factory = constructorFactory(v, params)
		if decorator != nil {
			wrap = constructorWrap(v, params, decorator.Target)
		}
	case reflect.Ptr:
		factory = prototypeFactory(impl, params)
		if decorator != nil {
			wrap = prototypeWrap(impl, params, decorator.Target)
		}
	}

	return Candidate{
		Name:             typeName(impl),
		Module:           module,
		Type:             impl,
		Interfaces:       interfaces,
		Params:           params,
		Lifetime:         lifetime,
		Factory:          factory,
		Decorator:        decorator,
		ExcludeInjection: excludeInjection,
		wrap:             wrap,
	}, true
}

// injectableConstructor accepts func(...) T, func(...) *T and the same
// shapes with a trailing error.
func injectableConstructor(ctor reflect.Type) bool {
	switch ctor.NumOut() {
	case 1:
	case 2:
		if ctor.Out(1) != errorType {
			return false
		}
	default:
		return false
	}

	out := typeIndirect(ctor.Out(0))
	return out.Kind() == reflect.Struct
}

// injectableParam rejects primitives, strings, funcs and the declaring
// type itself. Directly self-referential constructors cannot terminate.
func injectableParam(t reflect.Type, impl reflect.Type) bool {
	if typeIndirect(t) == impl {
		return false
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Struct:
		return true
	case reflect.Ptr:
		return t.Elem().Kind() == reflect.Struct
	default:
		return false
	}
}

func injectedFields(impl reflect.Type) []ServiceRef {
	var params []ServiceRef
	for i := 0; i < impl.NumField(); i++ {
		field := impl.Field(i)
		if _, ok := field.Tag.Lookup(injectTag); !ok {
			continue
		}

		params = append(params, ServiceRef{Name: typeName(field.Type), Type: field.Type})
	}

	return params
}

func consumed(params []ServiceRef, iface reflect.Type) bool {
	for _, p := range params {
		if p.Type == iface {
			return true
		}
	}

	return false
}

// constructorFactory resolves every parameter and invokes the
// constructor.
func constructorFactory(fn reflect.Value, params []ServiceRef) Factory {
	return func(r Resolver) (any, error) {
		args := make([]reflect.Value, len(params))
		for i, p := range params {
			arg, err := resolveArg(r, p)
			if err != nil {
				return nil, err
			}

			args[i] = arg
		}

		return callConstructor(fn, args)
	}
}

// constructorWrap is the decorator form: the target parameter is
// supplied with the inner layer instead of being resolved.
func constructorWrap(fn reflect.Value, params []ServiceRef, target ServiceRef) wrapFunc {
	return func(inner any, r Resolver) (any, error) {
		args := make([]reflect.Value, len(params))
		for i, p := range params {
			if p.Name == target.Name {
				args[i] = reflect.ValueOf(inner)
				continue
			}

			arg, err := resolveArg(r, p)
			if err != nil {
				return nil, err
			}

			args[i] = arg
		}

		return callConstructor(fn, args)
	}
}

func callConstructor(fn reflect.Value, args []reflect.Value) (any, error) {
	out := fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return out[0].Interface(), nil
}

// prototypeFactory allocates the struct and fills its `inject` tagged
// fields from the resolver.
func prototypeFactory(impl reflect.Type, params []ServiceRef) Factory {
	return func(r Resolver) (any, error) {
		return fillPrototype(impl, params, r, nil, ServiceRef{})
	}
}

func prototypeWrap(impl reflect.Type, params []ServiceRef, target ServiceRef) wrapFunc {
	return func(inner any, r Resolver) (any, error) {
		return fillPrototype(impl, params, r, inner, target)
	}
}

func fillPrototype(impl reflect.Type, params []ServiceRef, r Resolver, inner any, target ServiceRef) (any, error) {
	instance := reflect.New(impl)
	s := instance.Elem()

	next := 0
	for i := 0; i < impl.NumField(); i++ {
		field := impl.Field(i)
		if _, ok := field.Tag.Lookup(injectTag); !ok {
			continue
		}

		p := params[next]
		next++

		if inner != nil && p.Name == target.Name {
			s.Field(i).Set(reflect.ValueOf(inner))
			continue
		}

		arg, err := resolveArg(r, p)
		if err != nil {
			return nil, err
		}

		s.Field(i).Set(arg)
	}

	return instance.Interface(), nil
}

func resolveArg(r Resolver, p ServiceRef) (reflect.Value, error) {
	resolved, err := r.Resolve(p.Type)
	if err != nil {
		return reflect.Value{}, err
	}

	arg := reflect.ValueOf(resolved)
	if p.Type.Kind() == reflect.Struct && arg.Kind() == reflect.Ptr {
		arg = arg.Elem()
	}

	if !arg.Type().AssignableTo(p.Type) {
		return reflect.Value{}, fmt.Errorf("resolved %s is not assignable to %s", arg.Type(), p.Name)
	}

	return arg, nil
}
