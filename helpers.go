package autowire

import (
	"github.com/goccy/go-reflect"
)

func typeIndirect(p reflect.Type) reflect.Type {
	if p.Kind() == reflect.Ptr {
		return p.Elem()
	}

	return p
}

// typeName returns the canonical identity of a type: the import path
// joined with the type name for named types, the reflect string
// otherwise. Pointers are collapsed to their element type, so *Foo and
// Foo share one identity.
func typeName(p reflect.Type) string {
	p = typeIndirect(p)

	if p.PkgPath() != "" {
		return p.PkgPath() + "." + p.Name()
	}

	return p.String()
}

// valueTypeName resolves the service identity of an arbitrary sample
// value. Interface identities are requested with a nil pointer to the
// interface, e.g. (*IService)(nil); passing a reflect.Type uses it
// directly.
func valueTypeName(v any) string {
	switch s := v.(type) {
	case reflect.Type:
		return typeName(typeIndirect(s))
	case ServiceRef:
		return s.Name
	case string:
		return s
	}

	return typeName(sampleType(v))
}

// sampleType maps a sample value to the type it stands for. A pointer
// to an interface stands for the interface itself.
func sampleType(v any) reflect.Type {
	t := reflect.TypeOf(v)

	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return t.Elem()
	}

	return typeIndirect(t)
}

// stdlibInterface reports whether an interface type is provided by the
// standard library (or is unnamed). Such interfaces are never exposed
// as service registrations.
func stdlibInterface(t reflect.Type) bool {
	if t.Name() == "" {
		return true
	}

	pkg := t.PkgPath()
	if pkg == "" {
		return true
	}

	for i := 0; i < len(pkg); i++ {
		switch pkg[i] {
		case '/':
			return true
		case '.':
			return false
		}
	}

	return true
}
