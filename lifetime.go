package autowire

import "fmt"

// Lifetime describes how long a resolved instance is kept by the
// container. The zero value is Unset, which classification resolves to
// Singleton.
type Lifetime uint8

const (
	Unset Lifetime = iota
	Transient
	Scoped
	Singleton
)

// Outlives reports whether a consumer with lifetime l lives strictly
// longer than a dependency with lifetime d. A true result for a
// (consumer, dependency) pair is a captive dependency.
func (l Lifetime) Outlives(d Lifetime) bool {
	return l.rank() > d.rank()
}

func (l Lifetime) rank() int {
	switch l {
	case Transient:
		return 0
	case Scoped:
		return 1
	default:
		return 2
	}
}

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Scoped:
		return "Scoped"
	case Singleton, Unset:
		return "Singleton"
	}

	return fmt.Sprintf("Lifetime(%d)", uint8(l))
}

// ParseLifetime maps the textual lifetime tags used in precomputed
// tables back to their Lifetime value. An empty string is Unset.
func ParseLifetime(s string) (Lifetime, error) {
	switch s {
	case "":
		return Unset, nil
	case "Transient", "transient":
		return Transient, nil
	case "Scoped", "scoped":
		return Scoped, nil
	case "Singleton", "singleton":
		return Singleton, nil
	}

	return Unset, fmt.Errorf("unknown lifetime %q", s)
}
