package autowire

import (
	"fmt"
	"strings"
)

// IssueKind names a class of verification issue.
type IssueKind string

// KindLifetimeMismatch flags a captive dependency: a consumer that
// lives strictly longer than something it depends on.
const KindLifetimeMismatch IssueKind = "LifetimeMismatch"

// Policy decides what happens to issues of a kind.
type Policy uint8

const (
	// Silent drops the issue entirely.
	Silent Policy = iota
	// Warn reports the issue through the configured reporter.
	Warn
	// Throw collects the issue into one aggregate error raised after
	// the whole set has been gathered.
	Throw
)

func (p Policy) String() string {
	switch p {
	case Silent:
		return "Silent"
	case Warn:
		return "Warn"
	case Throw:
		return "Throw"
	}

	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// ParsePolicy maps the textual policy names used in configuration.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "silent":
		return Silent, nil
	case "warn":
		return Warn, nil
	case "throw":
		return Throw, nil
	}

	return Silent, fmt.Errorf("unknown policy %q", s)
}

// Issue is one verification finding with its resolved policy.
type Issue struct {
	Kind               IssueKind
	Consumer           string
	ConsumerLifetime   Lifetime
	Dependency         string
	DependencyLifetime Lifetime
	Policy             Policy
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s (%s) depends on %s (%s)",
		i.Kind, i.Consumer, i.ConsumerLifetime, i.Dependency, i.DependencyLifetime)
}

// elaborate is the human-readable second line of a report block.
func (i Issue) elaborate() string {
	return fmt.Sprintf("a %s consumer holds its %s dependency captive: the dependency outlives the scope that was meant to bound it",
		strings.ToLower(i.ConsumerLifetime.String()), strings.ToLower(i.DependencyLifetime.String()))
}

// Reporter receives Warn-policy issues as they are found.
type Reporter func(Issue)

// Report is the outcome of one verification pass. Reports are
// immutable; re-running verification produces a fresh one.
type Report struct {
	Issues []Issue
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "verification report: %d issue(s)\n", len(r.Issues))

	for _, issue := range r.Issues {
		b.WriteString(issue.String())
		b.WriteString("\n\t")
		b.WriteString(issue.elaborate())
		b.WriteString("\n")
	}

	return b.String()
}

// verifier walks the final registration set and flags captive
// dependencies. Every verify call produces a fresh report; prior
// reports are never touched.
type verifier struct {
	policies map[IssueKind]Policy
	reporter Reporter
	logger   Logger
}

func (v *verifier) policyFor(kind IssueKind) Policy {
	if p, ok := v.policies[kind]; ok {
		return p
	}

	return Warn
}

// verify inspects every active registration. Untagged lifetimes count
// as Singleton, matching classification. The returned error is the
// aggregate of Throw-policy issues, or nil.
func (v *verifier) verify(col *Collection) (*Report, error) {
	report := &Report{}

	var throwing []Issue
	for _, reg := range col.Registrations() {
		if reg.AliasFor != "" || reg.ExcludeInjection {
			continue
		}

		consumer := normalizeLifetime(reg.Lifetime)
		for _, p := range reg.Params {
			dep, ok := col.Lookup(p.Name)
			if !ok {
				continue
			}

			dependency := normalizeLifetime(dep.Lifetime)
			if !consumer.Outlives(dependency) {
				continue
			}

			issue := Issue{
				Kind:               KindLifetimeMismatch,
				Consumer:           reg.Service,
				ConsumerLifetime:   consumer,
				Dependency:         p.Name,
				DependencyLifetime: dependency,
				Policy:             v.policyFor(KindLifetimeMismatch),
			}

			switch issue.Policy {
			case Silent:
			case Warn:
				report.Issues = append(report.Issues, issue)
				v.report(issue)
			case Throw:
				report.Issues = append(report.Issues, issue)
				throwing = append(throwing, issue)
			}
		}
	}

	if len(throwing) > 0 {
		return report, &AggregateVerificationError{Issues: throwing}
	}

	return report, nil
}

func (v *verifier) report(issue Issue) {
	if v.reporter != nil {
		v.reporter(issue)
		return
	}

	v.logger.Warnf("%s\n\t%s", issue.String(), issue.elaborate())
}

func normalizeLifetime(l Lifetime) Lifetime {
	if l == Unset {
		return Singleton
	}

	return l
}
