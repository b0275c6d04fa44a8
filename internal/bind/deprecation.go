package bind

import "fmt"

// Policy controls how deprecated schema fields are treated during binding.
type Policy string

const (
	PolicyAllow Policy = "allow" // keep, no marker
	PolicyWarn  Policy = "warn"  // keep, flagged for the emitter
	PolicyDeny  Policy = "deny"  // selecting a deprecated field fails
)

// ParsePolicy parses a configured policy value. The empty string maps to
// the default, warn.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyAllow, PolicyWarn, PolicyDeny:
		return Policy(s), nil
	case "":
		return PolicyWarn, nil
	}
	return "", fmt.Errorf("unknown deprecation policy %q (want allow, warn or deny)", s)
}

// Decision is the outcome of applying a policy to one field.
type Decision int

const (
	Keep       Decision = iota // field retained as-is
	KeepMarked                 // field retained, annotated deprecated-on-use
	Exclude                    // field must not appear in the output
)

// Apply is a pure function from (policy, field-is-deprecated) to a
// decision. Exclusion only ever affects binder bookkeeping: a field the
// document explicitly selects fails binding instead (see bindGroups).
func Apply(p Policy, deprecated bool) Decision {
	if !deprecated {
		return Keep
	}
	switch p {
	case PolicyAllow:
		return Keep
	case PolicyDeny:
		return Exclude
	default:
		return KeepMarked
	}
}
