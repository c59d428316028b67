package match

import (
	"math"
	"strings"
)

// Verdict classifies one (allowed values, observed value) pair.
type Verdict int

const (
	Missing Verdict = iota
	Match
	Partial
	Mismatch
)

// Entry is one parsed catalog leaf: the allowed values in declaration order
// and the matching rules that apply to them.
type Entry struct {
	Allowed  []any
	Wildcard bool

	// Tolerance widens numeric comparison to a band: an actual within
	// Tolerance of an allowed value classifies as Partial. Zero means
	// no band declared.
	Tolerance float64
}

// IsWildcard reports whether a raw allowed value is the match-anything
// marker used for fields that legitimately vary per device.
func IsWildcard(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch NormalizeKey(s) {
	case "any":
		return true
	}
	return s == "*"
}

// minimum observed length before the containment rule applies; avoids "1"
// matching inside "10.1.2".
const containmentMinLen = 3

// Classify returns the verdict for an observed value against a catalog
// entry. present is false when the snapshot had no value for the field at
// all; an explicit null counts as missing too.
func Classify(e Entry, actual any, present bool) Verdict {
	if e.Wildcard {
		return Match
	}
	if !present {
		return Missing
	}

	norm := NormalizeValue(actual)
	if norm.Missing {
		return Missing
	}

	for _, allowed := range e.Allowed {
		if norm.Equal(NormalizeValue(allowed)) {
			return Match
		}
	}

	if e.Tolerance > 0 && norm.IsNum {
		for _, allowed := range e.Allowed {
			an := NormalizeValue(allowed)
			if an.IsNum && math.Abs(norm.Num-an.Num) <= e.Tolerance {
				return Partial
			}
		}
	}

	// Containment rule carried over from earlier audit tooling: a value
	// that contains, or is contained in, an allowed value is close enough
	// to flag as partial rather than a hard mismatch.
	if len(norm.Str) >= containmentMinLen {
		for _, allowed := range e.Allowed {
			an := NormalizeValue(allowed)
			if an.Str == "" {
				continue
			}
			if strings.Contains(an.Str, norm.Str) || strings.Contains(norm.Str, an.Str) {
				return Partial
			}
		}
	}

	return Mismatch
}
