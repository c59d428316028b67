package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/driftcheck/driftcheck/internal/domain/match"
)

// wrongCatalogThreshold is the mismatch ratio above which a report flags
// that the snapshot was probably validated against the wrong catalog.
// Strict majority: exactly half does not flip the verdict.
const wrongCatalogThreshold = 0.5

// Validate runs the snapshot against the catalog and produces the report.
// It is a pure function of its inputs: no I/O, no clock, no shared state,
// so concurrent validations need no coordination. Only a nil catalog or
// snapshot (the "top level is not a mapping" case, surfaced by the loaders)
// aborts; malformed individual entries degrade to warnings on the report.
func Validate(catalog *Tree, snapshot map[string]any) (*Report, error) {
	return ValidateWithKeyMap(catalog, snapshot, nil)
}

// ValidateWithKeyMap is Validate with an explicit catalog-key to
// snapshot-path mapping that overrides the default key resolution.
func ValidateWithKeyMap(catalog *Tree, snapshot map[string]any, keyMap map[string]string) (*Report, error) {
	if catalog == nil {
		return nil, &InputShapeError{Input: "catalog"}
	}
	if snapshot == nil {
		return nil, &InputShapeError{Input: "snapshot"}
	}

	v := validation{snapshot: snapshot, keyMap: keyMap}
	v.walk(catalog, "")

	report := &Report{
		Results: v.results,
		Summary: v.summary,
		Meta: Meta{
			Warnings: v.warnings,
		},
	}
	if report.Summary.TotalFields > 0 {
		ratio := float64(report.Summary.Mismatches+report.Summary.Missing) / float64(report.Summary.TotalFields)
		report.Meta.MismatchRatio = round4(ratio)
		report.Meta.LikelyWrongYAML = ratio > wrongCatalogThreshold
	}
	return report, nil
}

type validation struct {
	snapshot map[string]any
	keyMap   map[string]string

	results  []FieldResult
	summary  Summary
	warnings []string
}

func (v *validation) walk(section *Tree, prefix string) {
	if v.results == nil {
		v.results = []FieldResult{}
	}
	if v.warnings == nil {
		v.warnings = []string{}
	}

	seen := map[string]bool{}
	for _, pair := range section.Pairs() {
		name := strings.ToLower(strings.TrimSpace(pair.Key))
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		norm := match.NormalizeKey(name)
		if norm == "" {
			v.warn(path, "empty field name")
			continue
		}
		if seen[norm] {
			v.warn(path, "duplicate field name in section")
			continue
		}
		seen[norm] = true

		if sub, ok := pair.Value.(*Tree); ok && !isChoicesEntry(sub) {
			v.walk(sub, path)
			continue
		}

		entry, expected, ok := parseEntry(pair.Value)
		if !ok {
			v.warn(path, "allowed values must be a scalar, a list of scalars, or a nested section")
			continue
		}

		v.results = append(v.results, v.evaluate(path, entry, expected))
	}
}

func (v *validation) warn(path, msg string) {
	v.warnings = append(v.warnings, fmt.Sprintf("%s: skipped: %s", path, msg))
}

// evaluate classifies one leaf field and builds its FieldResult.
func (v *validation) evaluate(path string, entry match.Entry, expected []string) FieldResult {
	actual, foundKey, present := match.Lookup(v.snapshot, path, v.keyMap)
	verdict := match.Classify(entry, actual, present)

	result := FieldResult{
		Field:    path,
		Expected: expected,
		Actual:   match.Display(actual),
		FoundKey: foundKey,
	}

	v.summary.TotalFields++
	switch verdict {
	case match.Match:
		v.summary.Matches++
		result.Status = StatusMatch
		result.Similarity = 1.0
	case match.Missing:
		v.summary.Missing++
		result.Status = StatusMissing
		// Absent actuals are never scored against an empty string; the
		// suggestion stays empty and similarity stays zero.
		result.Explanation = fmt.Sprintf("key missing in snapshot (expected one of %s)", strings.Join(expected, ", "))
	case match.Partial:
		v.summary.Partials++
		result.Status = StatusPartial
		result.ClosestMatch, result.Similarity = v.suggest(result.Actual, expected)
		result.Explanation = fmt.Sprintf("near match: expected one of %s, found %q", strings.Join(expected, ", "), result.Actual)
	case match.Mismatch:
		v.summary.Mismatches++
		result.Status = StatusMismatch
		result.ClosestMatch, result.Similarity = v.suggest(result.Actual, expected)
		result.Explanation = fmt.Sprintf("expected one of %s, found %q", strings.Join(expected, ", "), result.Actual)
	}
	return result
}

// suggest picks the closest allowed value for a non-matching actual. With
// fewer than two candidates there is nothing to suggest beyond what the
// expected column already shows, so only the score is reported.
func (v *validation) suggest(actual string, expected []string) (string, float64) {
	best, score := match.BestMatch(actual, expected)
	if len(expected) < 2 {
		best = ""
	}
	return best, round4(score)
}

// parseEntry turns a raw catalog value into a comparator entry plus its
// display strings. ok is false for malformed values.
func parseEntry(raw any) (match.Entry, []string, bool) {
	switch x := raw.(type) {
	case *Tree:
		return parseChoicesEntry(x)
	case []any:
		if len(x) == 0 {
			return match.Entry{}, nil, false
		}
		entry := match.Entry{}
		expected := make([]string, 0, len(x))
		for _, item := range x {
			if !isScalar(item) {
				return match.Entry{}, nil, false
			}
			if match.IsWildcard(item) {
				entry.Wildcard = true
			}
			entry.Allowed = append(entry.Allowed, item)
			expected = append(expected, strings.TrimSpace(match.Display(item)))
		}
		return entry, expected, true
	default:
		if !isScalar(raw) || raw == nil {
			return match.Entry{}, nil, false
		}
		entry := match.Entry{Allowed: []any{raw}, Wildcard: match.IsWildcard(raw)}
		return entry, []string{strings.TrimSpace(match.Display(raw))}, true
	}
}

// isChoicesEntry reports whether a nested mapping is really a leaf entry in
// the explicit form {choices: [...], tolerance: n} rather than a section.
func isChoicesEntry(t *Tree) bool {
	v, ok := t.Get("choices")
	if !ok {
		return false
	}
	_, isList := v.([]any)
	return isList
}

func parseChoicesEntry(t *Tree) (match.Entry, []string, bool) {
	raw, ok := t.Get("choices")
	if !ok {
		return match.Entry{}, nil, false
	}
	entry, expected, ok := parseEntry(raw)
	if !ok {
		return match.Entry{}, nil, false
	}
	if tol, exists := t.Get("tolerance"); exists {
		n := match.NormalizeValue(tol)
		if !n.IsNum || n.Num < 0 {
			return match.Entry{}, nil, false
		}
		entry.Tolerance = n.Num
	}
	return entry, expected, true
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int64, float64:
		return true
	default:
		return false
	}
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
