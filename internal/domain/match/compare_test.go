package match_test

import (
	"testing"

	"github.com/driftcheck/driftcheck/internal/domain/match"
	"github.com/stretchr/testify/assert"
)

func entry(allowed ...any) match.Entry {
	return match.Entry{Allowed: allowed}
}

func TestClassify_ExactMatch(t *testing.T) {
	assert.Equal(t, match.Match, match.Classify(entry("disabled"), "disabled", true))
	assert.Equal(t, match.Match, match.Classify(entry("Disabled"), "  disabled ", true))
}

func TestClassify_SetMembership(t *testing.T) {
	e := entry("1.2", "1.3")
	assert.Equal(t, match.Match, match.Classify(e, "1.3", true))
	assert.Equal(t, match.Mismatch, match.Classify(e, "1.1", true))
}

func TestClassify_NumericAndBooleanCoercion(t *testing.T) {
	assert.Equal(t, match.Match, match.Classify(entry("8080"), 8080.0, true))
	assert.Equal(t, match.Match, match.Classify(entry(true), "yes", true))
}

func TestClassify_Missing(t *testing.T) {
	e := entry("disabled")
	assert.Equal(t, match.Missing, match.Classify(e, nil, false))
	// An explicit null is as good as absent.
	assert.Equal(t, match.Missing, match.Classify(e, nil, true))
}

func TestClassify_EmptyStringIsPresentButWrong(t *testing.T) {
	assert.Equal(t, match.Mismatch, match.Classify(entry("disabled"), "", true))
}

func TestClassify_WildcardAbsorbsEverything(t *testing.T) {
	e := match.Entry{Allowed: []any{"*"}, Wildcard: true}
	assert.Equal(t, match.Match, match.Classify(e, "router-42", true))
	assert.Equal(t, match.Match, match.Classify(e, nil, false))
	assert.Equal(t, match.Match, match.Classify(e, "", true))
}

func TestClassify_ToleranceBand(t *testing.T) {
	e := match.Entry{Allowed: []any{"1.2"}, Tolerance: 0.1}
	assert.Equal(t, match.Partial, match.Classify(e, "1.25", true))
	assert.Equal(t, match.Match, match.Classify(e, "1.2", true))
	assert.Equal(t, match.Mismatch, match.Classify(e, "1.5", true))
}

func TestClassify_ContainmentIsPartial(t *testing.T) {
	e := entry("Logitech Mouse")
	assert.Equal(t, match.Partial, match.Classify(e, "mouse", true))
	assert.Equal(t, match.Partial, match.Classify(e, "Logitech Mouse M510", true))
	// Too short to trust containment.
	assert.Equal(t, match.Mismatch, match.Classify(entry("10.1.2"), "10", true))
}

func TestClassify_ShapeMismatchDegradesToMismatch(t *testing.T) {
	// A list where a scalar was expected compares via its display string.
	assert.Equal(t, match.Mismatch, match.Classify(entry("disabled"), []any{"a", "b"}, true))
}

func TestIsWildcard(t *testing.T) {
	assert.True(t, match.IsWildcard("*"))
	assert.True(t, match.IsWildcard("any"))
	assert.True(t, match.IsWildcard("ANY"))
	assert.False(t, match.IsWildcard("many"))
	assert.False(t, match.IsWildcard(42))
}
