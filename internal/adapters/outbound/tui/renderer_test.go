package tui_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/tui"
	"github.com/driftcheck/driftcheck/internal/domain"
)

func reportWith(summary domain.Summary, meta domain.Meta, results ...domain.FieldResult) *domain.Report {
	return &domain.Report{Results: results, Summary: summary, Meta: meta}
}

func TestRenderReport_CleanRun(t *testing.T) {
	out := tui.RenderReport(reportWith(
		domain.Summary{TotalFields: 1, Matches: 1},
		domain.Meta{},
		domain.FieldResult{Field: "timezone", Expected: []string{"UTC"}, Actual: "utc", Status: domain.StatusMatch, Similarity: 1.0},
	))

	assert.Contains(t, out, "driftcheck")
	assert.Contains(t, out, "IN COMPLIANCE")
	assert.Contains(t, out, "timezone")
	assert.Contains(t, out, "1 match")
}

func TestRenderReport_Drift(t *testing.T) {
	out := tui.RenderReport(reportWith(
		domain.Summary{TotalFields: 2, Matches: 1, Mismatches: 1},
		domain.Meta{MismatchRatio: 0.5},
		domain.FieldResult{Field: "software_version", Expected: []string{"7.1.2"}, Actual: "7.1.9", Status: domain.StatusMismatch, Similarity: 0.8},
	))

	assert.Contains(t, out, "DRIFT DETECTED")
	assert.Contains(t, out, "mismatch ratio 0.50")
}

func TestRenderReport_WrongCatalog(t *testing.T) {
	out := tui.RenderReport(reportWith(
		domain.Summary{TotalFields: 4, Mismatches: 3, Matches: 1},
		domain.Meta{MismatchRatio: 0.75, LikelyWrongYAML: true},
	))

	assert.Contains(t, out, "LIKELY WRONG CATALOG")
}

func TestRenderReport_ClosestMatchAndWarnings(t *testing.T) {
	out := tui.RenderReport(reportWith(
		domain.Summary{TotalFields: 1, Mismatches: 1},
		domain.Meta{MismatchRatio: 1, Warnings: []string{"power_supply: skipped: allowed values must be a scalar, a list of scalars, or a nested section"}},
		domain.FieldResult{
			Field:        "software_version",
			Expected:     []string{"7.1.2", "7.3.1"},
			Actual:       "7.1.9",
			Status:       domain.StatusMismatch,
			ClosestMatch: "7.1.2",
			Similarity:   0.8,
		},
	))

	assert.Contains(t, out, "7.1.2")
	assert.Contains(t, out, "Warnings")
	assert.Contains(t, out, "power_supply")
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	out := tui.RenderHistory([]domain.AuditRecord{
		{
			SessionID:  "s1",
			CreatedAt:  now,
			CommitHash: "0123456789abcdef",
			Summary:    domain.Summary{TotalFields: 4, Matches: 4},
		},
		{
			SessionID:       "s2",
			CreatedAt:       now.Add(-time.Hour),
			Summary:         domain.Summary{TotalFields: 4, Matches: 1, Mismatches: 3},
			LikelyWrongYAML: true,
		},
	})

	assert.Contains(t, out, "Validation History")
	assert.Contains(t, out, "2026-08-30 10:00")
	assert.Contains(t, out, "01234567", "commit hashes render truncated")
	assert.Contains(t, out, "wrong catalog?")
}

func TestRenderHistory_Empty(t *testing.T) {
	out := tui.RenderHistory(nil)
	assert.Contains(t, out, "no recorded sessions")
}
