package domain

import (
	"fmt"
	"time"
)

// Status classifies one catalog field against its observed snapshot value.
type Status string

const (
	StatusMatch    Status = "match"
	StatusPartial  Status = "partial"
	StatusMismatch Status = "mismatch"
	StatusMissing  Status = "missing"
)

// FieldResult is the evaluation outcome of a single catalog leaf field.
// Results are created once during a validation pass and never mutated.
type FieldResult struct {
	Field        string   `json:"field"`
	Expected     []string `json:"expected"`
	Actual       string   `json:"actual"`
	FoundKey     string   `json:"found_key,omitempty"`
	Status       Status   `json:"status"`
	ClosestMatch string   `json:"closest_match,omitempty"`
	Similarity   float64  `json:"similarity"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Summary holds per-status counts for a validation report.
type Summary struct {
	TotalFields int `json:"total_fields"`
	Matches     int `json:"matches"`
	Partials    int `json:"partials"`
	Mismatches  int `json:"mismatches"`
	Missing     int `json:"missing"`
}

// Meta carries the session-level verdict. MismatchRatio counts missing
// fields as mismatches; LikelyWrongYAML flips when a strict majority of
// fields mismatch, suggesting the snapshot was checked against the wrong
// catalog rather than the device having drifted field by field.
type Meta struct {
	MismatchRatio   float64  `json:"mismatch_ratio"`
	LikelyWrongYAML bool     `json:"likely_wrong_yaml"`
	Warnings        []string `json:"warnings"`
}

// Report is the full result of validating one snapshot against one catalog.
// It is deterministic for fixed inputs: result order follows catalog
// declaration order and nothing time- or randomness-dependent is recorded.
type Report struct {
	Results []FieldResult `json:"results"`
	Summary Summary       `json:"summary"`
	Meta    Meta          `json:"meta"`
}

// InputShapeError reports a catalog or snapshot whose top level is not a
// mapping. It is the only condition that aborts a validation; everything
// else degrades to per-field warnings.
type InputShapeError struct {
	Input string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("%s: top level must be a mapping", e.Input)
}

// AuditRecord is one persisted validation session. Unlike Report it carries
// identity and timing, so it lives outside the deterministic core output.
type AuditRecord struct {
	SessionID       string    `json:"session_id"`
	CreatedAt       time.Time `json:"created_at"`
	CatalogPath     string    `json:"catalog_path"`
	SnapshotPath    string    `json:"snapshot_path"`
	CommitHash      string    `json:"commit_hash,omitempty"`
	Summary         Summary   `json:"summary"`
	MismatchRatio   float64   `json:"mismatch_ratio"`
	LikelyWrongYAML bool      `json:"likely_wrong_yaml"`
	RetentionUntil  time.Time `json:"retention_until"`
}
