package domain

import "time"

// CatalogLoader parses a catalog source (YAML file, directory of YAML
// files, or spreadsheet) into an ordered Tree.
type CatalogLoader interface {
	Load(path string) (*Tree, error)
	Parse(name string, data []byte) (*Tree, error)
}

// SnapshotLoader parses a device snapshot (JSON) into a mapping.
type SnapshotLoader interface {
	Load(path string) (map[string]any, error)
	Parse(data []byte) (map[string]any, error)
}

// ReportWriter serializes a validation report to files on disk.
type ReportWriter interface {
	WriteJSON(report *Report, path string) error
	WriteExcel(report *Report, path string) error
	WriteBundle(report *Report, path string) error
}

// AuditStore persists validation sessions for later review, with a
// retention window after which records are purgeable.
type AuditStore interface {
	Save(record AuditRecord, results []FieldResult) error
	List(limit int) ([]AuditRecord, error)
	PurgeExpired(now time.Time) (int64, error)
	Close() error
}

// GitInfo reads version-control identity for a catalog checkout.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}
