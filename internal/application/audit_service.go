package application

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driftcheck/driftcheck/internal/domain"
)

// DefaultRetention is how long audit records are kept before they become
// purgeable. Matches the compliance default of the audit database schema.
const DefaultRetention = 90 * 24 * time.Hour

// AuditService runs a full validation session: load catalog and snapshot,
// validate, stamp audit metadata, persist the session and write report
// files.
type AuditService struct {
	catalogs  domain.CatalogLoader
	snapshots domain.SnapshotLoader
	reports   domain.ReportWriter
	store     domain.AuditStore
	git       domain.GitInfo
}

// NewAuditService creates an AuditService. store may be nil when session
// persistence is disabled; git may be nil when commit stamping is not
// wanted.
func NewAuditService(
	catalogs domain.CatalogLoader,
	snapshots domain.SnapshotLoader,
	reports domain.ReportWriter,
	store domain.AuditStore,
	git domain.GitInfo,
) *AuditService {
	return &AuditService{
		catalogs: catalogs, snapshots: snapshots, reports: reports,
		store: store, git: git,
	}
}

// RunOptions configures one validation session.
type RunOptions struct {
	CatalogPath  string
	SnapshotPath string
	KeyMapPath   string

	OutJSON   string
	OutXLSX   string
	OutBundle string

	Retention time.Duration
}

// RunResult carries the report plus the session's audit record.
type RunResult struct {
	Report *domain.Report
	Record domain.AuditRecord
}

// Run executes a validation session end to end.
func (s *AuditService) Run(opts RunOptions) (*RunResult, error) {
	catalog, err := s.catalogs.Load(opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	snapshot, err := s.snapshots.Load(opts.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	keyMap, err := loadKeyMap(opts.KeyMapPath)
	if err != nil {
		return nil, fmt.Errorf("loading key map: %w", err)
	}

	report, err := domain.ValidateWithKeyMap(catalog, snapshot, keyMap)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	record := s.buildRecord(report, opts)

	if s.store != nil {
		// Best-effort: a broken audit database must not block reporting.
		_ = s.store.Save(record, report.Results)
	}

	if err := s.writeOutputs(report, opts); err != nil {
		return nil, err
	}

	return &RunResult{Report: report, Record: record}, nil
}

func (s *AuditService) buildRecord(report *domain.Report, opts RunOptions) domain.AuditRecord {
	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	now := time.Now().UTC()

	record := domain.AuditRecord{
		SessionID:       uuid.NewString(),
		CreatedAt:       now,
		CatalogPath:     opts.CatalogPath,
		SnapshotPath:    opts.SnapshotPath,
		Summary:         report.Summary,
		MismatchRatio:   report.Meta.MismatchRatio,
		LikelyWrongYAML: report.Meta.LikelyWrongYAML,
		RetentionUntil:  now.Add(retention),
	}

	if s.git != nil && s.git.IsGitRepo(opts.CatalogPath) {
		if hash, err := s.git.CommitHash(opts.CatalogPath); err == nil {
			record.CommitHash = hash
		}
	}

	return record
}

func (s *AuditService) writeOutputs(report *domain.Report, opts RunOptions) error {
	if opts.OutJSON != "" {
		if err := s.reports.WriteJSON(report, opts.OutJSON); err != nil {
			return fmt.Errorf("writing json report: %w", err)
		}
	}
	if opts.OutXLSX != "" {
		if err := s.reports.WriteExcel(report, opts.OutXLSX); err != nil {
			return fmt.Errorf("writing excel report: %w", err)
		}
	}
	if opts.OutBundle != "" {
		if err := s.reports.WriteBundle(report, opts.OutBundle); err != nil {
			return fmt.Errorf("writing report bundle: %w", err)
		}
	}
	return nil
}

// loadKeyMap reads an optional two-column CSV mapping catalog keys to
// snapshot key paths.
func loadKeyMap(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	keyMap := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		from := strings.TrimSpace(row[0])
		to := strings.TrimSpace(row[1])
		if from != "" && to != "" {
			keyMap[from] = to
		}
	}
	return keyMap, nil
}
