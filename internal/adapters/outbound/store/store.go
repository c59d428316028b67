package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/driftcheck/driftcheck/internal/domain"
)

// Store implements domain.AuditStore on SQLite. Each validation session
// gets one row in sessions plus one row per field result, all carrying a
// retention deadline so expired audit data can be purged.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the audit database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			catalog_path TEXT,
			snapshot_path TEXT,
			commit_hash TEXT,
			total_fields INTEGER,
			matches INTEGER,
			partials INTEGER,
			mismatches INTEGER,
			missing INTEGER,
			mismatch_ratio DOUBLE,
			likely_wrong_yaml INTEGER,
			retention_until TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS session_fields (
			session_id TEXT NOT NULL,
			field TEXT NOT NULL,
			expected TEXT,
			actual TEXT,
			status TEXT,
			closest_match TEXT,
			similarity DOUBLE,
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
		CREATE INDEX IF NOT EXISTS idx_session_fields_session
			ON session_fields(session_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating audit tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Save records one validation session and its field results atomically.
func (s *Store) Save(record domain.AuditRecord, results []domain.FieldResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (
			session_id, created_at, catalog_path, snapshot_path, commit_hash,
			total_fields, matches, partials, mismatches, missing,
			mismatch_ratio, likely_wrong_yaml, retention_until
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID, record.CreatedAt.UTC(), record.CatalogPath,
		record.SnapshotPath, record.CommitHash,
		record.Summary.TotalFields, record.Summary.Matches,
		record.Summary.Partials, record.Summary.Mismatches,
		record.Summary.Missing, record.MismatchRatio,
		boolInt(record.LikelyWrongYAML), record.RetentionUntil.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	for _, r := range results {
		_, err = tx.Exec(`
			INSERT INTO session_fields (
				session_id, field, expected, actual, status, closest_match, similarity
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.SessionID, r.Field, joinExpected(r.Expected), r.Actual,
			string(r.Status), r.ClosestMatch, r.Similarity,
		)
		if err != nil {
			return fmt.Errorf("inserting field %s: %w", r.Field, err)
		}
	}

	return tx.Commit()
}

// List returns the most recent sessions, newest first.
func (s *Store) List(limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT session_id, created_at, catalog_path, snapshot_path, commit_hash,
		       total_fields, matches, partials, mismatches, missing,
		       mismatch_ratio, likely_wrong_yaml, retention_until
		FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var wrong int
		err := rows.Scan(
			&rec.SessionID, &rec.CreatedAt, &rec.CatalogPath,
			&rec.SnapshotPath, &rec.CommitHash,
			&rec.Summary.TotalFields, &rec.Summary.Matches,
			&rec.Summary.Partials, &rec.Summary.Mismatches,
			&rec.Summary.Missing, &rec.MismatchRatio, &wrong,
			&rec.RetentionUntil,
		)
		if err != nil {
			return nil, err
		}
		rec.LikelyWrongYAML = wrong != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PurgeExpired deletes every session (and its field rows) whose retention
// deadline has passed, returning the number of sessions removed.
func (s *Store) PurgeExpired(now time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM session_fields WHERE session_id IN (
			SELECT session_id FROM sessions WHERE retention_until < ?
		)`, now.UTC())
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec(`DELETE FROM sessions WHERE retention_until < ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinExpected(expected []string) string {
	return strings.Join(expected, ", ")
}
