package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/store"
	"github.com/driftcheck/driftcheck/internal/domain"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func record(id string, createdAt, retainedUntil time.Time) domain.AuditRecord {
	return domain.AuditRecord{
		SessionID:      id,
		CreatedAt:      createdAt,
		CatalogPath:    "catalog.yaml",
		SnapshotPath:   "snapshot.json",
		CommitHash:     "0123456789abcdef",
		Summary:        domain.Summary{TotalFields: 4, Matches: 3, Mismatches: 1},
		MismatchRatio:  0.25,
		RetentionUntil: retainedUntil,
	}
}

func TestStore_SaveAndList(t *testing.T) {
	st := openStore(t)
	now := time.Now().UTC()

	rec := record("s1", now, now.Add(time.Hour))
	results := []domain.FieldResult{
		{Field: "device_and_model", Expected: []string{"ASR-9901"}, Actual: "asr-9901", Status: domain.StatusMatch, Similarity: 1.0},
		{Field: "software_version", Expected: []string{"7.1.2"}, Actual: "7.1.9", Status: domain.StatusMismatch, Similarity: 0.8},
	}
	require.NoError(t, st.Save(rec, results))

	records, err := st.List(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "catalog.yaml", got.CatalogPath)
	assert.Equal(t, "0123456789abcdef", got.CommitHash)
	assert.Equal(t, 4, got.Summary.TotalFields)
	assert.Equal(t, 0.25, got.MismatchRatio)
	assert.False(t, got.LikelyWrongYAML)
}

func TestStore_ListNewestFirst(t *testing.T) {
	st := openStore(t)
	now := time.Now().UTC()

	require.NoError(t, st.Save(record("old", now.Add(-2*time.Hour), now.Add(time.Hour)), nil))
	require.NoError(t, st.Save(record("new", now, now.Add(time.Hour)), nil))

	records, err := st.List(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].SessionID)
	assert.Equal(t, "old", records[1].SessionID)
}

func TestStore_ListHonorsLimit(t *testing.T) {
	st := openStore(t)
	now := time.Now().UTC()

	require.NoError(t, st.Save(record("a", now.Add(-time.Minute), now.Add(time.Hour)), nil))
	require.NoError(t, st.Save(record("b", now, now.Add(time.Hour)), nil))

	records, err := st.List(1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_PurgeExpired(t *testing.T) {
	st := openStore(t)
	now := time.Now().UTC()

	require.NoError(t, st.Save(record("expired", now.Add(-48*time.Hour), now.Add(-time.Hour)), []domain.FieldResult{
		{Field: "f", Status: domain.StatusMatch},
	}))
	require.NoError(t, st.Save(record("kept", now, now.Add(time.Hour)), nil))

	purged, err := st.PurgeExpired(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	records, err := st.List(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].SessionID)
}

func TestStore_PurgeNothingExpired(t *testing.T) {
	st := openStore(t)
	now := time.Now().UTC()

	require.NoError(t, st.Save(record("fresh", now, now.Add(time.Hour)), nil))

	purged, err := st.PurgeExpired(now)
	require.NoError(t, err)
	assert.Zero(t, purged)
}
