package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/octoreflex/fbas-analyzer/internal/store"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path, 2)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_CreatesBucketsAndSchemaVersion(t *testing.T) {
	db := openTestDB(t)
	runs, err := db.ReadRuns()
	if err != nil {
		t.Fatalf("ReadRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs on a fresh database, got %d", len(runs))
	}
}

func TestPutRun_AndReadBack(t *testing.T) {
	db := openTestDB(t)
	rec := store.AnalysisRecord{
		NetworkHash:        "abc123",
		NodeCount:          5,
		MinimalQuorumCount: 3,
		HasIntersection:    true,
		Duration:           10 * time.Millisecond,
	}
	if err := db.PutRun(rec); err != nil {
		t.Fatalf("PutRun: %v", err)
	}

	runs, err := db.ReadRuns()
	if err != nil {
		t.Fatalf("ReadRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].NetworkHash != "abc123" || runs[0].NodeCount != 5 {
		t.Errorf("unexpected run record: %+v", runs[0])
	}
}

func TestPruneOldRuns_KeepsOnlyMostRecent(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := store.AnalysisRecord{NodeCount: i, RunAt: base.Add(time.Duration(i) * time.Hour)}
		if err := db.PutRun(rec); err != nil {
			t.Fatalf("PutRun: %v", err)
		}
	}

	deleted, err := db.PruneOldRuns(2)
	if err != nil {
		t.Fatalf("PruneOldRuns: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	runs, err := db.ReadRuns()
	if err != nil {
		t.Fatalf("ReadRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 remaining runs, got %d", len(runs))
	}
	if runs[0].NodeCount != 3 || runs[1].NodeCount != 4 {
		t.Errorf("expected the 2 most recent runs to survive, got %+v", runs)
	}
}

func TestPutSnapshot_AndGetBack(t *testing.T) {
	db := openTestDB(t)
	takenAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := store.Snapshot{NodeCount: 4, TakenAt: takenAt}

	if err := db.PutSnapshot(snap); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}

	got, err := db.GetSnapshot(takenAt, 4)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot, got nil")
	}
	if got.NodeCount != 4 {
		t.Errorf("expected node count 4, got %d", got.NodeCount)
	}
}

func TestGetSnapshot_MissingReturnsNilNil(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetSnapshot(time.Now(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected nil for a missing snapshot")
	}
}
