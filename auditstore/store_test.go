package auditstore

import (
	"path/filepath"
	"testing"

	"pcsmerge/cas"
)

func TestRecordAndQueryRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.sqlite")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	csHash := cas.Hash("abc123")
	recorded, err := store.RecordRun(RunOutcome{
		ChangeSetHash:   csHash,
		ResultHash:      cas.Hash("def456"),
		HasConflicts:    true,
		StructuralCount: 1,
		ContentCount:    2,
		SourcePath:      "rename-conflict",
	})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if recorded.ID == 0 {
		t.Fatalf("want a non-zero assigned id")
	}

	runs, err := store.RunsForChangeSet(csHash)
	if err != nil {
		t.Fatalf("RunsForChangeSet: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("want 1 run, got %d", len(runs))
	}
	if !runs[0].HasConflicts || runs[0].StructuralCount != 1 || runs[0].ContentCount != 2 {
		t.Fatalf("unexpected run outcome: %+v", runs[0])
	}
}

func TestRunsForChangeSet_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.sqlite")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	runs, err := store.RunsForChangeSet(cas.Hash("nonexistent"))
	if err != nil {
		t.Fatalf("RunsForChangeSet: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("want no runs, got %d", len(runs))
	}
}
