// Package auditstore records the outcome of every merge run — which change
// set was interpreted, whether conflicts remained, and the content address
// of the result — so a CLI invocation can be traced back to later.
package auditstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pcsmerge/cas"
)

const schema = `
CREATE TABLE IF NOT EXISTS merge_runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	change_set_hash  TEXT NOT NULL,
	result_hash      TEXT NOT NULL,
	has_conflicts    INTEGER NOT NULL,
	structural_count INTEGER NOT NULL,
	content_count    INTEGER NOT NULL,
	source_path      TEXT NOT NULL,
	ran_at           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_merge_runs_change_set ON merge_runs(change_set_hash);
`

// RunOutcome is one logged merge run.
type RunOutcome struct {
	ID              int64
	ChangeSetHash   cas.Hash
	ResultHash      cas.Hash
	HasConflicts    bool
	StructuralCount int
	ContentCount    int
	SourcePath      string
	RanAt           time.Time
}

// Store is a sqlite-backed log of merge run outcomes.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and applies the audit
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("auditstore: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditstore: applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a new run outcome and returns it with its assigned ID
// and timestamp.
func (s *Store) RecordRun(out RunOutcome) (RunOutcome, error) {
	out.RanAt = time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO merge_runs (change_set_hash, result_hash, has_conflicts, structural_count, content_count, source_path, ran_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(out.ChangeSetHash), string(out.ResultHash), boolToInt(out.HasConflicts),
		out.StructuralCount, out.ContentCount, out.SourcePath, out.RanAt.Format(time.RFC3339),
	)
	if err != nil {
		return RunOutcome{}, fmt.Errorf("auditstore: recording run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return RunOutcome{}, fmt.Errorf("auditstore: reading inserted id: %w", err)
	}
	out.ID = id
	return out, nil
}

// RunsForChangeSet returns every logged run against a given change set
// hash, most recent first.
func (s *Store) RunsForChangeSet(hash cas.Hash) ([]RunOutcome, error) {
	rows, err := s.db.Query(
		`SELECT id, change_set_hash, result_hash, has_conflicts, structural_count, content_count, source_path, ran_at
		 FROM merge_runs WHERE change_set_hash = ? ORDER BY id DESC`,
		string(hash),
	)
	if err != nil {
		return nil, fmt.Errorf("auditstore: querying runs: %w", err)
	}
	defer rows.Close()

	var outcomes []RunOutcome
	for rows.Next() {
		var (
			out          RunOutcome
			hasConflicts int
			ranAt        string
		)
		if err := rows.Scan(&out.ID, &out.ChangeSetHash, &out.ResultHash, &hasConflicts, &out.StructuralCount, &out.ContentCount, &out.SourcePath, &ranAt); err != nil {
			return nil, fmt.Errorf("auditstore: scanning run row: %w", err)
		}
		out.HasConflicts = hasConflicts != 0
		if parsed, err := time.Parse(time.RFC3339, ranAt); err == nil {
			out.RanAt = parsed
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
