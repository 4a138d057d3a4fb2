// Package ledger records one row per pipeline run into a small SQLite
// database for operational visibility only. Nothing in the deterministic
// extract->clean->promote->emit pipeline reads from it; it exists so a
// status surface can answer "what ran last, and did the fingerprint
// change" without re-deriving that from the output tree.
//
// Adapted from dbopen.Open (production-safe pragmas) and trace.Store
// (batched SQLite writer), simplified to synchronous writes since document
// throughput here is orders of magnitude lower than the teacher's trace
// event volume.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	doc_id           TEXT NOT NULL,
	meta_fingerprint TEXT NOT NULL,
	started_ms       INTEGER NOT NULL,
	finished_ms      INTEGER NOT NULL,
	status           TEXT NOT NULL,
	detail           TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (doc_id, started_ms)
);
CREATE INDEX IF NOT EXISTS idx_runs_doc_id ON runs(doc_id);
`

// RunRecord is one row of run history for a single document invocation.
type RunRecord struct {
	DocID           string
	MetaFingerprint string
	StartedMS       int64
	FinishedMS      int64
	Status          string // "ok", "error", "violation"
	Detail          string
}

// Ledger wraps a *sql.DB opened with the pipeline's production-safe
// pragmas, mirroring dbopen.Open.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if absent) the run ledger at path, applying the
// same pragma set dbopen.Open applies: foreign_keys, WAL journal mode,
// a busy timeout, and NORMAL synchronous durability.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("ledger: %s: %w", p, err)
		}
	}
	return nil
}

// Close closes the underlying database handle.
func (l *Ledger) Close() error { return l.db.Close() }

// Record inserts one run row. Writes are synchronous and the caller is
// responsible for serializing calls across concurrent documents (the
// command-line driver calls Record in a plain loop after all documents
// have finished, in input order), so that completion order of
// document-level workers never determines which rows land first.
func (l *Ledger) Record(ctx context.Context, r RunRecord) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs (doc_id, meta_fingerprint, started_ms, finished_ms, status, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.DocID, r.MetaFingerprint, r.StartedMS, r.FinishedMS, r.Status, r.Detail)
	if err != nil {
		return fmt.Errorf("ledger: insert: %w", err)
	}
	return nil
}

// LatestFor returns the most recent run row for docID, or ok=false if none.
func (l *Ledger) LatestFor(ctx context.Context, docID string) (RunRecord, bool, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT doc_id, meta_fingerprint, started_ms, finished_ms, status, detail
		FROM runs WHERE doc_id = ? ORDER BY started_ms DESC LIMIT 1`, docID)
	var r RunRecord
	if err := row.Scan(&r.DocID, &r.MetaFingerprint, &r.StartedMS, &r.FinishedMS, &r.Status, &r.Detail); err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, fmt.Errorf("ledger: query %s: %w", docID, err)
	}
	return r, true, nil
}

// Recent returns up to limit most recent run rows across all documents,
// newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT doc_id, meta_fingerprint, started_ms, finished_ms, status, detail
		FROM runs ORDER BY started_ms DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: recent: %w", err)
	}
	defer rows.Close()
	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.DocID, &r.MetaFingerprint, &r.StartedMS, &r.FinishedMS, &r.Status, &r.Detail); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
