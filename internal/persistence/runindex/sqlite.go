// Package runindex keeps a small SQLite index of completed runs so results
// can be compared across seeds and scenarios without trawling the turn logs.
package runindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one row of the index. Fatal is empty for clean runs.
type Run struct {
	ID         string
	Scenario   string
	StartedAt  time.Time
	FinishedAt time.Time
	Seed       int64
	Turns      int
	Helpers    int
	Species    int
	Delivered  int
	Pairs      int
	Score      int
	Digest     string
	Fatal      string
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads, and the index is a
	// secondary artifact so NORMAL durability is enough.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			helpers INTEGER NOT NULL,
			species INTEGER NOT NULL,
			delivered INTEGER NOT NULL,
			pairs INTEGER NOT NULL,
			score INTEGER NOT NULL,
			digest TEXT NOT NULL,
			fatal TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_scenario_started ON runs(scenario, started_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) RecordRun(r Run) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs(id,scenario,started_at,finished_at,seed,turns,helpers,species,delivered,pairs,score,digest,fatal)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID,
		r.Scenario,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.Seed,
		r.Turns,
		r.Helpers,
		r.Species,
		r.Delivered,
		r.Pairs,
		r.Score,
		r.Digest,
		r.Fatal,
	)
	return err
}

// ListRuns returns up to limit runs, most recent first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id,scenario,started_at,finished_at,seed,turns,helpers,species,delivered,pairs,score,digest,fatal
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Scenario, &started, &finished, &r.Seed, &r.Turns,
			&r.Helpers, &r.Species, &r.Delivered, &r.Pairs, &r.Score, &r.Digest, &r.Fatal); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, finished); err == nil {
			r.FinishedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
