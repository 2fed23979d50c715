// Package demostore persists per-frame diagnostic statistics (delta base,
// entity and removal counts, wire size, staleness) captured while replaying
// a wire session, so q2netdump runs can be compared across time.
package demostore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps a sqlite database holding one row per inspected frame.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) the sqlite database at dsn and ensures its
// schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("demostore: open %s: %w", dsn, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("demostore: set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS frame_stats (
			server_frame   INTEGER PRIMARY KEY,
			delta_frame    INTEGER NOT NULL,
			entity_count   INTEGER NOT NULL,
			removed_count  INTEGER NOT NULL,
			wire_bytes     INTEGER NOT NULL,
			stale          INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("demostore: migrate: %w", err)
	}
	return nil
}

// FrameStats is one row recorded per processed frame.
type FrameStats struct {
	ServerFrame  int32
	DeltaFrame   int32
	EntityCount  int
	RemovedCount int
	WireBytes    int
	Stale        bool
}

// RecordFrame inserts or replaces the stats row for fs.ServerFrame.
func (s *Store) RecordFrame(fs FrameStats) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO frame_stats
			(server_frame, delta_frame, entity_count, removed_count, wire_bytes, stale)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fs.ServerFrame, fs.DeltaFrame, fs.EntityCount, fs.RemovedCount, fs.WireBytes, fs.Stale,
	)
	if err != nil {
		return fmt.Errorf("demostore: record frame %d: %w", fs.ServerFrame, err)
	}
	return nil
}

// StaleCount returns how many recorded frames were flagged stale.
func (s *Store) StaleCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM frame_stats WHERE stale != 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("demostore: count stale frames: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
