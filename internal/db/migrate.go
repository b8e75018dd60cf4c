package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS timelines (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		months     TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_timelines_name ON timelines(name COLLATE NOCASE)`,

	`CREATE TABLE IF NOT EXISTS phases (
		timeline_id TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
		idx         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		start_month INTEGER NOT NULL CHECK(start_month >= 0),
		end_month   INTEGER NOT NULL,
		CHECK(end_month >= start_month),
		PRIMARY KEY (timeline_id, idx)
	)`,

	`CREATE TABLE IF NOT EXISTS departments (
		timeline_id        TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
		idx                INTEGER NOT NULL,
		name               TEXT NOT NULL,
		max_crew           INTEGER NOT NULL CHECK(max_crew >= 0),
		start_month        INTEGER NOT NULL CHECK(start_month >= 0),
		end_month          INTEGER NOT NULL,
		ramp_up_duration   INTEGER NOT NULL DEFAULT 0 CHECK(ramp_up_duration >= 0),
		ramp_down_duration INTEGER NOT NULL DEFAULT 0 CHECK(ramp_down_duration >= 0),
		rate               REAL NOT NULL DEFAULT 0,
		phase_idx          INTEGER,
		crew               TEXT NOT NULL,
		crew_source        TEXT NOT NULL DEFAULT 'derived'
		                   CHECK(crew_source IN ('derived','authoritative')),
		CHECK(end_month >= start_month),
		PRIMARY KEY (timeline_id, idx)
	)`,

	`CREATE TABLE IF NOT EXISTS item_order (
		timeline_id TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		kind        TEXT NOT NULL CHECK(kind IN ('phase','department')),
		item_idx    INTEGER NOT NULL,
		PRIMARY KEY (timeline_id, position)
	)`,
}
