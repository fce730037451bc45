package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and are
// re-run on every start.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		chat_id     TEXT NOT NULL UNIQUE,
		chat_name   TEXT NOT NULL DEFAULT '',
		first_name  TEXT NOT NULL DEFAULT '',
		last_name   TEXT NOT NULL DEFAULT '',
		email       TEXT,
		is_admin    INTEGER NOT NULL DEFAULT 0,
		is_owner    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email) WHERE email IS NOT NULL AND email != ''`,

	`CREATE TABLE IF NOT EXISTS workdays (
		id          TEXT PRIMARY KEY,
		owner       TEXT NOT NULL,
		begin_at    TEXT NOT NULL,
		end_at      TEXT,
		version     INTEGER NOT NULL DEFAULT 1 CHECK(version > 0),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workdays_owner_created ON workdays(owner, created_at)`,

	`CREATE TABLE IF NOT EXISTS workday_intervals (
		workday_id  TEXT NOT NULL REFERENCES workdays(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL CHECK(seq >= 0),
		begin_at    TEXT NOT NULL,
		end_at      TEXT,
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (workday_id, seq)
	)`,
}
