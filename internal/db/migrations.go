package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Every statement must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS comments (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT     NOT NULL UNIQUE,
		task_id    TEXT     NOT NULL,
		body       TEXT     NOT NULL,
		author     TEXT     NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_task ON comments (task_id, seq)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
