package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Schema evolution is additive: tables are created with the latest shape, and
// tables left behind by older versions are migrated forward by adding the
// columns they miss with safe defaults. Nothing is dropped or rewritten, so a
// database produced by any earlier version keeps working.

var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS reminder (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		due_at TEXT NOT NULL DEFAULT '',
		timezone TEXT,
		due_local TEXT,
		delivered INTEGER NOT NULL DEFAULT 0,
		created_ts BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS chat_preference (
		conversation_id TEXT PRIMARY KEY,
		timezone TEXT NOT NULL DEFAULT '',
		updated_ts BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS conversation_link (
		conversation_id TEXT PRIMARY KEY,
		link_code TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reminder_delivered_due_at ON reminder (delivered, due_at)`,
}

// columnMigrations lists, per table, the columns an up-to-date schema must
// have and the DDL fragment that adds each one. The first reminder schema
// only had UTC due times; the timezone-aware fields arrived later.
var columnMigrations = map[string]map[string]string{
	"reminder": {
		"conversation_id": "TEXT NOT NULL DEFAULT ''",
		"text":            "TEXT NOT NULL DEFAULT ''",
		"due_at":          "TEXT NOT NULL DEFAULT ''",
		"timezone":        "TEXT",
		"due_local":       "TEXT",
		"delivered":       "INTEGER NOT NULL DEFAULT 0",
		"created_ts":      "BIGINT NOT NULL DEFAULT 0",
	},
	"chat_preference": {
		"timezone":   "TEXT NOT NULL DEFAULT ''",
		"updated_ts": "BIGINT NOT NULL DEFAULT 0",
	},
	"conversation_link": {
		"link_code": "TEXT NOT NULL DEFAULT ''",
	},
}

// Migrate creates missing tables and adds missing columns.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range createTableStatements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to create table")
		}
	}

	for table, columns := range columnMigrations {
		existing, err := d.tableColumns(ctx, table)
		if err != nil {
			return errors.Wrapf(err, "failed to inspect table %s", table)
		}

		for column, definition := range columns {
			if _, ok := existing[column]; ok {
				continue
			}
			slog.Info("adding missing column",
				slog.String("table", table),
				slog.String("column", column))
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
			if _, err := d.db.ExecContext(ctx, stmt); err != nil {
				return errors.Wrapf(err, "failed to add column %s.%s", table, column)
			}
		}
	}

	return nil
}

// tableColumns returns the set of column names currently on a table.
func (d *DB) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := map[string]struct{}{}
	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		columns[name] = struct{}{}
	}
	return columns, rows.Err()
}
