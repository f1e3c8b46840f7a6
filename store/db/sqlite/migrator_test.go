package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recall/internal/profile"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	driver, err := NewDB(&profile.Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = driver.Close()
	})
	return driver.(*DB)
}

func TestMigrate_FreshDatabase(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	require.NoError(t, d.Migrate(ctx))

	for table, want := range map[string][]string{
		"reminder":          {"id", "conversation_id", "text", "due_at", "timezone", "due_local", "delivered", "created_ts"},
		"chat_preference":   {"conversation_id", "timezone", "updated_ts"},
		"conversation_link": {"conversation_id", "link_code"},
	} {
		columns, err := d.tableColumns(ctx, table)
		require.NoError(t, err)
		for _, column := range want {
			_, ok := columns[column]
			assert.True(t, ok, "table %s missing column %s", table, column)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	require.NoError(t, d.Migrate(ctx))
	require.NoError(t, d.Migrate(ctx))
}

func TestMigrate_AddsColumnsToLegacyTable(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	// First-generation schema: UTC-only reminders, no conversation scoping.
	_, err := d.db.ExecContext(ctx, `CREATE TABLE reminder (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL DEFAULT '',
		due_at TEXT NOT NULL DEFAULT '',
		delivered INTEGER NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO reminder (text, due_at) VALUES ('old row', '2025-01-01T00:00:00')`)
	require.NoError(t, err)

	require.NoError(t, d.Migrate(ctx))

	columns, err := d.tableColumns(ctx, "reminder")
	require.NoError(t, err)
	for _, column := range []string{"conversation_id", "timezone", "due_local", "created_ts"} {
		_, ok := columns[column]
		assert.True(t, ok, "missing column %s", column)
	}

	// The legacy row survives with usable defaults.
	var conversationID string
	var delivered int
	err = d.db.QueryRowContext(ctx,
		`SELECT conversation_id, delivered FROM reminder WHERE text = 'old row'`).
		Scan(&conversationID, &delivered)
	require.NoError(t, err)
	assert.Equal(t, "", conversationID)
	assert.Equal(t, 0, delivered)

	// New-shape inserts work on the migrated table.
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO reminder (conversation_id, text, due_at, timezone, delivered, created_ts)
		 VALUES ('42', 'new row', '2026-01-01T00:00:00', 'Asia/Dubai', 0, 1)`)
	require.NoError(t, err)
}
