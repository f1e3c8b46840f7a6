package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hrygo/recall/store"
)

func (d *DB) UpsertChatPreference(ctx context.Context, upsert *store.ChatPreference) (*store.ChatPreference, error) {
	stmt := `INSERT INTO chat_preference (conversation_id, timezone, updated_ts)
		VALUES (` + placeholders(3) + `)
		ON CONFLICT (conversation_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			updated_ts = EXCLUDED.updated_ts`

	if _, err := d.db.ExecContext(ctx, stmt, upsert.ConversationID, upsert.Timezone, upsert.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert chat preference: %w", err)
	}

	return upsert, nil
}

func (d *DB) GetChatPreference(ctx context.Context, find *store.FindChatPreference) (*store.ChatPreference, error) {
	query := `SELECT conversation_id, timezone, updated_ts FROM chat_preference WHERE conversation_id = ` + placeholder(1)

	var preference store.ChatPreference
	if err := d.db.QueryRowContext(ctx, query, find.ConversationID).Scan(
		&preference.ConversationID,
		&preference.Timezone,
		&preference.UpdatedTs,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat preference: %w", err)
	}

	return &preference, nil
}
