package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hrygo/recall/store"
)

func (d *DB) UpsertConversationLink(ctx context.Context, upsert *store.ConversationLink) (*store.ConversationLink, error) {
	stmt := `INSERT INTO conversation_link (conversation_id, link_code)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT (conversation_id) DO UPDATE SET
			link_code = EXCLUDED.link_code`

	if _, err := d.db.ExecContext(ctx, stmt, upsert.ConversationID, upsert.LinkCode); err != nil {
		return nil, fmt.Errorf("failed to upsert conversation link: %w", err)
	}

	return upsert, nil
}

func (d *DB) GetConversationLink(ctx context.Context, find *store.FindConversationLink) (*store.ConversationLink, error) {
	query := `SELECT conversation_id, link_code FROM conversation_link WHERE conversation_id = ` + placeholder(1)

	var link store.ConversationLink
	if err := d.db.QueryRowContext(ctx, query, find.ConversationID).Scan(
		&link.ConversationID,
		&link.LinkCode,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation link: %w", err)
	}

	return &link, nil
}

func (d *DB) DeleteConversationLink(ctx context.Context, delete *store.DeleteConversationLink) error {
	stmt := `DELETE FROM conversation_link WHERE conversation_id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ConversationID); err != nil {
		return fmt.Errorf("failed to delete conversation link: %w", err)
	}
	return nil
}
