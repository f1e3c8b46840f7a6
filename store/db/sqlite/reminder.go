package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hrygo/recall/store"
)

func (d *DB) CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error) {
	fields := []string{"conversation_id", "text", "due_at", "timezone", "due_local", "delivered", "created_ts"}
	placeholderValues := []any{
		create.ConversationID, create.Text, create.DueAt,
		create.Timezone, create.DueLocal, create.Delivered, create.CreatedTs,
	}

	stmt := `INSERT INTO reminder (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return create, nil
}

func (d *DB) ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "reminder.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ConversationID; v != nil {
		where, args = append(where, "reminder.conversation_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Delivered; v != nil {
		where, args = append(where, "reminder.delivered = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DueBefore; v != nil {
		where, args = append(where, "reminder.due_at <= "+placeholder(len(args)+1)), append(args, *v)
	}
	if find.RequireConversation {
		// Rows migrated from pre-conversation schemas may carry no chat id;
		// they can never be delivered anywhere.
		where = append(where, "reminder.conversation_id IS NOT NULL AND reminder.conversation_id != ''")
	}

	// Stable, insertion-ordered delivery for ties.
	query := `
		SELECT
			id, conversation_id, text, due_at, timezone, due_local, delivered, created_ts
		FROM reminder
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY reminder.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Reminder, 0)
	for rows.Next() {
		var reminder store.Reminder
		var timezone, dueLocal sql.NullString

		if err := rows.Scan(
			&reminder.ID,
			&reminder.ConversationID,
			&reminder.Text,
			&reminder.DueAt,
			&timezone,
			&dueLocal,
			&reminder.Delivered,
			&reminder.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		if timezone.Valid && timezone.String != "" {
			reminder.Timezone = &timezone.String
		}
		if dueLocal.Valid && dueLocal.String != "" {
			reminder.DueLocal = &dueLocal.String
		}

		list = append(list, &reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return list, nil
}

func (d *DB) MarkReminderDelivered(ctx context.Context, id int32) error {
	stmt := `UPDATE reminder SET delivered = 1 WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, id); err != nil {
		return fmt.Errorf("failed to mark reminder delivered: %w", err)
	}
	return nil
}
