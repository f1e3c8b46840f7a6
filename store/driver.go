package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate brings the schema up to date. Missing tables are created and
	// missing columns are added with safe defaults, so data persisted by
	// older versions keeps working.
	Migrate(ctx context.Context) error

	// Reminder model related methods.
	CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error)
	ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error)
	MarkReminderDelivered(ctx context.Context, id int32) error

	// ChatPreference model related methods.
	UpsertChatPreference(ctx context.Context, upsert *ChatPreference) (*ChatPreference, error)
	GetChatPreference(ctx context.Context, find *FindChatPreference) (*ChatPreference, error)

	// ConversationLink model related methods.
	UpsertConversationLink(ctx context.Context, upsert *ConversationLink) (*ConversationLink, error)
	GetConversationLink(ctx context.Context, find *FindConversationLink) (*ConversationLink, error)
	DeleteConversationLink(ctx context.Context, delete *DeleteConversationLink) error
}
