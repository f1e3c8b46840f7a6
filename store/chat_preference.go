package store

import (
	"context"
	"time"
)

// ChatPreference holds per-conversation settings. One row per conversation;
// absent rows fall back to the profile default timezone.
type ChatPreference struct {
	ConversationID string
	Timezone       string
	UpdatedTs      int64
}

// FindChatPreference is the filter for looking up a preference row.
type FindChatPreference struct {
	ConversationID string
}

// UpsertChatPreference creates or replaces the preference row for a
// conversation.
func (s *Store) UpsertChatPreference(ctx context.Context, upsert *ChatPreference) (*ChatPreference, error) {
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}
	return s.driver.UpsertChatPreference(ctx, upsert)
}

// GetChatPreference returns the preference row, or nil when the conversation
// never set one.
func (s *Store) GetChatPreference(ctx context.Context, find *FindChatPreference) (*ChatPreference, error) {
	return s.driver.GetChatPreference(ctx, find)
}
