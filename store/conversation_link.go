package store

import (
	"context"
)

// ConversationLink maps a conversation to a shared namespace code. One active
// mapping per conversation; many conversations may share a code.
type ConversationLink struct {
	ConversationID string
	LinkCode       string
}

// FindConversationLink is the filter for looking up a link row.
type FindConversationLink struct {
	ConversationID string
}

// DeleteConversationLink removes the mapping for a conversation. Deleting an
// absent mapping is not an error.
type DeleteConversationLink struct {
	ConversationID string
}

// UpsertConversationLink creates or replaces the mapping for a conversation.
func (s *Store) UpsertConversationLink(ctx context.Context, upsert *ConversationLink) (*ConversationLink, error) {
	return s.driver.UpsertConversationLink(ctx, upsert)
}

// GetConversationLink returns the mapping, or nil when the conversation is
// not linked.
func (s *Store) GetConversationLink(ctx context.Context, find *FindConversationLink) (*ConversationLink, error) {
	return s.driver.GetConversationLink(ctx, find)
}

// DeleteConversationLink removes the mapping, idempotently.
func (s *Store) DeleteConversationLink(ctx context.Context, delete *DeleteConversationLink) error {
	return s.driver.DeleteConversationLink(ctx, delete)
}
