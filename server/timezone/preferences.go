package timezone

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/recall/store"
)

// ErrInvalidTimezone is returned when a preference update names a zone that
// does not load. Nothing is persisted in that case.
var ErrInvalidTimezone = errors.New("invalid timezone identifier")

// Preferences stores and resolves per-conversation timezones.
type Preferences struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPreferences creates a preference service backed by the store.
func NewPreferences(st *store.Store, logger *slog.Logger) *Preferences {
	return &Preferences{store: st, logger: logger}
}

// Set upserts the timezone for a conversation. Invalid identifiers are
// rejected before any state changes.
func (p *Preferences) Set(ctx context.Context, conversationID, tz string) error {
	if !IsValidTimezone(tz) {
		return errors.Wrapf(ErrInvalidTimezone, "%q", tz)
	}

	if _, err := p.store.UpsertChatPreference(ctx, &store.ChatPreference{
		ConversationID: conversationID,
		Timezone:       tz,
	}); err != nil {
		return errors.Wrap(err, "failed to save timezone preference")
	}

	p.logger.Info("timezone preference saved",
		slog.String("conversation_id", conversationID),
		slog.String("timezone", tz))
	return nil
}

// Get returns the conversation's timezone identifier, falling back to the
// configured default when no preference row exists.
func (p *Preferences) Get(ctx context.Context, conversationID string) (string, error) {
	preference, err := p.store.GetChatPreference(ctx, &store.FindChatPreference{
		ConversationID: conversationID,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load timezone preference")
	}
	if preference == nil || preference.Timezone == "" {
		return p.store.DefaultTimezone(), nil
	}
	return preference.Timezone, nil
}

// Location resolves the conversation's zone to a loaded *time.Location along
// with its identifier.
func (p *Preferences) Location(ctx context.Context, conversationID string) (*time.Location, string, error) {
	tz, err := p.Get(ctx, conversationID)
	if err != nil {
		return nil, "", err
	}
	loc, err := ParseTimezone(tz)
	if err != nil {
		// A preference row written by an older build may hold a zone this
		// host's tzdata cannot load; treat it like an absent row.
		p.logger.Warn("stored timezone no longer loads, using UTC",
			slog.String("conversation_id", conversationID),
			slog.String("timezone", tz))
		return UTC, "UTC", nil
	}
	return loc, tz, nil
}
