package store

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DueAtLayout is the storage encoding for reminder due times: naive UTC with
// no embedded offset. Fixed width keeps string comparisons monotonic, so the
// due-scan can use a plain index range.
const DueAtLayout = "2006-01-02T15:04:05"

// ErrEmptyReminderText is returned when a reminder is created without a body.
var ErrEmptyReminderText = errors.New("reminder text must not be empty")

// Reminder is a single pending or delivered reminder row. Rows are never
// deleted; delivery flips Delivered exactly once and the row stays as an
// audit trail.
type Reminder struct {
	ID             int32
	ConversationID string
	Text           string
	// DueAt is the absolute due instant encoded with DueAtLayout.
	DueAt string
	// Timezone is the IANA zone the reminder was phrased in, when known.
	Timezone *string
	// DueLocal is the human-readable local rendering, display only.
	DueLocal  *string
	Delivered bool
	CreatedTs int64
}

// FindReminder is the filter for listing reminders.
type FindReminder struct {
	ID             *int32
	ConversationID *string
	Delivered      *bool
	// DueBefore selects rows with due_at <= the encoded instant.
	DueBefore *string
	// RequireConversation skips legacy rows without a conversation id.
	RequireConversation bool
	Limit               *int
}

// FormatDueAt encodes an instant for storage. The instant is converted to
// UTC first; the encoding carries no offset.
func FormatDueAt(t time.Time) string {
	return t.UTC().Format(DueAtLayout)
}

// ParseDueAt decodes a stored due instant back into a UTC time.
func ParseDueAt(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DueAtLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "malformed due instant %q", s)
	}
	return t, nil
}

// CreateReminder stores a new reminder. The text must be non-empty; the due
// instant may be in the past, which makes the reminder eligible on the very
// next poll.
func (s *Store) CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error) {
	if strings.TrimSpace(create.Text) == "" {
		return nil, ErrEmptyReminderText
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateReminder(ctx, create)
}

// ListReminders lists reminders matching the filter, ordered by id ascending.
func (s *Store) ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error) {
	return s.driver.ListReminders(ctx, find)
}

// ListDueReminders returns undelivered reminders due at or before the given
// instant, in insertion order. Legacy rows without a conversation id are
// skipped.
func (s *Store) ListDueReminders(ctx context.Context, now time.Time) ([]*Reminder, error) {
	delivered := false
	dueBefore := FormatDueAt(now)
	return s.driver.ListReminders(ctx, &FindReminder{
		Delivered:           &delivered,
		DueBefore:           &dueBefore,
		RequireConversation: true,
	})
}

// MarkReminderDelivered flips the delivered flag. Idempotent: marking an
// already-delivered reminder is a no-op.
func (s *Store) MarkReminderDelivered(ctx context.Context, id int32) error {
	return s.driver.MarkReminderDelivered(ctx, id)
}
