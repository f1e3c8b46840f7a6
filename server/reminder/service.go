// Package reminder provides durable reminder storage and the delivery loop.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/hrygo/recall/store"
)

// Notifier delivers a reminder message to a conversation. Supplied by the
// chat-transport adapter; implementations must be safe to retry, because a
// crash between notify and mark can redeliver once.
type Notifier interface {
	Notify(ctx context.Context, conversationID, message string) error
}

// Service creates reminders and processes the due set.
type Service struct {
	store         *store.Store
	notifier      Notifier
	notifyTimeout time.Duration
	limiter       *rate.Limiter
	logger        *slog.Logger
}

// NewService creates a reminder service. The notify timeout bounds a single
// notifier call so a stuck transport cannot stall the poll.
func NewService(st *store.Store, notifier Notifier, notifyTimeout time.Duration, logger *slog.Logger) *Service {
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &Service{
		store:         st,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		// Personal-scale transports throttle hard; cap our own send rate
		// instead of tripping theirs.
		limiter: rate.NewLimiter(rate.Limit(20), 20),
		logger:  logger,
	}
}

// Create persists a reminder. Text must be non-empty; the due instant may be
// in the past, which makes the reminder eligible on the next poll (the
// caller decided what "due" means).
func (s *Service) Create(ctx context.Context, conversationID, text string, dueAt time.Time, tz, localDisplay string) (*store.Reminder, error) {
	create := &store.Reminder{
		ConversationID: conversationID,
		Text:           text,
		DueAt:          store.FormatDueAt(dueAt),
	}
	if tz != "" {
		create.Timezone = &tz
	}
	if localDisplay != "" {
		create.DueLocal = &localDisplay
	}

	created, err := s.store.CreateReminder(ctx, create)
	if err != nil {
		if errors.Is(err, store.ErrEmptyReminderText) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to create reminder")
	}

	s.logger.Info("reminder created",
		slog.Int("id", int(created.ID)),
		slog.String("conversation_id", conversationID),
		slog.String("due_at", created.DueAt))
	return created, nil
}

// ProcessDue delivers every undelivered reminder due at or before now and
// returns the number delivered. Each row is marked delivered immediately
// after its notify succeeds, before the next row is touched. A failed notify
// leaves the row pending; it is retried on the next poll.
func (s *Service) ProcessDue(ctx context.Context) (int, error) {
	now := time.Now()

	due, err := s.store.ListDueReminders(ctx, now)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list due reminders")
	}

	delivered := 0
	for _, r := range due {
		if err := s.deliver(ctx, r); err != nil {
			s.logger.Warn("reminder delivery failed, will retry next poll",
				slog.Int("id", int(r.ID)),
				slog.String("conversation_id", r.ConversationID),
				slog.String("error", err.Error()))
			continue
		}

		if err := s.store.MarkReminderDelivered(ctx, r.ID); err != nil {
			// The notify went out but the mark failed; the next poll may
			// redeliver once. Surface loudly.
			s.logger.Error("failed to mark reminder delivered",
				slog.Int("id", int(r.ID)),
				slog.String("error", err.Error()))
			continue
		}
		delivered++
	}

	return delivered, nil
}

// deliver sends one reminder through the notifier with a bounded timeout.
func (s *Service) deliver(ctx context.Context, r *store.Reminder) error {
	if s.notifier == nil {
		return errors.New("notifier not configured")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	return s.notifier.Notify(notifyCtx, r.ConversationID, ComposeMessage(r))
}

// ComposeMessage builds the user-facing delivery message from the richest
// information the row carries: local display, else timezone, else the bare
// text.
func ComposeMessage(r *store.Reminder) string {
	message := "Reminder: " + r.Text
	switch {
	case r.DueLocal != nil && *r.DueLocal != "":
		message += fmt.Sprintf(" (due %s)", *r.DueLocal)
	case r.Timezone != nil && *r.Timezone != "":
		message += fmt.Sprintf(" (%s)", *r.Timezone)
	}
	return message
}
