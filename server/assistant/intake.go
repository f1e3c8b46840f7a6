// Package assistant wires the inbound-message path: namespace resolution,
// timezone capture, reminder parsing, and namespaced memory recall.
//
// The chat transport itself (polling, command syntax, send/receive) lives
// outside this module; this is the pipeline a transport adapter hands each
// message to.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/recall/server/memory"
	"github.com/hrygo/recall/server/namespace"
	"github.com/hrygo/recall/server/reminder"
	"github.com/hrygo/recall/server/timeparse"
	"github.com/hrygo/recall/server/timezone"
)

// OutcomeKind tells the transport adapter what the pipeline did.
type OutcomeKind string

const (
	// OutcomeReminder means a reminder was stored; Reply confirms it.
	OutcomeReminder OutcomeKind = "reminder"
	// OutcomeTimezone means a timezone preference was stored.
	OutcomeTimezone OutcomeKind = "timezone"
	// OutcomeMemory means the message was recorded and context recalled.
	OutcomeMemory OutcomeKind = "memory"
)

// Outcome is the result of processing one inbound message.
type Outcome struct {
	Kind      OutcomeKind
	Namespace string
	// Reply is the user-facing confirmation, when one applies.
	Reply string
	// Recalled holds namespaced memory snippets for reply drafting.
	Recalled []string
}

// Intake runs the inbound-message pipeline.
type Intake struct {
	namespaces *namespace.Resolver
	prefs      *timezone.Preferences
	parser     *timeparse.Parser
	reminders  *reminder.Service
	memory     *memory.Router
	logger     *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewIntake assembles the pipeline from its components.
func NewIntake(
	namespaces *namespace.Resolver,
	prefs *timezone.Preferences,
	parser *timeparse.Parser,
	reminders *reminder.Service,
	router *memory.Router,
	logger *slog.Logger,
) *Intake {
	return &Intake{
		namespaces: namespaces,
		prefs:      prefs,
		parser:     parser,
		reminders:  reminders,
		memory:     router,
		logger:     logger,
		now:        time.Now,
	}
}

// Process handles one inbound message. Order matters: timezone statements
// are captured first so a reminder in the same conversation later resolves
// against the fresh zone; then reminder parsing; everything else lands in
// namespaced memory.
func (i *Intake) Process(ctx context.Context, conversationID, text string) (*Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty message")
	}

	ns, err := i.namespaces.Resolve(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if tz, ok := timezone.FromText(text); ok {
		if err := i.prefs.Set(ctx, conversationID, tz); err != nil {
			return nil, err
		}
		return &Outcome{
			Kind:      OutcomeTimezone,
			Namespace: ns,
			Reply:     fmt.Sprintf("Timezone set to %s. Local time now: %s", tz, timezone.FormatLocal(i.now(), tz)),
		}, nil
	}

	_, tz, err := i.prefs.Location(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if result, ok := i.parser.Parse(text, tz, i.now()); ok {
		created, err := i.reminders.Create(ctx, conversationID, result.Message, result.DueAt, tz, result.LocalDisplay)
		if err != nil {
			return nil, err
		}
		// Echo the resolved local time and the exact stored text so the
		// user can spot a misparse immediately.
		return &Outcome{
			Kind:      OutcomeReminder,
			Namespace: ns,
			Reply:     fmt.Sprintf("Reminder set for %s: %s", result.LocalDisplay, created.Text),
		}, nil
	}

	if _, err := i.memory.Write(ctx, ns, text, map[string]string{
		"type":            "user_message",
		"conversation_id": conversationID,
	}); err != nil {
		return nil, err
	}

	recalled, err := i.memory.Query(ctx, ns, text, 5)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Kind:      OutcomeMemory,
		Namespace: ns,
		Recalled:  recalled,
	}, nil
}

// SetLocation infers and stores the conversation timezone from coordinates.
func (i *Intake) SetLocation(ctx context.Context, conversationID string, lat, lon float64) (string, error) {
	tz, ok := timezone.FromCoordinates(lat, lon)
	if !ok {
		return "", errors.Errorf("no timezone found for coordinates (%.4f, %.4f)", lat, lon)
	}
	if err := i.prefs.Set(ctx, conversationID, tz); err != nil {
		return "", err
	}
	return tz, nil
}
