package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MockNotifier is an in-memory Notifier for tests.
type MockNotifier struct {
	SentMessages []SentMessage
	ShouldFail   bool
	mu           sync.Mutex
}

// SentMessage represents a message that was sent.
type SentMessage struct {
	ConversationID string
	Message        string
	SentAt         time.Time
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		SentMessages: make([]SentMessage, 0),
	}
}

// Notify records a sent message, or fails when ShouldFail is set.
func (n *MockNotifier) Notify(_ context.Context, conversationID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.ShouldFail {
		return errors.New("mock notifier failure")
	}

	n.SentMessages = append(n.SentMessages, SentMessage{
		ConversationID: conversationID,
		Message:        message,
		SentAt:         time.Now(),
	})
	return nil
}

// SentCount returns the number of messages sent.
func (n *MockNotifier) SentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.SentMessages)
}

// SetShouldFail toggles failure mode.
func (n *MockNotifier) SetShouldFail(fail bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ShouldFail = fail
}

// Sent returns a copy of the messages sent so far.
func (n *MockNotifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentMessage, len(n.SentMessages))
	copy(out, n.SentMessages)
	return out
}
