// Package namespace partitions all memory and reminder state by conversation
// identity.
//
// A conversation lives in its implicit private namespace until it joins a
// link code; joining is open by design (possession of the code is the only
// credential) and unlinking restores the private namespace.
package namespace

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/recall/store"
)

const (
	// LinkPrefix marks namespaces shared through a link code.
	LinkPrefix = "link:"
	// PrivatePrefix marks the implicit per-conversation namespace.
	PrivatePrefix = "private:"

	// linkCodeLength is the length of generated link codes. Ten hex chars
	// (40 bits of a v4 UUID) make accidental collision negligible at
	// personal scale.
	linkCodeLength = 10
)

// ErrMalformedLinkCode is returned when a join names a code that could never
// have been issued.
var ErrMalformedLinkCode = errors.New("malformed link code")

// codePattern accepts issued codes and anything shaped like one. Joins are
// open, but garbage input still gets a clear rejection.
var codePattern = regexp.MustCompile(`^[a-z0-9]{4,64}$`)

// Resolver maps conversation identities to logical namespaces.
type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the store.
func NewResolver(st *store.Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: st, logger: logger}
}

// Resolve returns the namespace for a conversation: "link:"+code when an
// active mapping exists, otherwise the deterministic private namespace.
// Never empty, and private namespaces of distinct conversations never
// collide.
func (r *Resolver) Resolve(ctx context.Context, conversationID string) (string, error) {
	link, err := r.store.GetConversationLink(ctx, &store.FindConversationLink{
		ConversationID: conversationID,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve namespace")
	}
	if link != nil && link.LinkCode != "" {
		return LinkPrefix + link.LinkCode, nil
	}
	return PrivatePrefix + conversationID, nil
}

// CreateLink generates a fresh link code and immediately maps the issuing
// conversation to it (self-join).
func (r *Resolver) CreateLink(ctx context.Context, conversationID string) (string, error) {
	code := generateLinkCode()
	if err := r.Join(ctx, conversationID, code); err != nil {
		return "", err
	}

	r.logger.Info("link code created",
		slog.String("conversation_id", conversationID),
		slog.String("code", code))
	return code, nil
}

// Join unconditionally (re)maps the conversation to the given code. The code
// does not have to have been issued by CreateLink; any chat knowing the
// string may join it.
func (r *Resolver) Join(ctx context.Context, conversationID, code string) error {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return errors.Wrapf(ErrMalformedLinkCode, "%q", code)
	}

	if _, err := r.store.UpsertConversationLink(ctx, &store.ConversationLink{
		ConversationID: conversationID,
		LinkCode:       code,
	}); err != nil {
		return errors.Wrap(err, "failed to join link")
	}
	return nil
}

// Unlink removes the mapping, reverting the conversation to its private
// namespace. Idempotent: unlinking an unlinked conversation succeeds.
func (r *Resolver) Unlink(ctx context.Context, conversationID string) error {
	if err := r.store.DeleteConversationLink(ctx, &store.DeleteConversationLink{
		ConversationID: conversationID,
	}); err != nil {
		return errors.Wrap(err, "failed to unlink")
	}
	return nil
}

// generateLinkCode derives a short opaque code from a v4 UUID.
func generateLinkCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return hex[:linkCodeLength]
}
