// Package memory wraps the vector memory store so every write and read is
// tagged and filtered by namespace.
//
// The router is the only safety boundary between tenants: a query can never
// return a document written under a different namespace, because the
// namespace filter is part of the API itself and no call path omits it.
package memory

import (
	"context"
	"log/slog"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// VectorStore is the opaque similarity store underneath the router. The
// search result shape is modeled loosely on purpose: depending on backend it
// may be a flat sequence of documents or a nested sequence of sequences, and
// the router normalizes either.
type VectorStore interface {
	Put(ctx context.Context, id, document string, metadata map[string]string) error
	Search(ctx context.Context, query string, limit int, filter map[string]string) ([]any, error)
}

// MetadataNamespaceKey is the metadata field carrying the tenant tag.
const MetadataNamespaceKey = "namespace"

// Router tags writes and filters reads by namespace.
type Router struct {
	store  VectorStore
	logger *slog.Logger
}

// NewRouter creates a namespace router over a vector store.
func NewRouter(store VectorStore, logger *slog.Logger) *Router {
	return &Router{store: store, logger: logger}
}

// Write stores a document under the namespace. The namespace tag is injected
// into the metadata before delegating, and the generated id is high-entropy
// so concurrent writers cannot collide.
func (r *Router) Write(ctx context.Context, namespace, document string, metadata map[string]string) (string, error) {
	if namespace == "" {
		return "", errors.New("namespace must not be empty")
	}

	tagged := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		tagged[k] = v
	}
	tagged[MetadataNamespaceKey] = namespace

	id := "mem_" + shortuuid.New()
	if err := r.store.Put(ctx, id, document, tagged); err != nil {
		return "", errors.Wrap(err, "failed to write memory")
	}

	r.logger.Debug("memory written",
		slog.String("id", id),
		slog.String(MetadataNamespaceKey, namespace))
	return id, nil
}

// Query runs a similarity search scoped to the namespace and returns a flat,
// ordered sequence of documents. The namespace filter is mandatory; there is
// no variant without it.
func (r *Router) Query(ctx context.Context, namespace, query string, limit int) ([]string, error) {
	if namespace == "" {
		return nil, errors.New("namespace must not be empty")
	}
	if limit <= 0 {
		limit = 5
	}

	raw, err := r.store.Search(ctx, query, limit, map[string]string{
		MetadataNamespaceKey: namespace,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to query memory")
	}

	return flattenDocuments(raw), nil
}

// flattenDocuments normalizes whatever nesting shape the backend returned
// into a flat ordered sequence of strings. Non-string entries are dropped.
func flattenDocuments(raw []any) []string {
	docs := make([]string, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			docs = append(docs, v)
		case []string:
			docs = append(docs, v...)
		case []any:
			docs = append(docs, flattenDocuments(v)...)
		}
	}
	return docs
}
