package memory

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"github.com/pkg/errors"
)

// collectionName is the single chromem collection all namespaces share;
// isolation happens through metadata filtering, not separate collections.
const collectionName = "recall_memory"

// ChromemStore is a VectorStore backed by chromem-go, a pure Go embedded
// vector database.
type ChromemStore struct {
	collection *chromem.Collection
}

// NewChromemStore opens (or creates) the memory collection. An empty path
// keeps everything in memory, which tests use. The embedding function is
// injected; embeddings are an external concern.
func NewChromemStore(path string, embed chromem.EmbeddingFunc) (*ChromemStore, error) {
	var (
		db  *chromem.DB
		err error
	)
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open memory store")
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open memory collection")
	}

	return &ChromemStore{collection: collection}, nil
}

// Put stores one document with its metadata.
func (s *ChromemStore) Put(ctx context.Context, id, document string, metadata map[string]string) error {
	return s.collection.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  document,
		Metadata: metadata,
	})
}

// Search runs a similarity query with a metadata equality filter. chromem
// rejects result counts larger than the (filtered) document count, so the
// limit is walked down until the query fits.
func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter map[string]string) ([]any, error) {
	total := s.collection.Count()
	if total == 0 {
		return nil, nil
	}
	if limit > total {
		limit = total
	}

	var results []chromem.Result
	for n := limit; n >= 1; n-- {
		var err error
		results, err = s.collection.Query(ctx, query, n, filter, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) {
			if n == 1 {
				// Nothing under this filter.
				return nil, nil
			}
			continue
		}
		return nil, errors.Wrap(err, "memory search failed")
	}

	docs := make([]any, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Content)
	}
	return docs, nil
}

// isInsufficientDocsError reports whether the error is chromem complaining
// that nResults exceeds the matching document count.
func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults") || strings.Contains(msg, "number of documents")
}

// NewHashEmbedding returns a deterministic, dependency-free embedding
// function. It is no substitute for a learned embedding, but it gives the
// router exact-ish lexical similarity without any external service, which is
// all the offline default and the tests need.
func NewHashEmbedding(dimensions int) chromem.EmbeddingFunc {
	if dimensions <= 0 {
		dimensions = 128
	}
	return func(_ context.Context, text string) ([]float32, error) {
		vector := make([]float32, dimensions)
		for _, token := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(token))
			vector[h.Sum32()%uint32(dimensions)]++
		}

		var norm float64
		for _, v := range vector {
			norm += float64(v) * float64(v)
		}
		if norm == 0 {
			vector[0] = 1
			return vector, nil
		}
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
		return vector, nil
	}
}
