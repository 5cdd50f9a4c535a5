package chunk

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/ragchat/internal/db"
	"github.com/kailas-cloud/ragchat/internal/domain"
	"github.com/kailas-cloud/ragchat/internal/domain/chunk"
	"github.com/kailas-cloud/ragchat/internal/metrics"
)

// DefaultTextField is the payload key holding chunk text.
const DefaultTextField = "text"

// store is the consumer interface for KNN lookups (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/retrieval.Repository.
type Repo struct {
	store     store
	textField string
}

// New creates a chunk repository reading text from textField.
func New(s store, textField string) *Repo {
	if textField == "" {
		textField = DefaultTextField
	}
	return &Repo{store: s, textField: textField}
}

// TextField returns the payload key this repository reads.
func (r *Repo) TextField() string { return r.textField }

// SearchKNN returns up to topK chunks nearest to vector, in store order.
func (r *Repo) SearchKNN(
	ctx context.Context, collection string, vector []float32, topK int,
) ([]chunk.Chunk, error) {
	q := &db.KNNQuery{
		Collection:   collection,
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{r.textField},
	}

	start := time.Now()
	sr, err := r.store.SearchKNN(ctx, q)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.VectorSearchDuration.WithLabelValues(collection, status).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w: %w", collection, domain.ErrVectorStoreError, err)
	}

	return r.toChunks(sr), nil
}

func (r *Repo) toChunks(sr *db.SearchResult) []chunk.Chunk {
	if sr == nil {
		return nil
	}
	out := make([]chunk.Chunk, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		text, ok := e.Fields[r.textField]
		if !ok {
			out = append(out, chunk.WithoutText(e.Key, e.Score))
			continue
		}
		out = append(out, chunk.New(e.Key, e.Score, text))
	}
	return out
}
