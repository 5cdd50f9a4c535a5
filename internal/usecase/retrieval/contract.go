package retrieval

import (
	"context"

	"github.com/kailas-cloud/ragchat/internal/domain"
	"github.com/kailas-cloud/ragchat/internal/domain/chunk"
)

// Repository defines the storage contract for nearest-neighbor lookups.
type Repository interface {
	SearchKNN(ctx context.Context, collection string, vector []float32, topK int) ([]chunk.Chunk, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
