package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragchat/internal/logger"
	"github.com/kailas-cloud/ragchat/internal/metrics"
)

// DefaultTopK is the number of neighbors fetched per question.
const DefaultTopK = 5

// Separator joins chunk texts into one context string.
const Separator = "\n"

// Service turns a question into a context string built from similar chunks.
type Service struct {
	repo       Repository
	embed      Embedder
	collection string
	topK       int
}

// New creates a retrieval service over a single collection.
func New(repo Repository, embed Embedder, collection string) *Service {
	return &Service{repo: repo, embed: embed, collection: collection, topK: DefaultTopK}
}

// WithTopK overrides the neighbor count. Non-positive values keep the default.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// Collection returns the searched collection name.
func (s *Service) Collection() string { return s.collection }

// Retrieve embeds the question, fetches the top-K chunks and joins their text
// in store order. Zero hits yield an empty context, not an error.
func (s *Service) Retrieve(ctx context.Context, question string) (string, error) {
	embResult, err := s.embed.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("vectorize query: %w", err)
	}

	chunks, err := s.repo.SearchKNN(ctx, s.collection, embResult.Embedding, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	log := logger.FromContext(ctx)
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if !c.HasText() {
			metrics.RetrievalMissingTextTotal.WithLabelValues(s.collection).Inc()
			log.Debug("Skipping hit without text payload",
				zap.String("collection", s.collection),
				zap.String("id", c.ID()),
				zap.Float64("score", c.Score()),
			)
			continue
		}
		texts = append(texts, c.Text())
	}
	metrics.RetrievedChunks.WithLabelValues(s.collection).Observe(float64(len(texts)))

	log.Debug("Context retrieved",
		zap.String("collection", s.collection),
		zap.Int("hits", len(chunks)),
		zap.Int("chunks", len(texts)),
	)

	return strings.Join(texts, Separator), nil
}
