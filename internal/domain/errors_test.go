package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"bad request", fmt.Errorf("%w: question is required", ErrBadRequest), KindBadRequest},
		{"embedding", fmt.Errorf("vectorize: %w", ErrEmbeddingProviderError), KindUpstreamEmbedding},
		{"vector store", fmt.Errorf("search: %w: %w", ErrVectorStoreError, errors.New("conn refused")), KindUpstreamVectorStore},
		{"generation", fmt.Errorf("generate: %w", ErrGenerationProviderError), KindUpstreamGeneration},
		{"unknown", errors.New("boom"), KindInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf() = %q, want %q", got, tc.want)
			}
		})
	}
}
