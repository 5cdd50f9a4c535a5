package answer

import (
	"context"

	"github.com/kailas-cloud/ragchat/internal/domain"
)

// Retriever builds the context string for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (string, error)
}

// Generator produces model output for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
