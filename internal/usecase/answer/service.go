package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragchat/internal/domain"
	domanswer "github.com/kailas-cloud/ragchat/internal/domain/answer"
	"github.com/kailas-cloud/ragchat/internal/logger"
	"github.com/kailas-cloud/ragchat/internal/metrics"
)

// Service runs the linear pipeline: retrieve, format, generate.
type Service struct {
	retriever Retriever
	generator Generator
}

// New creates an answer service.
func New(retriever Retriever, generator Generator) *Service {
	return &Service{retriever: retriever, generator: generator}
}

// Answer never returns a bare error: every failure becomes a failure result,
// logged once here with its kind.
func (s *Service) Answer(ctx context.Context, question string) domanswer.Result {
	start := time.Now()

	text, err := s.run(ctx, question)
	if err != nil {
		kind := domain.KindOf(err)
		metrics.AnswersTotal.WithLabelValues("error", string(kind)).Inc()

		log := logger.FromContext(ctx)
		fields := []zap.Field{
			zap.String("error_kind", string(kind)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		}
		if kind == domain.KindBadRequest {
			log.Warn("Answer rejected", fields...)
		} else {
			log.Error("Answer failed", fields...)
		}
		return domanswer.Failure(err)
	}

	metrics.AnswersTotal.WithLabelValues("success", string(domain.KindNone)).Inc()
	logger.FromContext(ctx).Debug("Answer generated",
		zap.Duration("duration", time.Since(start)),
		zap.Int("answer_len", len(text)),
	)
	return domanswer.Success(text)
}

func (s *Service) run(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", domain.ErrBadRequest)
	}

	retrieved, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}

	prompt, err := FormatPrompt(retrieved, question)
	if err != nil {
		return "", err
	}

	gen, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return gen.Text, nil
}
