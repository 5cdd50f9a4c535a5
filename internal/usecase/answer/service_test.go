package answer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/ragchat/internal/domain"
	"github.com/kailas-cloud/ragchat/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterUpstreamMetrics()
	os.Exit(m.Run())
}

type mockRetriever struct {
	context string
	err     error
	calls   int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.context, m.err
}

type mockGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.GenerationResult, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return domain.GenerationResult{Text: m.text}, nil
}

func TestAnswer_WhatIsRAG(t *testing.T) {
	ret := &mockRetriever{context: "RAG combines retrieval and generation.\nIt reduces hallucination."}
	gen := &mockGenerator{text: "RAG is retrieval-augmented generation."}
	svc := New(ret, gen)

	res := svc.Answer(context.Background(), "What is RAG?")
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Err())
	}
	if res.Text() != "RAG is retrieval-augmented generation." {
		t.Errorf("unexpected text: %q", res.Text())
	}
	if res.Err() != nil {
		t.Errorf("success result must not carry an error")
	}
	if !strings.Contains(gen.prompts[0], "Context: RAG combines retrieval and generation.\nIt reduces hallucination.") {
		t.Errorf("prompt missing context: %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "Question: What is RAG?") {
		t.Errorf("prompt missing question: %q", gen.prompts[0])
	}
}

func TestAnswer_EmptyContextStillGenerates(t *testing.T) {
	ret := &mockRetriever{}
	gen := &mockGenerator{text: "I don't know."}
	svc := New(ret, gen)

	res := svc.Answer(context.Background(), "Unrelated?")
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Err())
	}
	if gen.calls != 1 {
		t.Fatalf("expected generation to run once, got %d", gen.calls)
	}
	if !strings.Contains(gen.prompts[0], "Context: \n") {
		t.Errorf("expected empty context slot, got %q", gen.prompts[0])
	}
}

func TestAnswer_GenerationError(t *testing.T) {
	gen := &mockGenerator{err: fmt.Errorf("quota: %w", domain.ErrGenerationProviderError)}
	svc := New(&mockRetriever{context: "ctx"}, gen)

	before := testutil.ToFloat64(metrics.AnswersTotal.WithLabelValues("error", "upstream_generation"))

	res := svc.Answer(context.Background(), "What is RAG?")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Text() != "" {
		t.Errorf("failure must not carry text, got %q", res.Text())
	}
	if res.Kind() != domain.KindUpstreamGeneration {
		t.Errorf("expected kind %q, got %q", domain.KindUpstreamGeneration, res.Kind())
	}

	after := testutil.ToFloat64(metrics.AnswersTotal.WithLabelValues("error", "upstream_generation"))
	if after-before != 1 {
		t.Errorf("expected error counter +1, got %f", after-before)
	}
}

func TestAnswer_RetrievalError(t *testing.T) {
	ret := &mockRetriever{err: fmt.Errorf("search: %w", domain.ErrVectorStoreError)}
	gen := &mockGenerator{text: "unused"}
	svc := New(ret, gen)

	res := svc.Answer(context.Background(), "What is RAG?")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !errors.Is(res.Err(), domain.ErrVectorStoreError) {
		t.Errorf("expected ErrVectorStoreError, got %v", res.Err())
	}
	if gen.calls != 0 {
		t.Errorf("expected no generation after retrieval failure, got %d calls", gen.calls)
	}
}

func TestAnswer_BlankQuestion(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		ret := &mockRetriever{}
		gen := &mockGenerator{}
		svc := New(ret, gen)

		res := svc.Answer(context.Background(), q)
		if res.OK() {
			t.Fatalf("expected failure for %q", q)
		}
		if res.Kind() != domain.KindBadRequest {
			t.Errorf("expected bad_request for %q, got %q", q, res.Kind())
		}
		if ret.calls != 0 || gen.calls != 0 {
			t.Errorf("expected no upstream calls for %q", q)
		}
	}
}

func TestAnswer_TwiceIsIndependent(t *testing.T) {
	ret := &mockRetriever{context: "ctx"}
	gen := &mockGenerator{text: "same"}
	svc := New(ret, gen)

	for i := range 2 {
		if res := svc.Answer(context.Background(), "What is RAG?"); !res.OK() {
			t.Fatalf("run %d failed: %v", i, res.Err())
		}
	}
	if ret.calls != 2 || gen.calls != 2 {
		t.Errorf("expected two full runs, got retrieve=%d generate=%d", ret.calls, gen.calls)
	}
}
