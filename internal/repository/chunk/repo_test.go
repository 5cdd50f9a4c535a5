package chunk

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/ragchat/internal/db"
	"github.com/kailas-cloud/ragchat/internal/domain"
)

func TestSearchKNN_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.Collection != "docs" {
			t.Errorf("unexpected collection: %s", q.Collection)
		}
		if q.K != 5 {
			t.Errorf("unexpected K: %d", q.K)
		}
		if len(q.ReturnFields) != 1 || q.ReturnFields[0] != "text" {
			t.Errorf("unexpected return fields: %v", q.ReturnFields)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "1", Score: 0.91, Fields: map[string]string{"text": "RAG combines retrieval and generation."}},
				{Key: "2", Score: 0.84, Fields: map[string]string{"text": "It reduces hallucination."}},
			},
		}, nil
	}

	chunks, err := repo.SearchKNN(context.Background(), "docs", testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].ID() != "1" || chunks[0].Text() != "RAG combines retrieval and generation." {
		t.Errorf("unexpected first chunk: %+v", chunks[0])
	}
	if chunks[1].Score() != 0.84 || !chunks[1].HasText() {
		t.Errorf("unexpected second chunk: %+v", chunks[1])
	}
}

func TestSearchKNN_MissingTextField(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Entries: []db.SearchEntry{
			{Key: "a", Score: 0.5, Fields: map[string]string{"title": "no text here"}},
			{Key: "b", Score: 0.4, Fields: map[string]string{"text": ""}},
		}}, nil
	}

	chunks, err := repo.SearchKNN(context.Background(), "docs", testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks[0].HasText() {
		t.Error("expected first chunk without text")
	}
	if !chunks[1].HasText() || chunks[1].Text() != "" {
		t.Error("expected second chunk with empty text")
	}
}

func TestSearchKNN_CustomTextField(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "content")
	if repo.TextField() != "content" {
		t.Fatalf("unexpected text field: %s", repo.TextField())
	}
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.ReturnFields[0] != "content" {
			t.Errorf("unexpected return field: %v", q.ReturnFields)
		}
		return &db.SearchResult{Entries: []db.SearchEntry{
			{Key: "a", Fields: map[string]string{"content": "hello"}},
		}}, nil
	}

	chunks, err := repo.SearchKNN(context.Background(), "docs", testVector(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks[0].Text() != "hello" {
		t.Errorf("unexpected text: %q", chunks[0].Text())
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	chunks, err := repo.SearchKNN(context.Background(), "docs", testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	storeErr := &db.Error{Op: db.OpQdrantSearch, Err: errors.New("connection refused")}
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, storeErr
	}

	_, err := repo.SearchKNN(context.Background(), "docs", testVector(), 5)
	if !errors.Is(err, domain.ErrVectorStoreError) {
		t.Fatalf("expected ErrVectorStoreError, got %v", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpQdrantSearch {
		t.Errorf("expected wrapped db.Error, got %v", err)
	}
}
