package db

import (
	"context"
	"time"
)

// Store is the vector store facade used by the composition root.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks vector store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher provides nearest-neighbor search over a collection.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
