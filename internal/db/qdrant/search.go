package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/ragchat/internal/db"
)

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload any       `json:"with_payload"`
}

type searchResponse struct {
	Result []scoredPoint `json:"result"`
}

type scoredPoint struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
}

// SearchKNN runs a nearest-neighbor search on a collection.
// Qdrant returns hits ranked by score; the order is preserved.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	req := searchRequest{
		Vector:      q.Vector,
		Limit:       q.K,
		WithPayload: true,
	}
	if len(q.ReturnFields) > 0 {
		req.WithPayload = q.ReturnFields
	}

	endpoint := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, url.PathEscape(q.Collection))

	var resp searchResponse
	if err := s.doJSON(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return nil, &db.Error{Op: db.OpQdrantSearch, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(resp.Result))
	for _, p := range resp.Result {
		entries = append(entries, db.SearchEntry{
			Key:    pointID(p.ID),
			Score:  p.Score,
			Fields: stringFields(p.Payload),
		})
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// pointID renders a Qdrant point id (unsigned integer or UUID string).
func pointID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatUint(n, 10)
	}
	return string(raw)
}

// stringFields keeps string-valued payload entries only.
func stringFields(payload map[string]any) map[string]string {
	m := make(map[string]string, len(payload))
	for k, v := range payload {
		if s, ok := v.(string); ok {
			m[k] = s
		}
	}
	return m
}
