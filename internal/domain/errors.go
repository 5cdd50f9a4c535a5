package domain

import "errors"

var (
	// ErrBadRequest signals a malformed or missing client input.
	ErrBadRequest = errors.New("bad request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStoreError signals a vector store failure.
	ErrVectorStoreError = errors.New("vector store error")
	// ErrGenerationProviderError signals a generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)

// ErrorKind is a stable label for the origin of a pipeline failure.
// It is used in logs and metrics only, never returned to clients.
type ErrorKind string

const (
	// KindNone labels a successful outcome.
	KindNone ErrorKind = ""
	// KindBadRequest labels invalid client input.
	KindBadRequest ErrorKind = "bad_request"
	// KindUpstreamEmbedding labels embedding provider failures.
	KindUpstreamEmbedding ErrorKind = "upstream_embedding"
	// KindUpstreamVectorStore labels vector store failures.
	KindUpstreamVectorStore ErrorKind = "upstream_vector_store"
	// KindUpstreamGeneration labels generation provider failures.
	KindUpstreamGeneration ErrorKind = "upstream_generation"
	// KindInternal labels everything else.
	KindInternal ErrorKind = "internal"
)

// kindSentinels is checked in order; the first match wins.
var kindSentinels = []struct {
	sentinel error
	kind     ErrorKind
}{
	{ErrBadRequest, KindBadRequest},
	{ErrEmbeddingProviderError, KindUpstreamEmbedding},
	{ErrVectorStoreError, KindUpstreamVectorStore},
	{ErrGenerationProviderError, KindUpstreamGeneration},
}

// KindOf classifies err by the sentinel it wraps.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.sentinel) {
			return ks.kind
		}
	}
	return KindInternal
}
