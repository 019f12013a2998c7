// Package embedding obtains and caches dense vector representations of
// catalog item text from an external embedding provider.
package embedding

import "context"

// Vector is one embedding: an ordered sequence of floats with fixed
// dimensionality per provider model.
type Vector []float64

// Provider turns text into an embedding vector. Implementations call an
// external service and must be treated as fallible and latency-bound.
type Provider interface {
	Embed(ctx context.Context, text string) (Vector, error)
}

// Cache is a best-effort store for embedding vectors keyed by item id.
// A miss is the normal path, never an error.
type Cache interface {
	Get(ctx context.Context, itemID string) (Vector, bool, error)
	Put(ctx context.Context, itemID string, vector Vector) error
}
