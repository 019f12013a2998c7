package embedding

import (
	"context"
	"log/slog"
)

// Fetcher resolves an item's embedding vector: cache lookup first, provider
// call on a miss, then a best-effort cache write. Cache failures are never
// fatal; only provider failures surface to the caller.
type Fetcher struct {
	provider Provider
	cache    Cache
}

// NewFetcher creates a Fetcher. The cache may be nil, in which case every
// lookup goes to the provider.
func NewFetcher(provider Provider, cache Cache) *Fetcher {
	return &Fetcher{provider: provider, cache: cache}
}

// Vector returns the embedding for the item identified by itemID, embedding
// text on a cache miss.
func (f *Fetcher) Vector(ctx context.Context, itemID, text string) (Vector, error) {
	if f.cache != nil {
		vector, hit, err := f.cache.Get(ctx, itemID)
		if err != nil {
			slog.Warn("Embedding cache lookup failed, fetching directly", "item_id", itemID, "error", err)
		} else if hit {
			slog.Debug("Embedding cache hit", "item_id", itemID)
			return vector, nil
		}
	}

	slog.Debug("Embedding cache miss, calling provider", "item_id", itemID)
	vector, err := f.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Put(ctx, itemID, vector); err != nil {
			// Caching failure must not fail the request.
			slog.Warn("Failed to cache embedding", "item_id", itemID, "error", err)
		}
	}

	return vector, nil
}
