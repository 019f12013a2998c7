package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	vectors map[string]Vector
	err     error
	calls   int
}

func (p *fakeProvider) Embed(_ context.Context, text string) (Vector, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	return Vector{1, 2, 3}, nil
}

type fakeCache struct {
	entries map[string]Vector
	getErr  error
	putErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]Vector{}}
}

func (c *fakeCache) Get(_ context.Context, itemID string) (Vector, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[itemID]
	return v, ok, nil
}

func (c *fakeCache) Put(_ context.Context, itemID string, vector Vector) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[itemID] = vector
	return nil
}

func TestFetcherUsesCacheHit(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeCache()
	cache.entries["item-1"] = Vector{9, 9}

	fetcher := NewFetcher(provider, cache)
	vector, err := fetcher.Vector(context.Background(), "item-1", "some text")

	require.NoError(t, err)
	assert.Equal(t, Vector{9, 9}, vector)
	assert.Equal(t, 0, provider.calls)
}

func TestFetcherStoresOnMiss(t *testing.T) {
	provider := &fakeProvider{vectors: map[string]Vector{"some text": {1, 0}}}
	cache := newFakeCache()

	fetcher := NewFetcher(provider, cache)
	vector, err := fetcher.Vector(context.Background(), "item-1", "some text")

	require.NoError(t, err)
	assert.Equal(t, Vector{1, 0}, vector)
	assert.Equal(t, Vector{1, 0}, cache.entries["item-1"])
}

func TestFetcherCacheGetFailureFallsThrough(t *testing.T) {
	provider := &fakeProvider{vectors: map[string]Vector{"text": {2, 2}}}
	cache := newFakeCache()
	cache.getErr = errors.New("cache unavailable")

	fetcher := NewFetcher(provider, cache)
	vector, err := fetcher.Vector(context.Background(), "item-1", "text")

	require.NoError(t, err)
	assert.Equal(t, Vector{2, 2}, vector)
}

func TestFetcherCachePutFailureIsNotFatal(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeCache()
	cache.putErr = errors.New("disk full")

	fetcher := NewFetcher(provider, cache)
	_, err := fetcher.Vector(context.Background(), "item-1", "text")
	require.NoError(t, err)
}

func TestFetcherProviderFailurePropagates(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider down")}

	fetcher := NewFetcher(provider, newFakeCache())
	_, err := fetcher.Vector(context.Background(), "item-1", "text")
	require.Error(t, err)
}

func TestFetcherNilCache(t *testing.T) {
	provider := &fakeProvider{}

	fetcher := NewFetcher(provider, nil)
	vector, err := fetcher.Vector(context.Background(), "item-1", "text")

	require.NoError(t, err)
	assert.Equal(t, Vector{1, 2, 3}, vector)
	assert.Equal(t, 1, provider.calls)
}
