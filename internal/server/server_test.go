package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/readnext/internal/catalog"
	"github.com/lepinkainen/readnext/internal/similarity"
	"github.com/lepinkainen/readnext/internal/weekly"
)

// memStore is a minimal in-memory catalog.Store for handler tests.
type memStore struct {
	items []catalog.Item
}

func (s *memStore) GetItem(_ context.Context, id string, partition catalog.Partition) (*catalog.Item, error) {
	for _, item := range s.items {
		if item.ID == id && item.Partition == partition {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListItems(_ context.Context, partition catalog.Partition) ([]catalog.Item, error) {
	var items []catalog.Item
	for _, item := range s.items {
		if item.Partition == partition {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *memStore) ListCandidates(_ context.Context, partition catalog.Partition, excludeID string, limit int) ([]catalog.Item, error) {
	var items []catalog.Item
	for _, item := range s.items {
		if item.Partition == partition && item.ID != excludeID && len(items) < limit {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *memStore) ListItemsWithText(ctx context.Context, partition catalog.Partition, excludeID string, limit int) ([]catalog.Item, error) {
	candidates, err := s.ListCandidates(ctx, partition, excludeID, limit)
	if err != nil {
		return nil, err
	}
	var items []catalog.Item
	for _, item := range candidates {
		if item.HasText() {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *memStore) ListAll(_ context.Context) ([]catalog.Item, error) {
	sorted := make([]catalog.Item, len(s.items))
	copy(sorted, s.items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Title < sorted[j].Title })
	return sorted, nil
}

func (s *memStore) UpsertItems(_ context.Context, items []catalog.Item) error {
	s.items = append(s.items, items...)
	return nil
}

func newTestServer(store catalog.Store) *httptest.Server {
	svc := similarity.NewService(store, nil)
	selector := weekly.NewSelector(store, weekly.WithClock(func() time.Time {
		return time.UnixMilli(3000 * 7 * 24 * 60 * 60 * 1000)
	}))
	return httptest.NewServer(New(":0", svc, selector).Router())
}

func seededStore() *memStore {
	return &memStore{items: []catalog.Item{
		{ID: "b1", Title: "Intro to X", Creator: "A. Smith", Partition: catalog.PartitionWantToRead},
		{ID: "b2", Title: "Intro to Y", Creator: "A. Smith", Partition: catalog.PartitionWantToRead},
		{ID: "b3", Title: "Unrelated", Creator: "Z", Partition: catalog.PartitionWantToRead},
	}}
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(seededStore())
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSimilarEndpoint(t *testing.T) {
	ts := newTestServer(seededStore())
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/api/similar?id=b1&partition=want-to-read&limit=2")
	require.Equal(t, http.StatusOK, status)

	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "b2", first["id"])
}

func TestSimilarMissingID(t *testing.T) {
	ts := newTestServer(seededStore())
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/api/similar?partition=owned")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "id")
}

func TestSimilarInvalidPartition(t *testing.T) {
	ts := newTestServer(seededStore())
	defer ts.Close()

	status, _ := getJSON(t, ts.URL+"/api/similar?id=b1&partition=bogus")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSimilarInvalidLimit(t *testing.T) {
	ts := newTestServer(seededStore())
	defer ts.Close()

	status, _ := getJSON(t, ts.URL+"/api/similar?id=b1&partition=want-to-read&limit=-3")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSimilarUnknownItem(t *testing.T) {
	ts := newTestServer(seededStore())
	defer ts.Close()

	status, _ := getJSON(t, ts.URL+"/api/similar?id=nope&partition=want-to-read")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWeeklyEndpoint(t *testing.T) {
	ts := newTestServer(seededStore())
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/api/weekly")
	require.Equal(t, http.StatusOK, status)

	item, ok := body["item"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, item["id"])
}

func TestWeeklyEmptyCatalog(t *testing.T) {
	ts := newTestServer(&memStore{})
	defer ts.Close()

	status, _ := getJSON(t, ts.URL+"/api/weekly")
	assert.Equal(t, http.StatusNotFound, status)
}
