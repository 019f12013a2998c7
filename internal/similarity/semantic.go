package similarity

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/lepinkainen/readnext/internal/catalog"
	"github.com/lepinkainen/readnext/internal/embedding"
)

// failedScore marks a candidate whose embedding lookup failed. Such
// candidates are excluded from the ranked output entirely; one bad candidate
// must not fail the whole request.
const failedScore = -1.0

// VectorSource resolves an item's embedding vector. *embedding.Fetcher is
// the production implementation.
type VectorSource interface {
	Vector(ctx context.Context, itemID, text string) (embedding.Vector, error)
}

// RankByEmbedding ranks candidates by cosine similarity of embedding vectors.
// Candidate embeddings are fetched concurrently; per-candidate failures only
// drop that candidate. A failure to embed the reference itself is returned to
// the caller so the orchestrator can fall back to another engine.
func RankByEmbedding(ctx context.Context, source VectorSource, reference catalog.Item, candidates []catalog.Item, limit int) ([]catalog.Item, error) {
	if limit <= 0 || len(candidates) == 0 {
		return []catalog.Item{}, nil
	}

	refVector, err := source.Vector(ctx, reference.ID, reference.Document())
	if err != nil {
		return nil, err
	}

	scored := make([]scoredItem, len(candidates))
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate catalog.Item) {
			defer wg.Done()

			vector, err := source.Vector(ctx, candidate.ID, candidate.Document())
			if err != nil {
				slog.Warn("Candidate embedding failed, excluding from ranking",
					"item_id", candidate.ID, "error", err)
				scored[i] = scoredItem{item: candidate, score: failedScore}
				return
			}
			scored[i] = scoredItem{item: candidate, score: Cosine(refVector, vector)}
		}(i, candidate)
	}
	wg.Wait()

	ranked := make([]scoredItem, 0, len(scored))
	for _, s := range scored {
		if s.score == failedScore {
			continue
		}
		ranked = append(ranked, s)
	}

	slog.Debug("Semantic ranking complete",
		"reference", reference.ID, "candidates", len(candidates), "ranked", len(ranked))

	return takeTop(ranked, limit), nil
}

// Cosine returns the cosine similarity of two vectors: dot(a,b)/(|a|*|b|).
// It is 0 when either vector has zero magnitude or when the dimensions
// disagree, so a degenerate vector can never poison a ranking with NaN.
func Cosine(a, b embedding.Vector) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
