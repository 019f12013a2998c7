package similarity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/readnext/internal/catalog"
	"github.com/lepinkainen/readnext/internal/errors"
	"github.com/lepinkainen/readnext/internal/retry"
)

// DefaultMaxCandidates caps the candidate pool loaded per request. The cap
// trades recall for bounded embedding cost; it is not a correctness knob.
const DefaultMaxCandidates = 100

// Service orchestrates the three ranking engines with graceful fallback:
// semantic first, then lexical when the reference has descriptive text,
// metadata otherwise. Provider failures never reach the caller.
type Service struct {
	store         catalog.Store
	vectors       VectorSource
	maxCandidates int
}

// Option configures a Service.
type Option func(*Service)

// WithMaxCandidates overrides the candidate pool cap.
func WithMaxCandidates(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCandidates = n
		}
	}
}

// NewService creates the similarity orchestrator. vectors may be nil, which
// disables the semantic engine and always uses the fallback path.
func NewService(store catalog.Store, vectors VectorSource, opts ...Option) *Service {
	s := &Service{
		store:         store,
		vectors:       vectors,
		maxCandidates: DefaultMaxCandidates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindSimilar returns up to limit items from the partition ranked by
// similarity to the item identified by refID.
func (s *Service) FindSimilar(ctx context.Context, refID string, partition catalog.Partition, limit int) ([]catalog.Item, error) {
	if refID == "" {
		return nil, errors.NewValidationError("reference id must not be empty")
	}
	if limit <= 0 {
		return nil, errors.NewValidationError("limit must be positive")
	}
	if _, err := catalog.ParsePartition(string(partition)); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	reference, err := retry.DoValue(ctx, "get reference", func() (*catalog.Item, error) {
		return s.store.GetItem(ctx, refID, partition)
	})
	if err != nil {
		return nil, err
	}
	if reference == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("item %q not found in partition %q", refID, partition))
	}

	candidates, err := retry.DoValue(ctx, "list candidates", func() ([]catalog.Item, error) {
		return s.store.ListCandidates(ctx, partition, refID, s.maxCandidates)
	})
	if err != nil {
		return nil, err
	}

	if s.vectors != nil {
		ranked, err := RankByEmbedding(ctx, s.vectors, *reference, candidates, limit)
		if err == nil {
			return ranked, nil
		}
		// Embedding-provider trouble is never the caller's problem; the
		// lexical and metadata engines still produce a useful answer.
		slog.Warn("Semantic ranking failed, falling back",
			"reference", refID, "error", err)
	}

	if reference.HasText() {
		withText, err := retry.DoValue(ctx, "list items with text", func() ([]catalog.Item, error) {
			return s.store.ListItemsWithText(ctx, partition, refID, s.maxCandidates)
		})
		if err != nil {
			return nil, err
		}
		return RankByDescription(*reference, withText, limit), nil
	}

	return RankByMetadata(*reference, candidates, limit), nil
}
