// Package weekly picks one backlog item per calendar week, deterministically
// and without persisting any state.
package weekly

import (
	"context"
	"time"

	"github.com/lepinkainen/readnext/internal/catalog"
	"github.com/lepinkainen/readnext/internal/errors"
	"github.com/lepinkainen/readnext/internal/retry"
)

// weekMillis is the length of the selection window.
const weekMillis = 7 * 24 * 60 * 60 * 1000

// Selector chooses the weekly recommendation from the whole catalog.
// The pick is stable within one calendar week and rotates predictably across
// weeks; this is a reproducible hash on time, intentionally nothing like a
// random draw.
type Selector struct {
	store catalog.Store
	now   func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithClock overrides the time source, used by tests to pin the week.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		s.now = now
	}
}

// NewSelector creates a weekly Selector over the given store.
func NewSelector(store catalog.Store, opts ...Option) *Selector {
	s := &Selector{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pick returns this week's recommendation. Candidates come from the first
// non-empty availability tier: borrowable from the library first, then
// available as ebook, then the whole catalog. It fails with NotFoundError
// only when the catalog is completely empty.
func (s *Selector) Pick(ctx context.Context) (catalog.Item, error) {
	items, err := retry.DoValue(ctx, "list all items", func() ([]catalog.Item, error) {
		return s.store.ListAll(ctx)
	})
	if err != nil {
		return catalog.Item{}, err
	}
	if len(items) == 0 {
		return catalog.Item{}, errors.NewNotFoundError("catalog is empty, nothing to recommend")
	}

	candidates := firstNonEmptyTier(items)

	week := s.now().UnixMilli() / weekMillis
	idx := int(week % int64(len(candidates)))
	if idx < 0 {
		idx += len(candidates)
	}

	return candidates[idx], nil
}

// firstNonEmptyTier partitions items into priority tiers and returns the
// first tier with at least one member. items arrive title-sorted from the
// store and filtering preserves that order.
func firstNonEmptyTier(items []catalog.Item) []catalog.Item {
	tiers := []func(catalog.Item) bool{
		func(i catalog.Item) bool { return i.Availability.Library },
		func(i catalog.Item) bool { return i.Availability.Ebook },
		func(catalog.Item) bool { return true },
	}

	for _, match := range tiers {
		var tier []catalog.Item
		for _, item := range items {
			if match(item) {
				tier = append(tier, item)
			}
		}
		if len(tier) > 0 {
			return tier
		}
	}
	return nil
}
