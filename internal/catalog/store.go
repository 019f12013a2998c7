package catalog

import "context"

// Store is the read/write contract the recommendation core depends on.
// Implementations must normalize storage-level Yes/No availability encodings
// to booleans; the core never sees the raw encoding.
type Store interface {
	// GetItem returns the item with the given id in the given partition, or
	// nil when no such item exists. Absence is not an error.
	GetItem(ctx context.Context, id string, partition Partition) (*Item, error)

	// ListItems returns all items in the given partition.
	ListItems(ctx context.Context, partition Partition) ([]Item, error)

	// ListCandidates returns up to limit items in the partition excluding
	// excludeID, in stable (title, id) order.
	ListCandidates(ctx context.Context, partition Partition, excludeID string, limit int) ([]Item, error)

	// ListItemsWithText is ListCandidates restricted to items with non-empty
	// descriptive text.
	ListItemsWithText(ctx context.Context, partition Partition, excludeID string, limit int) ([]Item, error)

	// ListAll returns every item across both partitions sorted by title
	// (ties broken by id), as required by the weekly selector.
	ListAll(ctx context.Context) ([]Item, error)

	// UpsertItems inserts or replaces the given items in one transaction.
	UpsertItems(ctx context.Context, items []Item) error
}
