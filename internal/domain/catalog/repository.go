package catalog

import "context"

// Repository defines persistence operations for catalog items.
type Repository interface {
	// List returns items matching the filter.
	List(ctx context.Context, f Filter) ([]Item, error)

	// GetByID returns an item by ID. Returns ErrItemNotFound when missing.
	GetByID(ctx context.Context, id string) (*Item, error)

	// IncrementDownloads adds one to the item's download counter.
	// There is no dedup: the same account may download repeatedly.
	IncrementDownloads(ctx context.Context, id string) error
}
