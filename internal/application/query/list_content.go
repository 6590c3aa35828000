package query

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/catalog"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST CONTENT QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListContentQuery contains catalog filters. Language is required;
// grade and subject are optional ("All" subject matches everything).
type ListContentQuery struct {
	Language string
	Grade    int
	Subject  string
}

// ListContentResult contains the matching catalog items.
type ListContentResult struct {
	Items []catalog.Item
}

// ListContentHandler handles the ListContentQuery.
type ListContentHandler struct {
	items catalog.Repository
}

// NewListContentHandler creates a new ListContentHandler.
func NewListContentHandler(items catalog.Repository) *ListContentHandler {
	return &ListContentHandler{items: items}
}

// Handle returns catalog items matching the filters.
func (h *ListContentHandler) Handle(ctx context.Context, q ListContentQuery) (*ListContentResult, error) {
	filter := catalog.Filter{
		Language: q.Language,
		Grade:    q.Grade,
		Subject:  q.Subject,
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, err := h.items.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list_content: %w", err)
	}

	return &ListContentResult{Items: items}, nil
}
