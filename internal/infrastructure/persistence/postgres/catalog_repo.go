package postgres

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/catalog"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CatalogRepository implements catalog.Repository for PostgreSQL.
type CatalogRepository struct {
	q Querier
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(q Querier) *CatalogRepository {
	return &CatalogRepository{q: q}
}

const catalogColumns = `
	id, title, subject, content_type, payload_ref,
	grade_level, language, download_count, created_at
`

// List returns items matching the filter. Language always filters;
// grade and subject are appended only when active.
func (r *CatalogRepository) List(ctx context.Context, f catalog.Filter) ([]catalog.Item, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE language = $1`
	args := []interface{}{f.Language}

	if f.FiltersGrade() {
		args = append(args, f.Grade)
		query += fmt.Sprintf(" AND grade_level = $%d", len(args))
	}
	if f.FiltersSubject() {
		args = append(args, f.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}

	query += " ORDER BY title ASC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var item catalog.Item

		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Subject,
			&item.ContentType,
			&item.PayloadRef,
			&item.GradeLevel,
			&item.Language,
			&item.DownloadCount,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

// GetByID returns an item by ID.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Item, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE id = $1`

	var item catalog.Item
	err := r.q.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Subject,
		&item.ContentType,
		&item.PayloadRef,
		&item.GradeLevel,
		&item.Language,
		&item.DownloadCount,
		&item.CreatedAt,
	)

	if IsNoRows(err) {
		return nil, catalog.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}

	return &item, nil
}

// IncrementDownloads adds one to the item's download counter.
func (r *CatalogRepository) IncrementDownloads(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx,
		`UPDATE catalog_items SET download_count = download_count + 1 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment downloads: %w", err)
	}

	if result.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}

	return nil
}
