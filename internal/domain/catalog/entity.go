// Package catalog contains the offline-content catalog domain model:
// a filterable listing of downloadable learning items. Payloads are
// opaque references; the catalog never parses or serves them.
package catalog

import (
	"errors"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrInvalidTitle    = errors.New("catalog: title is required")
	ErrInvalidLanguage = errors.New("catalog: language is required")
	ErrItemNotFound    = errors.New("catalog: item not found")
)

// AllSubjects is the sentinel that bypasses the subject filter.
const AllSubjects = "All"

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG ITEM
// ══════════════════════════════════════════════════════════════════════════════

// Item is one downloadable learning item. Only the download counter
// is ever mutated after creation.
type Item struct {
	ID          string
	Title       string
	Subject     string
	ContentType string // e.g., "PDF", "Game", "Flashcards"

	// PayloadRef points at the stored content (a file name or URL).
	// The catalog treats it as opaque.
	PayloadRef string

	GradeLevel    int
	Language      string
	DownloadCount int
	CreatedAt     time.Time
}

// NewItem creates a validated catalog item with a zero download count.
func NewItem(id, title, subject, contentType, payloadRef string, gradeLevel int, language string) (*Item, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}
	if strings.TrimSpace(language) == "" {
		return nil, ErrInvalidLanguage
	}

	return &Item{
		ID:          id,
		Title:       title,
		Subject:     subject,
		ContentType: contentType,
		PayloadRef:  payloadRef,
		GradeLevel:  gradeLevel,
		Language:    language,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FILTER
// ══════════════════════════════════════════════════════════════════════════════

// Filter selects catalog items. Language is required and matched
// exactly; grade and subject are optional. Subject "All" (or empty)
// matches every subject.
type Filter struct {
	Language string
	Grade    int    // 0 means any grade
	Subject  string // empty or AllSubjects means any subject
}

// Validate checks the filter.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.Language) == "" {
		return ErrInvalidLanguage
	}
	return nil
}

// FiltersSubject reports whether the subject filter is active.
func (f Filter) FiltersSubject() bool {
	return f.Subject != "" && f.Subject != AllSubjects
}

// FiltersGrade reports whether the grade filter is active.
func (f Filter) FiltersGrade() bool {
	return f.Grade != 0
}

// Matches reports whether an item passes the filter.
func (f Filter) Matches(item Item) bool {
	if item.Language != f.Language {
		return false
	}
	if f.FiltersGrade() && item.GradeLevel != f.Grade {
		return false
	}
	if f.FiltersSubject() && item.Subject != f.Subject {
		return false
	}
	return true
}
