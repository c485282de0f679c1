package store

import (
	"context"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
)

// BookFilter narrows ListBooks results. Zero value matches everything;
// populated fields compose with logical AND.
type BookFilter struct {
	// AuthorID restricts to books owned by this author.
	AuthorID string
	// Genre restricts to books whose genre set contains this value.
	Genre string
}

func (f BookFilter) matches(b *domain.Book) bool {
	if f.AuthorID != "" && b.AuthorID != f.AuthorID {
		return false
	}
	if f.Genre != "" && !b.HasGenre(f.Genre) {
		return false
	}
	return true
}

// ListBooks returns all books matching the filter.
func (s *Store) ListBooks(ctx context.Context, filter BookFilter) ([]*domain.Book, error) {
	return s.Books.Find(ctx, filter.matches)
}

// CountBooks returns the number of books matching the filter. Used both for
// the top-level book count (zero filter) and for per-author book counts,
// which are recomputed on every query rather than stored.
func (s *Store) CountBooks(ctx context.Context, filter BookFilter) (int, error) {
	return s.Books.Count(ctx, filter.matches)
}
