package store

import (
	"context"
	"errors"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
)

// GetAuthorByName looks up an author by exact name.
// Returns (nil, nil) when no author carries the name; the API treats an
// unknown author as a null result, not an error.
func (s *Store) GetAuthorByName(ctx context.Context, name string) (*domain.Author, error) {
	author, err := s.Authors.GetByIndex(ctx, "name", name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return author, nil
}

// CountAuthors returns the total number of author records.
func (s *Store) CountAuthors(ctx context.Context) (int, error) {
	return s.Authors.Count(ctx, nil)
}

// ListAuthors returns all authors.
func (s *Store) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	return s.Authors.Find(ctx, nil)
}
