package store

import (
	"context"
	"errors"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
)

// GetUserByUsername looks up a user by exact username.
// Returns (nil, nil) when the username is unknown; login folds that into a
// generic credentials error so the API never confirms which usernames exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "username", username)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListFriendsOf returns the users whose friends list contains the person.
// Recomputed per query; the relation is stored only on the User side.
func (s *Store) ListFriendsOf(ctx context.Context, personID string) ([]*domain.User, error) {
	return s.Users.Find(ctx, func(u *domain.User) bool {
		return u.IsFriend(personID)
	})
}
