package store

import (
	"context"
	"errors"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
)

// PhoneFilter selects persons by presence of the phone field.
type PhoneFilter int

const (
	// PhoneAny matches every person.
	PhoneAny PhoneFilter = iota
	// PhonePresent matches persons that have a phone field, even an empty one.
	PhonePresent
	// PhoneAbsent matches persons with no phone field at all.
	PhoneAbsent
)

// GetPersonByName looks up a person by exact name.
// Returns (nil, nil) when no person carries the name.
func (s *Store) GetPersonByName(ctx context.Context, name string) (*domain.Person, error) {
	person, err := s.Persons.GetByIndex(ctx, "name", name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return person, nil
}

// CountPersons returns the total number of person records.
func (s *Store) CountPersons(ctx context.Context) (int, error) {
	return s.Persons.Count(ctx, nil)
}

// ListPersons returns persons matching the phone-presence filter. The filter
// is an existence test on the field, not a truthiness test.
func (s *Store) ListPersons(ctx context.Context, filter PhoneFilter) ([]*domain.Person, error) {
	return s.Persons.Find(ctx, func(p *domain.Person) bool {
		switch filter {
		case PhonePresent:
			return p.HasPhone()
		case PhoneAbsent:
			return !p.HasPhone()
		default:
			return true
		}
	})
}
