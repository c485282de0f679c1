package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic document operations for a domain type: create with
// unique-index enforcement, primary and natural-key lookup, filtered listing
// and counting, and in-place update.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a unique secondary index on an entity. Each key produced by
// keyGen maps to exactly one record; a second record producing the same key
// is rejected at write time.
type Index[T any] struct {
	name   string
	keyGen func(*T) []string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithIndex adds a unique secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// Create persists a new entity under the given ID.
// Returns ErrAlreadyExists if the ID or any unique index key is taken. The
// existence checks and writes happen inside one Badger transaction, so two
// racing creates cannot both succeed.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Check if key already exists
		_, err := txn.Get([]byte(key))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		// Check for index conflicts
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				_, err := txn.Get([]byte(idxKey))
				if err == nil {
					return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexKey, ErrAlreadyExists)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		// Set the primary key
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		// Set index keys
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				if err := txn.Set([]byte(idxKey), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by a unique secondary index, i.e. a
// natural-key lookup such as author name or book title.
// Returns ErrNotFound when no record carries the value.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indexKey := []byte(e.prefix + "idx:" + indexName + ":" + value)

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update updates an existing entity in place, moving unique index entries
// when indexed fields changed.
// Returns ErrNotFound if the entity does not exist, ErrAlreadyExists when an
// indexed field now collides with another record.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Load the old entity so stale index keys can be removed.
		var oldEntity T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &oldEntity); err != nil {
				return fmt.Errorf("failed to unmarshal old entity: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Delete old index keys
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(&oldEntity) {
				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				if err := txn.Delete([]byte(idxKey)); err != nil {
					return fmt.Errorf("failed to delete old index key: %w", err)
				}
			}
		}

		// Check for new index conflicts (excluding keys the old record held)
		for _, idx := range e.indexes {
			oldKeys := make(map[string]bool)
			for _, k := range idx.keyGen(&oldEntity) {
				oldKeys[k] = true
			}

			for _, indexKey := range idx.keyGen(entity) {
				if oldKeys[indexKey] {
					continue
				}

				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				_, err := txn.Get([]byte(idxKey))
				if err == nil {
					return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexKey, ErrAlreadyExists)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		// Set the primary key
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		// Set new index keys
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				if err := txn.Set([]byte(idxKey), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys
				key := string(it.Item().Key())
				if len(key) > len(e.prefix) {
					remainder := key[len(e.prefix):]
					if strings.HasPrefix(remainder, "idx:") {
						continue
					}
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})

				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}

// Find returns all entities matching the predicate, in key order. A nil
// predicate matches everything.
func (e *Entity[T]) Find(ctx context.Context, match func(*T) bool) ([]*T, error) {
	var results []*T
	for entity, err := range e.List(ctx) {
		if err != nil {
			return nil, err
		}
		if match == nil || match(entity) {
			results = append(results, entity)
		}
	}
	return results, nil
}

// Count returns the number of entities matching the predicate. A nil
// predicate counts everything. The cost is a prefix scan; acceptable at
// catalog scale, swap in a counter key if that ever changes.
func (e *Entity[T]) Count(ctx context.Context, match func(*T) bool) (int, error) {
	count := 0
	for entity, err := range e.List(ctx) {
		if err != nil {
			return 0, err
		}
		if match == nil || match(entity) {
			count++
		}
	}
	return count, nil
}
