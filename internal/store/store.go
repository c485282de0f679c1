// Package store implements the persistence layer over a Badger key-value
// database. Entities are stored as JSON documents; natural-key uniqueness is
// enforced transactionally through secondary indexes, so concurrent writes
// that race on the same key resolve inside Badger and the loser surfaces
// ErrAlreadyExists.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
)

// Store wraps a Badger database instance and exposes the typed entity
// collections used by the resolver layer.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Authors *Entity[domain.Author]
	Books   *Entity[domain.Book]
	Users   *Entity[domain.User]
	Persons *Entity[domain.Person]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initAuthors()
	store.initBooks()
	store.initUsers()
	store.initPersons()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Ping verifies the database is readable. Used by the health endpoint.
func (s *Store) Ping(_ context.Context) error {
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("ping"))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initAuthors initializes the Authors entity. Author names are a unique,
// case-sensitive natural key.
func (s *Store) initAuthors() {
	s.Authors = NewEntity[domain.Author](s, "author:").
		WithIndex("name", func(a *domain.Author) []string {
			return []string{a.Name}
		})
}

// initBooks initializes the Books entity. Titles are a unique natural key.
func (s *Store) initBooks() {
	s.Books = NewEntity[domain.Book](s, "book:").
		WithIndex("title", func(b *domain.Book) []string {
			return []string{b.Title}
		})
}

// initUsers initializes the Users entity. Usernames are a unique natural key.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndex("username", func(u *domain.User) []string {
			return []string{u.Username}
		})
}

// initPersons initializes the Persons entity. Person names are a unique
// natural key.
func (s *Store) initPersons() {
	s.Persons = NewEntity[domain.Person](s, "person:").
		WithIndex("name", func(p *domain.Person) []string {
			return []string{p.Name}
		})
}
