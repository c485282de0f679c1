// Package main provides a tool to seed the database with a starter catalog.
//
// It loads a set of well-known authors and books, a demo user, and a small
// phonebook for local development.
//
// Usage:
//
//	DB_PATH=~/ShelfGraph/data/db go run ./cmd/seed
//	DB_PATH=~/ShelfGraph/data/db go run ./cmd/seed --with-persons
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
	"github.com/shelfgraph/shelfgraph-server/internal/id"
	"github.com/shelfgraph/shelfgraph-server/internal/store"
)

var withPersons = flag.Bool("with-persons", false, "Also seed phonebook persons")

type seedBook struct {
	title     string
	author    string
	published int
	genres    []string
}

var seedAuthors = []struct {
	name string
	born *int
}{
	{"Robert Martin", intPtr(1952)},
	{"Martin Fowler", intPtr(1963)},
	{"Fyodor Dostoevsky", intPtr(1821)},
	{"Joshua Kerievsky", nil},
	{"Sandi Metz", nil},
}

var seedBooks = []seedBook{
	{"Clean Code", "Robert Martin", 2008, []string{"refactoring"}},
	{"Agile software development", "Robert Martin", 2002, []string{"agile", "patterns", "design"}},
	{"Refactoring, edition 2", "Martin Fowler", 2018, []string{"refactoring"}},
	{"Refactoring to patterns", "Joshua Kerievsky", 2008, []string{"refactoring", "patterns"}},
	{"Practical Object-Oriented Design, An Agile Primer Using Ruby", "Sandi Metz", 2012, []string{"refactoring", "design"}},
	{"Crime and punishment", "Fyodor Dostoevsky", 1866, []string{"classic", "crime"}},
	{"Demons", "Fyodor Dostoevsky", 1872, []string{"classic", "revolution"}},
}

var seedPersons = []struct {
	name   string
	phone  *string
	street string
	city   string
}{
	{"Arto Hellas", strPtr("040-123543"), "Tapiolankatu 5 A", "Espoo"},
	{"Matti Luukkainen", strPtr("040-432342"), "Malminkaari 10 A", "Helsinki"},
	{"Venla Ruuska", nil, "Nallemäentie 22 C", "Helsinki"},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/ShelfGraph/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	// Authors first so the books can reference them.
	authorIDs := make(map[string]string)
	for _, a := range seedAuthors {
		existing, err := s.GetAuthorByName(ctx, a.name)
		if err != nil {
			log.Fatalf("Failed to look up author %s: %v", a.name, err)
		}
		if existing != nil {
			fmt.Printf("  Author %s already exists, skipping\n", a.name)
			authorIDs[a.name] = existing.ID
			continue
		}

		author := &domain.Author{Name: a.name, Born: a.born}
		author.ID = id.MustGenerate("author")
		author.InitTimestamps()

		if err := s.Authors.Create(ctx, author.ID, author); err != nil {
			log.Fatalf("Failed to create author %s: %v", a.name, err)
		}
		authorIDs[a.name] = author.ID
		fmt.Printf("  Created author: %s\n", a.name)
	}

	booksCreated := 0
	for _, b := range seedBooks {
		book := &domain.Book{
			Title:     b.title,
			Published: b.published,
			AuthorID:  authorIDs[b.author],
			Genres:    b.genres,
		}
		book.ID = id.MustGenerate("book")
		book.InitTimestamps()

		if err := s.Books.Create(ctx, book.ID, book); err != nil {
			fmt.Printf("  Book %q already exists, skipping\n", b.title)
			continue
		}
		booksCreated++
	}
	fmt.Printf("Created %d books\n", booksCreated)

	// A demo account for trying out the gated mutations.
	if existing, err := s.GetUserByUsername(ctx, "mluukkai"); err != nil {
		log.Fatalf("Failed to look up user: %v", err)
	} else if existing == nil {
		user := &domain.User{Username: "mluukkai", FavoriteGenre: "refactoring"}
		user.ID = id.MustGenerate("user")
		user.InitTimestamps()
		if err := s.Users.Create(ctx, user.ID, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Println("Created user: mluukkai")
	}

	if *withPersons {
		for _, p := range seedPersons {
			person := &domain.Person{
				Name:  p.name,
				Phone: p.phone,
				Address: domain.Address{
					Street: p.street,
					City:   p.city,
				},
			}
			person.ID = id.MustGenerate("person")
			person.InitTimestamps()

			if err := s.Persons.Create(ctx, person.ID, person); err != nil {
				fmt.Printf("  Person %s already exists, skipping\n", p.name)
				continue
			}
			fmt.Printf("  Created person: %s\n", p.name)
		}
	}

	fmt.Println("\nSeeding complete!")
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
