// Package graph implements the GraphQL API: schema construction, query,
// mutation, and subscription resolvers over the catalog store.
package graph

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/shelfgraph/shelfgraph-server/internal/auth"
	"github.com/shelfgraph/shelfgraph-server/internal/bus"
	"github.com/shelfgraph/shelfgraph-server/internal/domain"
	domainerrors "github.com/shelfgraph/shelfgraph-server/internal/errors"
	"github.com/shelfgraph/shelfgraph-server/internal/id"
	"github.com/shelfgraph/shelfgraph-server/internal/store"
	"github.com/shelfgraph/shelfgraph-server/internal/validation"
)

// Token is the login mutation result. Tokens are ephemeral; nothing is
// persisted server-side.
type Token struct {
	Value string `json:"value"`
}

// Resolver holds the dependencies the GraphQL field resolvers need.
type Resolver struct {
	store       *store.Store
	bus         *bus.Bus
	tokens      *auth.TokenService
	validator   *validation.Validator
	logger      *slog.Logger
	loginSecret string
}

// NewResolver creates the resolver set for the API schema.
func NewResolver(st *store.Store, eventBus *bus.Bus, tokens *auth.TokenService, loginSecret string, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:       st,
		bus:         eventBus,
		tokens:      tokens,
		validator:   validation.New(),
		logger:      logger,
		loginSecret: loginSecret,
	}
}

// fail logs the underlying error when it is an internal fault and maps it
// onto the wire error taxonomy.
func (r *Resolver) fail(err error) error {
	var dErr *domainerrors.Error
	if !domainerrors.As(err, &dErr) || dErr.Code == domainerrors.CodeInternal {
		r.logger.Error("resolver fault", slog.String("error", err.Error()))
	}
	return asResolverError(err)
}

// currentUser loads the authenticated user for a gated mutation.
// Anonymous callers, or principals whose account no longer resolves,
// get an UNAUTHENTICATED error.
func (r *Resolver) currentUser(ctx context.Context) (*domain.User, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, domainerrors.Unauthenticated("not authenticated")
	}

	user, err := r.store.Users.Get(ctx, principal.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthenticated("not authenticated")
		}
		return nil, err
	}
	return user, nil
}

// Query resolvers

func (r *Resolver) resolveBookCount(p graphql.ResolveParams) (interface{}, error) {
	count, err := r.store.CountBooks(p.Context, store.BookFilter{})
	if err != nil {
		return nil, r.fail(err)
	}
	return count, nil
}

func (r *Resolver) resolveAuthorCount(p graphql.ResolveParams) (interface{}, error) {
	count, err := r.store.CountAuthors(p.Context)
	if err != nil {
		return nil, r.fail(err)
	}
	return count, nil
}

func (r *Resolver) resolvePersonCount(p graphql.ResolveParams) (interface{}, error) {
	count, err := r.store.CountPersons(p.Context)
	if err != nil {
		return nil, r.fail(err)
	}
	return count, nil
}

func (r *Resolver) resolveAllBooks(p graphql.ResolveParams) (interface{}, error) {
	var filter store.BookFilter

	if name, ok := stringArg(p, "author"); ok {
		author, err := r.store.GetAuthorByName(p.Context, name)
		if err != nil {
			return nil, r.fail(err)
		}
		if author == nil {
			// Unknown author filters everything out; not an error.
			return []*domain.Book{}, nil
		}
		filter.AuthorID = author.ID
	}

	if genre, ok := stringArg(p, "genre"); ok {
		filter.Genre = genre
	}

	books, err := r.store.ListBooks(p.Context, filter)
	if err != nil {
		return nil, r.fail(err)
	}
	return books, nil
}

func (r *Resolver) resolveAllAuthors(p graphql.ResolveParams) (interface{}, error) {
	authors, err := r.store.ListAuthors(p.Context)
	if err != nil {
		return nil, r.fail(err)
	}
	return authors, nil
}

func (r *Resolver) resolveAllPersons(p graphql.ResolveParams) (interface{}, error) {
	filter := store.PhoneAny
	if phone, ok := stringArg(p, "phone"); ok {
		switch phone {
		case "YES":
			filter = store.PhonePresent
		case "NO":
			filter = store.PhoneAbsent
		}
	}

	persons, err := r.store.ListPersons(p.Context, filter)
	if err != nil {
		return nil, r.fail(err)
	}
	return persons, nil
}

func (r *Resolver) resolveFindPerson(p graphql.ResolveParams) (interface{}, error) {
	name, _ := stringArg(p, "name")

	person, err := r.store.GetPersonByName(p.Context, name)
	if err != nil {
		return nil, r.fail(err)
	}
	if person == nil {
		// Absent entity resolves to null, not an error.
		return nil, nil
	}
	return person, nil
}

func (r *Resolver) resolveMe(p graphql.ResolveParams) (interface{}, error) {
	principal, ok := auth.PrincipalFrom(p.Context)
	if !ok {
		return nil, nil
	}

	user, err := r.store.Users.Get(p.Context, principal.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, r.fail(err)
	}
	return user, nil
}

// Mutation resolvers

type addBookInput struct {
	Title     string   `json:"title" validate:"required,min=5"`
	Author    string   `json:"author" validate:"required"`
	Published int      `json:"published" validate:"required"`
	Genres    []string `json:"genres"`
}

func (r *Resolver) resolveAddBook(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.currentUser(p.Context); err != nil {
		return nil, r.fail(err)
	}

	published, _ := intArg(p, "published")
	input := addBookInput{
		Title:     requiredStringArg(p, "title"),
		Author:    requiredStringArg(p, "author"),
		Published: published,
		Genres:    stringListArg(p, "genres"),
	}
	if err := r.validator.Validate(input); err != nil {
		return nil, r.fail(err)
	}

	author, err := r.findOrCreateAuthor(p.Context, input.Author)
	if err != nil {
		return nil, r.fail(err)
	}

	book := &domain.Book{
		Title:     input.Title,
		Published: input.Published,
		AuthorID:  author.ID,
		Genres:    input.Genres,
	}
	book.ID, err = id.Generate("book")
	if err != nil {
		return nil, r.fail(err)
	}
	book.InitTimestamps()

	if err := r.store.Books.Create(p.Context, book.ID, book); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, r.fail(domainerrors.ValidationWithDetails(
				"title must be unique", map[string]any{"title": input.Title}))
		}
		return nil, r.fail(err)
	}

	r.bus.Publish(bus.TopicBookAdded, book)
	return book, nil
}

func (r *Resolver) findOrCreateAuthor(ctx context.Context, name string) (*domain.Author, error) {
	author, err := r.store.GetAuthorByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if author != nil {
		return author, nil
	}

	author = &domain.Author{Name: name}
	author.ID, err = id.Generate("author")
	if err != nil {
		return nil, err
	}
	author.InitTimestamps()

	if err := r.store.Authors.Create(ctx, author.ID, author); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			// Lost a creation race; the author exists now.
			return r.store.GetAuthorByName(ctx, name)
		}
		return nil, err
	}
	return author, nil
}

func (r *Resolver) resolveEditAuthor(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.currentUser(p.Context); err != nil {
		return nil, r.fail(err)
	}

	name := requiredStringArg(p, "name")
	born, _ := intArg(p, "setBornTo")

	author, err := r.store.GetAuthorByName(p.Context, name)
	if err != nil {
		return nil, r.fail(err)
	}
	if author == nil {
		return nil, nil
	}

	author.Born = &born
	author.Touch()
	if err := r.store.Authors.Update(p.Context, author.ID, author); err != nil {
		return nil, r.fail(err)
	}
	return author, nil
}

type addPersonInput struct {
	Name   string `json:"name" validate:"required"`
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
}

func (r *Resolver) resolveAddPerson(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.currentUser(p.Context); err != nil {
		return nil, r.fail(err)
	}

	input := addPersonInput{
		Name:   requiredStringArg(p, "name"),
		Street: requiredStringArg(p, "street"),
		City:   requiredStringArg(p, "city"),
	}
	if err := r.validator.Validate(input); err != nil {
		return nil, r.fail(err)
	}

	person := &domain.Person{
		Name: input.Name,
		Address: domain.Address{
			Street: input.Street,
			City:   input.City,
		},
	}
	if phone, ok := stringArg(p, "phone"); ok {
		person.Phone = &phone
	}

	var err error
	person.ID, err = id.Generate("person")
	if err != nil {
		return nil, r.fail(err)
	}
	person.InitTimestamps()

	if err := r.store.Persons.Create(p.Context, person.ID, person); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, r.fail(domainerrors.ValidationWithDetails(
				"name must be unique", map[string]any{"name": input.Name}))
		}
		return nil, r.fail(err)
	}

	r.bus.Publish(bus.TopicPersonAdded, person)
	return person, nil
}

func (r *Resolver) resolveEditNumber(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.currentUser(p.Context); err != nil {
		return nil, r.fail(err)
	}

	name := requiredStringArg(p, "name")
	phone := requiredStringArg(p, "phone")

	person, err := r.store.GetPersonByName(p.Context, name)
	if err != nil {
		return nil, r.fail(err)
	}
	if person == nil {
		return nil, nil
	}

	person.Phone = &phone
	person.Touch()
	if err := r.store.Persons.Update(p.Context, person.ID, person); err != nil {
		return nil, r.fail(err)
	}
	return person, nil
}

type createUserInput struct {
	Username      string `json:"username" validate:"required,min=3"`
	FavoriteGenre string `json:"favoriteGenre" validate:"required"`
}

func (r *Resolver) resolveCreateUser(p graphql.ResolveParams) (interface{}, error) {
	input := createUserInput{
		Username:      requiredStringArg(p, "username"),
		FavoriteGenre: requiredStringArg(p, "favoriteGenre"),
	}
	if err := r.validator.Validate(input); err != nil {
		return nil, r.fail(err)
	}

	user := &domain.User{
		Username:      input.Username,
		FavoriteGenre: input.FavoriteGenre,
	}
	var err error
	user.ID, err = id.Generate("user")
	if err != nil {
		return nil, r.fail(err)
	}
	user.InitTimestamps()

	if err := r.store.Users.Create(p.Context, user.ID, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, r.fail(domainerrors.ValidationWithDetails(
				"username must be unique", map[string]any{"username": input.Username}))
		}
		return nil, r.fail(err)
	}
	return user, nil
}

func (r *Resolver) resolveLogin(p graphql.ResolveParams) (interface{}, error) {
	username := requiredStringArg(p, "username")
	password := requiredStringArg(p, "password")

	user, err := r.store.GetUserByUsername(p.Context, username)
	if err != nil {
		return nil, r.fail(err)
	}

	// Compare regardless of whether the user exists so both failure paths
	// take the same shape, and return one indistinguishable error.
	match := subtle.ConstantTimeCompare([]byte(password), []byte(r.loginSecret)) == 1
	if user == nil || !match {
		return nil, r.fail(domainerrors.Validation("wrong credentials"))
	}

	value, err := r.tokens.Issue(user)
	if err != nil {
		return nil, r.fail(err)
	}
	return &Token{Value: value}, nil
}

func (r *Resolver) resolveAddAsFriend(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.currentUser(p.Context)
	if err != nil {
		return nil, r.fail(err)
	}

	name := requiredStringArg(p, "name")
	person, err := r.store.GetPersonByName(p.Context, name)
	if err != nil {
		return nil, r.fail(err)
	}
	if person == nil {
		return nil, r.fail(domainerrors.ValidationWithDetails(
			"person not found", map[string]any{"name": name}))
	}

	if user.AddFriend(person.ID) {
		user.Touch()
		if err := r.store.Users.Update(p.Context, user.ID, user); err != nil {
			return nil, r.fail(err)
		}
	}
	return user, nil
}

// Subscription resolvers

func (r *Resolver) subscribeBookAdded(p graphql.ResolveParams) (interface{}, error) {
	events, err := r.bus.Subscribe(p.Context, bus.TopicBookAdded)
	if err != nil {
		return nil, r.fail(err)
	}
	return events, nil
}

func (r *Resolver) subscribePersonAdded(p graphql.ResolveParams) (interface{}, error) {
	events, err := r.bus.Subscribe(p.Context, bus.TopicPersonAdded)
	if err != nil {
		return nil, r.fail(err)
	}
	return events, nil
}

// resolvePayload passes the published event through as the field value.
func resolvePayload(p graphql.ResolveParams) (interface{}, error) {
	return p.Source, nil
}

// Argument helpers. Non-null arguments are guaranteed present by the
// executor's validation pass; optional ones report presence.

func requiredStringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func stringArg(p graphql.ResolveParams, name string) (string, bool) {
	v, ok := p.Args[name]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intArg(p graphql.ResolveParams, name string) (int, bool) {
	v, ok := p.Args[name]
	if !ok || v == nil {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

func stringListArg(p graphql.ResolveParams, name string) []string {
	raw, ok := p.Args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
