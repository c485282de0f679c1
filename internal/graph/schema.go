package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
	domainerrors "github.com/shelfgraph/shelfgraph-server/internal/errors"
	"github.com/shelfgraph/shelfgraph-server/internal/store"
)

// Schema builds the executable GraphQL schema. Field resolvers close over
// the Resolver's dependencies; relationship fields (Book.author,
// Author.bookCount, Person.friendOf, User.friends) are computed per
// request rather than stored.
func (r *Resolver) Schema() (graphql.Schema, error) {
	yesNo := graphql.NewEnum(graphql.EnumConfig{
		Name:        "YesNo",
		Description: "Phone presence filter. YES matches records with a phone field, even an empty one.",
		Values: graphql.EnumValueConfigMap{
			"YES": &graphql.EnumValueConfig{Value: "YES"},
			"NO":  &graphql.EnumValueConfig{Value: "NO"},
		},
	})

	addressType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"street": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Address).Street, nil
				},
			},
			"city": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Address).City, nil
				},
			},
		},
	})

	authorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Author",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Author).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Author).Name, nil
				},
			},
			"born": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					author := p.Source.(*domain.Author)
					if author.Born == nil {
						return nil, nil
					}
					return *author.Born, nil
				},
			},
			"bookCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					author := p.Source.(*domain.Author)
					count, err := r.store.CountBooks(p.Context, store.BookFilter{AuthorID: author.ID})
					if err != nil {
						return nil, r.fail(err)
					}
					return count, nil
				},
			},
		},
	})

	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Book).ID, nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Book).Title, nil
				},
			},
			"published": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Book).Published, nil
				},
			},
			"author": &graphql.Field{
				Type: graphql.NewNonNull(authorType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book := p.Source.(*domain.Book)
					author, err := r.store.Authors.Get(p.Context, book.AuthorID)
					if err != nil {
						return nil, r.fail(domainerrors.Wrapf(err, domainerrors.CodeInternal,
							"book %s references missing author", book.ID))
					}
					return author, nil
				},
			},
			"genres": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					genres := p.Source.(*domain.Book).Genres
					if genres == nil {
						return []string{}, nil
					}
					return genres, nil
				},
			},
		},
	})

	personType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Person",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Person).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Person).Name, nil
				},
			},
			"phone": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					person := p.Source.(*domain.Person)
					if person.Phone == nil {
						return nil, nil
					}
					return *person.Phone, nil
				},
			},
			"address": &graphql.Field{
				Type: graphql.NewNonNull(addressType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Person).Address, nil
				},
			},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.User).ID, nil
				},
			},
			"username": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.User).Username, nil
				},
			},
			"favoriteGenre": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.User).FavoriteGenre, nil
				},
			},
			"friends": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(personType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user := p.Source.(*domain.User)
					friends := make([]*domain.Person, 0, len(user.Friends))
					for _, personID := range user.Friends {
						person, err := r.store.Persons.Get(p.Context, personID)
						if err != nil {
							return nil, r.fail(err)
						}
						friends = append(friends, person)
					}
					return friends, nil
				},
			},
		},
	})

	// friendOf closes the Person <-> User cycle, so it is attached after
	// both types exist.
	personType.AddFieldConfig("friendOf", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			person := p.Source.(*domain.Person)
			users, err := r.store.ListFriendsOf(p.Context, person.ID)
			if err != nil {
				return nil, r.fail(err)
			}
			return users, nil
		},
	})

	tokenType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Token",
		Fields: graphql.Fields{
			"value": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*Token).Value, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"bookCount": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: r.resolveBookCount,
			},
			"authorCount": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: r.resolveAuthorCount,
			},
			"personCount": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: r.resolvePersonCount,
			},
			"allBooks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookType))),
				Args: graphql.FieldConfigArgument{
					"author": &graphql.ArgumentConfig{Type: graphql.String},
					"genre":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveAllBooks,
			},
			"allAuthors": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(authorType))),
				Resolve: r.resolveAllAuthors,
			},
			"allPersons": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(personType))),
				Args: graphql.FieldConfigArgument{
					"phone": &graphql.ArgumentConfig{Type: yesNo},
				},
				Resolve: r.resolveAllPersons,
			},
			"findPerson": &graphql.Field{
				Type: personType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveFindPerson,
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.resolveMe,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"title":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"author":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"published": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"genres":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
				},
				Resolve: r.resolveAddBook,
			},
			"editAuthor": &graphql.Field{
				Type: authorType,
				Args: graphql.FieldConfigArgument{
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"setBornTo": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.resolveEditAuthor,
			},
			"addPerson": &graphql.Field{
				Type: personType,
				Args: graphql.FieldConfigArgument{
					"name":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone":  &graphql.ArgumentConfig{Type: graphql.String},
					"street": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"city":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveAddPerson,
			},
			"editNumber": &graphql.Field{
				Type: personType,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveEditNumber,
			},
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"favoriteGenre": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveCreateUser,
			},
			"login": &graphql.Field{
				Type: tokenType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveLogin,
			},
			"addAsFriend": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveAddAsFriend,
			},
		},
	})

	subscriptionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"bookAdded": &graphql.Field{
				Type:      graphql.NewNonNull(bookType),
				Subscribe: r.subscribeBookAdded,
				Resolve:   resolvePayload,
			},
			"personAdded": &graphql.Field{
				Type:      graphql.NewNonNull(personType),
				Subscribe: r.subscribePersonAdded,
				Resolve:   resolvePayload,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:        queryType,
		Mutation:     mutationType,
		Subscription: subscriptionType,
	})
}
