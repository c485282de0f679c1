// Package api provides the HTTP transport for the ShelfGraph GraphQL service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/graphql-go/graphql"

	"github.com/shelfgraph/shelfgraph-server/internal/auth"
	"github.com/shelfgraph/shelfgraph-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	schema graphql.Schema
	store  *store.Store
	tokens *auth.TokenService
	router *chi.Mux
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(schema graphql.Schema, st *store.Store, tokens *auth.TokenService, logger *slog.Logger) *Server {
	s := &Server{
		schema: schema,
		store:  st,
		tokens: tokens,
		router: chi.NewRouter(),
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.resolvePrincipal)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)
	s.router.Post("/graphql", s.handleGraphQL)
	s.router.Get("/subscriptions", s.handleSubscriptions)
}
