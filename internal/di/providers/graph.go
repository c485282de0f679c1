package providers

import (
	"github.com/graphql-go/graphql"
	"github.com/samber/do/v2"

	"github.com/shelfgraph/shelfgraph-server/internal/auth"
	"github.com/shelfgraph/shelfgraph-server/internal/config"
	"github.com/shelfgraph/shelfgraph-server/internal/graph"
	"github.com/shelfgraph/shelfgraph-server/internal/logger"
)

// ProvideResolver provides the GraphQL resolver set.
func ProvideResolver(i do.Injector) (*graph.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	busHandle := do.MustInvoke[*EventBusHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return graph.NewResolver(storeHandle.Store, busHandle.Bus, tokens, cfg.Auth.LoginSecret, log.Logger), nil
}

// ProvideSchema provides the executable GraphQL schema.
func ProvideSchema(i do.Injector) (graphql.Schema, error) {
	resolver := do.MustInvoke[*graph.Resolver](i)
	return resolver.Schema()
}
