// Package di provides dependency injection configuration for the ShelfGraph server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfgraph/shelfgraph-server/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage and events
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideEventBus)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// GraphQL layer
	do.Provide(injector, providers.ProvideResolver)
	do.Provide(injector, providers.ProvideSchema)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap eagerly instantiates the service graph so construction
// failures surface at startup instead of on first use.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
