package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/shelfgraph/shelfgraph-server/internal/bus"
	"github.com/shelfgraph/shelfgraph-server/internal/config"
	"github.com/shelfgraph/shelfgraph-server/internal/logger"
	"github.com/shelfgraph/shelfgraph-server/internal/store"
)

// EventBusHandle wraps the event bus with shutdown capability.
type EventBusHandle struct {
	*bus.Bus
}

// Shutdown implements do.Shutdownable.
func (h *EventBusHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideEventBus provides the in-process event bus.
func ProvideEventBus(i do.Injector) (*EventBusHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return &EventBusHandle{Bus: bus.New(log.Logger)}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
