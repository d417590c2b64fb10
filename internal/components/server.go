package components

import (
	"context"
	"fmt"
	"log/slog"

	"listfilter/internal/nodes"
	"listfilter/internal/server/api"
)

type ServerComponent struct {
	name     string
	config   api.Config
	catalog  *nodes.Registry
	registry *Registry
	logger   *slog.Logger
	server   *api.Server
}

// NewServerComponent serves the node catalog over HTTP. Run history comes
// from the storage component found in registry.
func NewServerComponent(name string, cfg api.Config, catalog *nodes.Registry, registry *Registry, logger *slog.Logger) *ServerComponent {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServerComponent{
		name:     name,
		config:   cfg,
		catalog:  catalog,
		registry: registry,
		logger:   logger,
	}
}

func (c *ServerComponent) Name() string {
	return ServerComponentName
}

func (c *ServerComponent) Dependencies() []string {
	return []string{StorageComponentName}
}

func (c *ServerComponent) Validate() error {
	if c.catalog == nil {
		return fmt.Errorf("server: node catalog is required")
	}
	return nil
}

func (c *ServerComponent) Initialize(ctx context.Context) error {
	store := c.registry.Get(StorageComponentName).(*StorageComponent).Store()

	server := api.New(c.name, c.config, c.catalog, store.Runs(), c.logger)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server: failed to start api server %s: %w", c.name, err)
	}

	c.server = server
	return nil
}

func (c *ServerComponent) Close(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	if err := c.server.Shutdown(ctx); err != nil {
		c.logger.Error("Error shutting down api server", "server", c.name, "error", err)
	}
	return nil
}

func (c *ServerComponent) Server() *api.Server {
	return c.server
}
