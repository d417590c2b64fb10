package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"listfilter/internal/components"
	"listfilter/internal/config"
	"listfilter/internal/core"
	"listfilter/internal/nodes"
	"listfilter/internal/server/api"
	"listfilter/internal/state"
)

type Loader struct {
	config *config.Config
	logger *slog.Logger
}

func NewLoader(cfg *config.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		config: cfg,
		logger: logger,
	}
}

// Initialize starts storage and the API server and returns the retention
// service that owns them. Stopping the service closes every component.
func (l *Loader) Initialize(ctx context.Context) (*state.State, error) {
	registry := components.NewRegistry()
	l.logger.Info("Initializing all components")

	storageComp := components.NewStorageComponent(l.config.Storage)
	if err := registry.Register(storageComp); err != nil {
		return nil, fmt.Errorf("failed to register storage component: %w", err)
	}

	catalog := nodes.NewCatalog(l.logger, l.config.Nodes.DeprecatedEnabled())

	serverComp := components.NewServerComponent(l.config.Service.Name, l.apiConfig(), catalog, registry, l.logger)
	if err := registry.Register(serverComp); err != nil {
		return nil, fmt.Errorf("failed to register server component: %w", err)
	}

	if err := registry.InitializeAll(ctx); err != nil {
		return nil, fmt.Errorf("component initialization failed: %w", err)
	}

	l.logger.Info("All components initialized successfully", "order", registry.Order())

	service := core.NewService(core.ServiceConfig{
		Name:       l.config.Service.Name,
		Runs:       storageComp.Store().Runs(),
		Interval:   l.config.Service.RetentionIntervalDuration(),
		Retention:  l.config.Storage.RetentionDuration(),
		Logger:     l.logger,
		ShutdownFn: registry.CloseAll,
	})

	return state.NewState(l.config, registry, catalog, service), nil
}

func (l *Loader) apiConfig() api.Config {
	return api.Config{
		Addr:           l.config.Server.Addr(),
		ReadTimeout:    l.config.Server.ReadTimeoutDuration(),
		MetricsEnabled: l.config.Metrics.IsEnabled(),
		MetricsPath:    l.config.Metrics.Path,
	}
}

// LoadAndBuild reads the config file, sets up logging and initializes the
// service.
func LoadAndBuild(ctx context.Context, configPath string) (*state.State, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return Build(ctx, cfg)
}

func Build(ctx context.Context, cfg *config.Config) (*state.State, error) {
	logger := core.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	return NewLoader(cfg, logger).Initialize(ctx)
}
