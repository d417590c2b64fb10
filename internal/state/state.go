package state

import (
	"listfilter/internal/components"
	"listfilter/internal/config"
	"listfilter/internal/core"
	"listfilter/internal/nodes"
)

// State is everything a running process holds after startup.
type State struct {
	Config   *config.Config
	Registry *components.Registry
	Catalog  *nodes.Registry
	Service  *core.Service
}

func NewState(cfg *config.Config, registry *components.Registry, catalog *nodes.Registry, service *core.Service) *State {
	return &State{
		Config:   cfg,
		Registry: registry,
		Catalog:  catalog,
		Service:  service,
	}
}
