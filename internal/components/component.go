package components

import (
	"context"
	"fmt"
	"log/slog"

	"listfilter/internal/graph"
)

const (
	StorageComponentName = "storage"
	ServerComponentName  = "server"
)

type IComponent interface {
	Name() string
	Dependencies() []string
	Validate() error
	Initialize(ctx context.Context) error
	Close(ctx context.Context) error
}

type Registry struct {
	components map[string]IComponent
	order      []string
}

func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]IComponent),
		order:      make([]string, 0),
	}
}

func (r *Registry) Register(component IComponent) error {
	name := component.Name()
	if _, exists := r.components[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}
	r.components[name] = component
	return nil
}

// Get panics on unknown names; components are registered at startup, so a
// miss is a wiring bug.
func (r *Registry) Get(name string) IComponent {
	comp, exists := r.components[name]
	if !exists {
		panic(fmt.Sprintf("component %s not found", name))
	}
	return comp
}

// InitializeAll validates every component, then initializes them so each
// one starts after its dependencies.
func (r *Registry) InitializeAll(ctx context.Context) error {
	nodes := make(map[string]graph.Node)
	for name, comp := range r.components {
		nodes[name] = &componentNode{comp: comp}
	}

	if err := graph.ValidateGraph(nodes); err != nil {
		return err
	}

	order, err := graph.TopologicalSort(nodes)
	if err != nil {
		return err
	}

	for _, name := range order {
		comp := r.components[name]
		if err := comp.Validate(); err != nil {
			return fmt.Errorf("component %s validation failed: %w", name, err)
		}
	}

	for i, name := range order {
		comp := r.components[name]
		if err := comp.Initialize(ctx); err != nil {
			r.order = order[:i]
			r.CloseAll(ctx)
			return fmt.Errorf("component %s initialization failed: %w", name, err)
		}
		slog.Debug("Component initialized", "component", name)
	}

	r.order = order
	return nil
}

// Order is the initialization order of the last InitializeAll.
func (r *Registry) Order() []string {
	return r.order
}

type componentNode struct {
	comp IComponent
}

func (cn *componentNode) GetName() string {
	return cn.comp.Name()
}

func (cn *componentNode) GetDependencies() []string {
	return cn.comp.Dependencies()
}

// CloseAll closes components in reverse initialization order. Close errors
// are logged so every component gets a chance to shut down.
func (r *Registry) CloseAll(ctx context.Context) error {
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		comp := r.components[name]
		if err := comp.Close(ctx); err != nil {
			slog.Error("Error closing component", "component", name, "error", err)
		}
	}
	r.order = nil
	return nil
}
