package nodes

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"listfilter/internal/workflow"
)

type InputSpec struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Default    any    `json:"default,omitempty"`
	Multiline  bool   `json:"multiline,omitempty"`
	ForceInput bool   `json:"force_input,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
}

// Definition describes a node to the host: how it is listed in the editor
// and which inputs and outputs it has.
type Definition struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Deprecated  bool        `json:"deprecated"`
	Inputs      []InputSpec `json:"inputs"`
	ReturnTypes []string    `json:"return_types"`
	ReturnNames []string    `json:"return_names"`
}

// Request carries one execution: the visible inputs plus the hidden node
// id and graph metadata supplied by the host.
type Request struct {
	Inputs   map[string]any
	UniqueID string
	Metadata *workflow.Metadata
}

// Output is what the host receives back. Result holds one value per
// declared return; UI is forwarded to the editor. Total and Active count
// the items the node received and let through.
type Output struct {
	UI     map[string]any `json:"ui,omitempty"`
	Result []any          `json:"result"`
	Total  int            `json:"-"`
	Active int            `json:"-"`
}

type Node interface {
	Definition() Definition
	Execute(ctx context.Context, req Request) Output
}

type Registry struct {
	nodes map[string]Node
}

func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]Node),
	}
}

// NewCatalog registers every list filter node. Deprecated nodes are kept
// for graphs saved by older versions and can be left out.
func NewCatalog(logger *slog.Logger, includeDeprecated bool) *Registry {
	r := NewRegistry()
	r.mustRegister(NewToggleNode(logger))
	if includeDeprecated {
		r.mustRegister(NewInputNode())
		r.mustRegister(NewOutputNode())
	}
	return r
}

func (r *Registry) Register(node Node) error {
	name := node.Definition().Name
	if _, exists := r.nodes[name]; exists {
		return fmt.Errorf("node %s already registered", name)
	}
	r.nodes[name] = node
	return nil
}

func (r *Registry) mustRegister(node Node) {
	if err := r.Register(node); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Node, bool) {
	node, exists := r.nodes[name]
	return node, exists
}

func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.nodes))
	for _, node := range r.nodes {
		defs = append(defs, node.Definition())
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})
	return defs
}
