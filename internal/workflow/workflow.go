// Package workflow reads the graph metadata the host attaches to a node
// execution. Only the parts the list filter needs are decoded: the node
// list, each node's id and its persisted properties.
package workflow

import (
	"fmt"

	"listfilter/internal/items"
)

// PropertyItemsData is the node property holding the toggle record.
const PropertyItemsData = "_itemsData"

type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type Workflow struct {
	Nodes []Node `json:"nodes"`
}

type Metadata struct {
	Workflow *Workflow `json:"workflow,omitempty"`
}

// Parse decodes raw metadata JSON. Empty input yields empty metadata.
func Parse(data []byte) (*Metadata, error) {
	if len(data) == 0 {
		return &Metadata{}, nil
	}

	v, err := items.DecodeJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode workflow metadata: %w", err)
	}

	return FromValue(v)
}

// FromValue builds Metadata from an already decoded value. Nodes that are
// not objects are skipped; a missing workflow or node list is not an error.
func FromValue(v any) (*Metadata, error) {
	if v == nil {
		return &Metadata{}, nil
	}

	root, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("workflow metadata must be an object, got %T", v)
	}

	meta := &Metadata{}
	rawWorkflow, ok := root["workflow"].(map[string]any)
	if !ok {
		return meta, nil
	}

	meta.Workflow = &Workflow{}
	rawNodes, _ := rawWorkflow["nodes"].([]any)
	for _, raw := range rawNodes {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		node := Node{ID: NodeID(obj["id"])}
		node.Type, _ = obj["type"].(string)
		node.Properties, _ = obj["properties"].(map[string]any)
		meta.Workflow.Nodes = append(meta.Workflow.Nodes, node)
	}

	return meta, nil
}

// NodeID renders a node id the way ids are compared: numeric and string
// ids with the same text are equal.
func NodeID(v any) string {
	if v == nil {
		return ""
	}
	return items.Stringify(v)
}

func (m *Metadata) FindNode(id string) (*Node, bool) {
	if m == nil || m.Workflow == nil || id == "" {
		return nil, false
	}

	for i := range m.Workflow.Nodes {
		if m.Workflow.Nodes[i].ID == id {
			return &m.Workflow.Nodes[i], true
		}
	}
	return nil, false
}

// ToggleRecord returns the raw toggle record persisted on the node with
// the given id.
func (m *Metadata) ToggleRecord(nodeID string) (any, bool) {
	node, ok := m.FindNode(nodeID)
	if !ok || node.Properties == nil {
		return nil, false
	}

	raw, ok := node.Properties[PropertyItemsData]
	return raw, ok
}
