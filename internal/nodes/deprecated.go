package nodes

import (
	"context"

	"listfilter/internal/items"
	"listfilter/internal/nodes/names"
)

const emptyList = "[]"

// InputNode passes a JSON array through unchanged.
//
// Deprecated: kept so graphs built before the toggle node still load. Use
// ToggleNode.
type InputNode struct{}

func NewInputNode() *InputNode {
	return &InputNode{}
}

func (n *InputNode) Definition() Definition {
	return Definition{
		Name:        names.ListFilterInput,
		DisplayName: "List Filter Input (Deprecated)",
		Category:    names.Category,
		Description: "Deprecated: use List Filter (Toggle UI).",
		Deprecated:  true,
		Inputs: []InputSpec{
			{Name: "items_json", Type: "STRING", Default: `["item1", "item2", "item3"]`, Multiline: true},
		},
		ReturnTypes: []string{"STRING"},
		ReturnNames: []string{"items"},
	}
}

func (n *InputNode) Execute(ctx context.Context, req Request) Output {
	text, ok := getString(req.Inputs, "items_json")
	if !ok {
		return Output{Result: []any{emptyList}}
	}

	values, ok := decodeArray(text)
	if !ok {
		return Output{Result: []any{emptyList}}
	}
	return Output{Result: []any{text}, Total: len(values), Active: len(values)}
}

// OutputNode returns a JSON array alongside its length.
//
// Deprecated: kept so graphs built before the toggle node still load. Use
// ToggleNode.
type OutputNode struct{}

func NewOutputNode() *OutputNode {
	return &OutputNode{}
}

func (n *OutputNode) Definition() Definition {
	return Definition{
		Name:        names.ListFilterOutput,
		DisplayName: "List Filter Output (Deprecated)",
		Category:    names.Category,
		Description: "Deprecated: use List Filter (Toggle UI).",
		Deprecated:  true,
		Inputs: []InputSpec{
			{Name: "filtered_json", Type: "STRING", ForceInput: true},
		},
		ReturnTypes: []string{"STRING", "INT"},
		ReturnNames: []string{"filtered_items", "count"},
	}
}

func (n *OutputNode) Execute(ctx context.Context, req Request) Output {
	text, ok := getString(req.Inputs, "filtered_json")
	if !ok {
		return Output{Result: []any{emptyList, 0}}
	}

	values, ok := decodeArray(text)
	if !ok {
		return Output{Result: []any{emptyList, 0}}
	}
	return Output{Result: []any{text, len(values)}, Total: len(values), Active: len(values)}
}

func decodeArray(text string) ([]any, bool) {
	decoded, err := items.DecodeJSON(text)
	if err != nil {
		return nil, false
	}
	values, ok := decoded.([]any)
	return values, ok
}
