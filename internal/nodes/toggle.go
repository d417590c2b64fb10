package nodes

import (
	"context"
	"log/slog"

	"listfilter/internal/items"
	"listfilter/internal/nodes/names"
	"listfilter/internal/toggle"
)

const (
	inputItems       = "items"
	inputItemsLegacy = "items_json"
)

// ToggleNode emits the items the user left enabled in the node's toggle
// pills, together with their count.
type ToggleNode struct {
	logger     *slog.Logger
	normalizer *items.Normalizer
	filter     *toggle.Filter
}

func NewToggleNode(logger *slog.Logger) *ToggleNode {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("node", names.ListFilterToggle)

	return &ToggleNode{
		logger:     logger,
		normalizer: items.NewNormalizer(logger),
		filter:     toggle.NewFilter(logger),
	}
}

func (n *ToggleNode) Definition() Definition {
	return Definition{
		Name:        names.ListFilterToggle,
		DisplayName: "List Filter (Toggle UI)",
		Category:    names.Category,
		Description: "Outputs the items whose toggle pill is enabled. Toggle state survives changes to the input list.",
		Inputs: []InputSpec{
			{Name: inputItems, Type: "*", Default: "[]", Multiline: true},
			{Name: "unique_id", Type: "UNIQUE_ID", Hidden: true},
			{Name: "extra_pnginfo", Type: "EXTRA_PNGINFO", Hidden: true},
		},
		ReturnTypes: []string{"LIST", "INT"},
		ReturnNames: []string{"filtered_items", "count"},
	}
}

func (n *ToggleNode) Execute(ctx context.Context, req Request) Output {
	raw, _ := lookup(req.Inputs, inputItems, inputItemsLegacy)
	input := items.FromValue(raw)
	all := n.normalizer.Normalize(input)

	record := n.filter.Resolve(req.Metadata, req.UniqueID)
	result := n.filter.Apply(all, record)

	n.logger.Debug("Filtered items",
		"unique_id", req.UniqueID,
		"input_kind", input.Kind().String(),
		"total", len(all),
		"active", result.Count,
	)

	return Output{
		UI:     map[string]any{"items": all},
		Result: []any{result.Items, result.Count},
		Total:  len(all),
		Active: result.Count,
	}
}
