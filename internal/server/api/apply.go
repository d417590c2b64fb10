package api

import (
	"encoding/json"

	"listfilter/internal/items"
	"listfilter/internal/types"
)

type applyResponse struct {
	Filtered []any `json:"filtered"`
	Count    int   `json:"count"`
}

// decodeObject decodes a request body that must be a JSON object. Numbers
// stay json.Number so items are echoed back with their original text.
func decodeObject(body []byte) (map[string]any, error) {
	decoded, err := items.DecodeJSON(string(body))
	if err != nil {
		return nil, types.NewRequestError("", "Invalid JSON in request body").WithDetail("cause", err.Error())
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, types.NewRequestError("", "request body must be a JSON object")
	}
	return obj, nil
}

// listField returns obj[field] as a list. A missing field is an empty list;
// anything else that is not an array, null included, is rejected.
func listField(obj map[string]any, field string) ([]any, error) {
	raw, ok := obj[field]
	if !ok {
		return []any{}, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, types.NewRequestError(field, "must be a list")
	}
	return list, nil
}

// selectIndices picks items at the given indices in index order. Entries
// that are not integers, are negative, or are past the end are skipped.
func selectIndices(list []any, indices []any) []any {
	filtered := make([]any, 0, len(indices))
	for _, raw := range indices {
		idx, ok := toIndex(raw)
		if !ok || idx < 0 || idx >= len(list) {
			continue
		}
		filtered = append(filtered, list[idx])
	}
	return filtered
}

func toIndex(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
