package toggle

import (
	"encoding/json"
	"fmt"

	"listfilter/internal/items"
)

// Entry is one persisted toggle flag.
type Entry struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Record is the toggle state the UI stores on a node instance.
type Record []Entry

// RecordSource looks up the raw toggle record of a node instance.
// workflow.Metadata is the production implementation.
type RecordSource interface {
	ToggleRecord(nodeID string) (any, bool)
}

// DecodeRecord accepts the JSON text stored in the node properties, or an
// array that was already decoded. Entries that are not objects are skipped.
func DecodeRecord(raw any) (Record, error) {
	if text, ok := raw.(string); ok {
		decoded, err := items.DecodeJSON(text)
		if err != nil {
			return nil, fmt.Errorf("failed to decode toggle record: %w", err)
		}
		raw = decoded
	}

	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("toggle record must be a JSON array, got %T", raw)
	}

	record := make(Record, 0, len(entries))
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}

		entry := Entry{Active: true}
		if name, ok := obj["name"]; ok {
			entry.Name = items.Stringify(name)
		}
		if active, ok := obj["active"]; ok {
			entry.Active = Truthy(active)
		}
		record = append(record, entry)
	}

	return record, nil
}

// Truthy reports whether a decoded JSON value counts as enabled: false,
// null, zero, "" and empty containers are off, everything else is on.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case float64:
		return val != 0
	case int:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
