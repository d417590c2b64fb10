// Package toggle applies the per-item toggle state persisted by the node UI
// to a normalized item list.
package toggle

import (
	"log/slog"

	"listfilter/internal/utils"
)

type Result struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

type Filter struct {
	logger *slog.Logger
}

func NewFilter(logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{logger: logger}
}

// Resolve returns the toggle record stored for nodeID, or nil when there is
// none or it cannot be decoded. A nil record leaves every item active.
func (f *Filter) Resolve(src RecordSource, nodeID string) Record {
	if src == nil {
		return nil
	}

	raw, ok := src.ToggleRecord(nodeID)
	if !ok {
		f.logger.Debug("No toggle record for node, all items active", "node_id", nodeID)
		return nil
	}

	record, err := DecodeRecord(raw)
	if err != nil {
		f.logger.Warn("Ignoring unreadable toggle record", "node_id", nodeID, "error", err)
		return nil
	}

	return record
}

// Apply keeps the names whose flag resolves to active. Flags are keyed by
// name, so duplicate names share one flag, and record entries for names
// not in the list are ignored.
func (f *Filter) Apply(names []string, record Record) Result {
	active := make(map[string]bool, len(names))
	for _, name := range names {
		active[name] = true
	}

	for _, entry := range record {
		if _, ok := active[entry.Name]; ok {
			active[entry.Name] = entry.Active
		}
	}

	filtered := utils.FilterArray(names, func(name string) bool {
		return active[name]
	})

	return Result{Items: filtered, Count: len(filtered)}
}

func Apply(names []string, record Record) Result {
	return NewFilter(nil).Apply(names, record)
}
