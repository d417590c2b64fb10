package workflow

import (
	"encoding/json"
	"testing"
)

const sampleMetadata = `{
	"workflow": {
		"nodes": [
			{"id": 3, "type": "LoadImage", "properties": {}},
			{"id": 7, "type": "ListFilterToggle", "properties": {"_itemsData": "[{\"name\":\"y\",\"active\":false}]"}},
			"not a node",
			{"id": "12:4", "type": "ListFilterToggle"}
		]
	}
}`

func TestParseAndFindNode(t *testing.T) {
	meta, err := Parse([]byte(sampleMetadata))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(meta.Workflow.Nodes) != 3 {
		t.Fatalf("expected non-object nodes to be skipped, got %d nodes", len(meta.Workflow.Nodes))
	}

	node, ok := meta.FindNode("7")
	if !ok {
		t.Fatalf("expected node 7 to be found by its numeric id")
	}
	if node.Type != "ListFilterToggle" {
		t.Fatalf("unexpected node type %q", node.Type)
	}

	if _, ok := meta.FindNode("12:4"); !ok {
		t.Fatalf("expected string id to be found")
	}

	if _, ok := meta.FindNode("99"); ok {
		t.Fatalf("expected unknown id to be missing")
	}
}

func TestToggleRecord(t *testing.T) {
	meta, err := Parse([]byte(sampleMetadata))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	raw, ok := meta.ToggleRecord("7")
	if !ok {
		t.Fatalf("expected toggle record for node 7")
	}
	if raw != `[{"name":"y","active":false}]` {
		t.Fatalf("unexpected record %#v", raw)
	}

	if _, ok := meta.ToggleRecord("3"); ok {
		t.Fatalf("node without the property should have no record")
	}
	if _, ok := meta.ToggleRecord("12:4"); ok {
		t.Fatalf("node without properties should have no record")
	}
}

func TestParseEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		nodes   int
	}{
		{"empty", "", false, 0},
		{"null", "null", false, 0},
		{"no workflow", `{"other": 1}`, false, 0},
		{"workflow without nodes", `{"workflow": {}}`, false, 0},
		{"nodes not a list", `{"workflow": {"nodes": "x"}}`, false, 0},
		{"array root", `[1]`, true, 0},
		{"malformed", `{"workflow":`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := Parse([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			count := 0
			if meta.Workflow != nil {
				count = len(meta.Workflow.Nodes)
			}
			if count != tt.nodes {
				t.Fatalf("expected %d nodes, got %d", tt.nodes, count)
			}
		})
	}
}

func TestNilMetadataLookups(t *testing.T) {
	var meta *Metadata
	if _, ok := meta.FindNode("1"); ok {
		t.Fatalf("nil metadata should not find nodes")
	}
	if _, ok := meta.ToggleRecord("1"); ok {
		t.Fatalf("nil metadata should not have records")
	}
}

func TestFindNodeIgnoresEmptyID(t *testing.T) {
	meta, err := Parse([]byte(`{"workflow": {"nodes": [{"properties": {"_itemsData": "[]"}}]}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := meta.FindNode(""); ok {
		t.Fatalf("empty id must not match a node without id")
	}
}

func TestNodeID(t *testing.T) {
	if got := NodeID(json.Number("5")); got != "5" {
		t.Fatalf("expected 5, got %q", got)
	}
	if got := NodeID("5"); got != "5" {
		t.Fatalf("expected 5, got %q", got)
	}
	if got := NodeID(nil); got != "" {
		t.Fatalf("expected empty id for nil, got %q", got)
	}
}
