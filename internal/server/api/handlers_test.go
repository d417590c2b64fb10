package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"listfilter/internal/nodes"
	"listfilter/internal/storage"
	"listfilter/internal/storage/memory"
)

type testServer struct {
	server *Server
	store  *memory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	srv := New("test", Config{MetricsEnabled: true}, nodes.NewCatalog(logger, true), store.Runs(), logger)
	return &testServer{server: srv, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestApplySelectsIndicesInOrder(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/list_filter/apply", `{"items":["a","b","c"],"selected_indices":[2,0,5,-1]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeBody(t, rec)
	if !reflect.DeepEqual(got["filtered"], []any{"c", "a"}) {
		t.Fatalf("unexpected filtered %#v", got["filtered"])
	}
	if got["count"] != float64(2) {
		t.Fatalf("unexpected count %#v", got["count"])
	}
}

func TestApplyAllowsRepeatsAndEchoesItems(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/list_filter/apply", `{"items":[1.50,{"k":true},null],"selected_indices":[0,0,1,2,"1",true,1.5]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := `{"filtered":[1.50,1.50,{"k":true},null],"count":4}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestApplyDefaultsMissingFields(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/list_filter/apply", `{}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if !reflect.DeepEqual(got["filtered"], []any{}) || got["count"] != float64(0) {
		t.Fatalf("unexpected body %#v", got)
	}
}

func TestApplyRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"items not a list", `{"items":"not a list","selected_indices":[0]}`, "items must be a list"},
		{"items null", `{"items":null}`, "items must be a list"},
		{"indices not a list", `{"items":["a"],"selected_indices":{"0":true}}`, "selected_indices must be a list"},
		{"malformed json", `{"items":[`, "Invalid JSON in request body"},
		{"empty body", ``, "Invalid JSON in request body"},
		{"trailing data", `{} {}`, "Invalid JSON in request body"},
		{"array body", `["a"]`, "request body must be a JSON object"},
		{"null body", `null`, "request body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(t, http.MethodPost, "/list_filter/apply", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := decodeBody(t, rec)["error"]; got != tt.want {
				t.Fatalf("expected error %q, got %#v", tt.want, got)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/list_filter/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec); !reflect.DeepEqual(got, map[string]any{"status": "ok"}) {
		t.Fatalf("unexpected body %#v", got)
	}
}

func TestPanicBecomesServerError(t *testing.T) {
	ts := newTestServer(t)
	ts.server.router.GET("/list_filter/boom", func(c *gin.Context) {
		panic("boom")
	})

	rec := ts.do(t, http.MethodGet, "/list_filter/boom", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "boom" {
		t.Fatalf("expected panic message, got %#v", got)
	}
}

func TestListNodes(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/list_filter/nodes", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got struct {
		Nodes []nodes.Definition `json:"nodes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var listed []string
	for _, def := range got.Nodes {
		listed = append(listed, def.Name)
	}
	want := []string{"ListFilterInput", "ListFilterOutput", "ListFilterToggle"}
	if !reflect.DeepEqual(listed, want) {
		t.Fatalf("expected %v, got %v", want, listed)
	}
}

func TestExecuteToggleNode(t *testing.T) {
	ts := newTestServer(t)
	body := `{
		"inputs": {"items": "x, y, z"},
		"unique_id": 7,
		"extra_pnginfo": {"workflow": {"nodes": [
			{"id": 3, "properties": {"_itemsData": "[{\"name\":\"x\",\"active\":false}]"}},
			{"id": 7, "properties": {"_itemsData": "[{\"name\":\"y\",\"active\":false}]"}}
		]}}
	}`

	rec := ts.do(t, http.MethodPost, "/list_filter/nodes/ListFilterToggle/execute", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decodeBody(t, rec)
	if !reflect.DeepEqual(got["result"], []any{[]any{"x", "z"}, float64(2)}) {
		t.Fatalf("unexpected result %#v", got["result"])
	}
	ui, _ := got["ui"].(map[string]any)
	if !reflect.DeepEqual(ui["items"], []any{"x", "y", "z"}) {
		t.Fatalf("unexpected ui %#v", got["ui"])
	}

	runs, err := ts.store.Runs().ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(runs))
	}
	run := runs[0]
	if run.NodeType != "ListFilterToggle" || run.UniqueID != "7" || run.InputCount != 3 || run.OutputCount != 2 {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestExecuteIgnoresBadMetadata(t *testing.T) {
	ts := newTestServer(t)
	body := `{"inputs": {"items": ["a", "b"]}, "unique_id": "1", "extra_pnginfo": "garbage"}`

	rec := ts.do(t, http.MethodPost, "/list_filter/nodes/ListFilterToggle/execute", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["result"]; !reflect.DeepEqual(got, []any{[]any{"a", "b"}, float64(2)}) {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestExecuteDeprecatedOutputNode(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/list_filter/nodes/ListFilterOutput/execute", `{"inputs": {"filtered_json": "{\"a\":1}"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["result"]; !reflect.DeepEqual(got, []any{"[]", float64(0)}) {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestExecuteErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/list_filter/nodes/Nope/execute", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown node, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/list_filter/nodes/ListFilterToggle/execute", `{"inputs":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/list_filter/nodes/ListFilterToggle/execute", `{"inputs":[1]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-object inputs, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "inputs must be an object" {
		t.Fatalf("unexpected error %#v", got)
	}
}

func TestListRuns(t *testing.T) {
	ts := newTestServer(t)
	for _, id := range []string{"1", "2", "3"} {
		rec := ts.do(t, http.MethodPost, "/list_filter/nodes/ListFilterToggle/execute",
			`{"inputs":{"items":["a"]},"unique_id":"`+id+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("execute %s: %d", id, rec.Code)
		}
	}

	rec := ts.do(t, http.MethodGet, "/list_filter/runs?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got struct {
		Runs []storage.Run `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got.Runs))
	}

	for _, limit := range []string{"0", "-3", "abc"} {
		rec := ts.do(t, http.MethodGet, "/list_filter/runs?limit="+limit, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: expected 400, got %d", limit, rec.Code)
		}
		if got := decodeBody(t, rec)["error"]; got != "limit must be a positive integer" {
			t.Fatalf("limit %q: unexpected error %#v", limit, got)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/list_filter/health", "")

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("listfilter_http_requests_total")) {
		t.Fatal("expected request counter in metrics output")
	}
}

func TestStartAndShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New("test", Config{Addr: "127.0.0.1:0"}, nodes.NewCatalog(logger, false), nil, logger)

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/list_filter/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSelectIndices(t *testing.T) {
	list := []any{"a", "b", "c"}
	got := selectIndices(list, []any{json.Number("1"), json.Number("1"), json.Number("3"), json.Number("-1"), json.Number("0.5"), false, "0"})
	if !reflect.DeepEqual(got, []any{"b", "b"}) {
		t.Fatalf("unexpected selection %#v", got)
	}
}
