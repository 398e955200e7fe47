package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/othala/internal/library"
	"github.com/starford/othala/internal/testutil"
)

func testServer(t *testing.T) (*Server, *library.Repository) {
	t.Helper()
	repo, tax, _ := testutil.TestRepo(t)
	return New(repo, tax), repo
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct call-tool test helper, so the handler functions
	// are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_items":
		result, err = srv.searchItems(ctx, req)
	case "get_item":
		result, err = srv.getItem(ctx, req)
	case "create_item":
		result, err = srv.createItem(ctx, req)
	case "list_items":
		result, err = srv.listItems(ctx, req)
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "library_stats":
		result, err = srv.libraryStats(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndGetItem(t *testing.T) {
	srv, repo := testServer(t)

	r := callTool(t, srv, "create_item", map[string]interface{}{
		"title": "Checkpoint survey",
		"tags":  "osint, field",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "get_item", map[string]interface{}{"id": id})
	text = resultText(r)
	if !strings.Contains(text, "Checkpoint survey") {
		t.Errorf("get result = %q", text)
	}
	if !strings.Contains(text, "osint") {
		t.Errorf("tags missing from result: %q", text)
	}

	// The MCP read counted as a view like the HTTP one, so this second read
	// reports one prior view.
	it, err := repo.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if it.Views != 1 {
		t.Errorf("views = %d, want 1", it.Views)
	}
}

func TestCreateItemRequiresTitle(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_item", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error without title")
	}
}

func TestGetItemMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_item", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing item")
	}
}

func TestSearchItems(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_item", map[string]interface{}{"title": "Ukraine dossier"})
	_ = callTool(t, srv, "create_item", map[string]interface{}{"title": "Unrelated"})

	r := callTool(t, srv, "search_items", map[string]interface{}{"query": "ukraine"})
	text := resultText(r)
	if !strings.Contains(text, "Ukraine dossier") {
		t.Errorf("search missed match: %q", text)
	}
	if strings.Contains(text, "Unrelated") {
		t.Errorf("search returned non-match: %q", text)
	}
}

func TestListItemsFiltered(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_item", map[string]interface{}{"title": "a note"})
	_ = callTool(t, srv, "create_item", map[string]interface{}{"title": "a link", "type": "link"})

	r := callTool(t, srv, "list_items", map[string]interface{}{"type": "link"})
	text := resultText(r)
	if !strings.Contains(text, "a link") || strings.Contains(text, "a note") {
		t.Errorf("filtered list = %q", text)
	}

	r = callTool(t, srv, "list_items", map[string]interface{}{})
	if got := resultText(r); !strings.Contains(got, "a note") {
		t.Errorf("unfiltered list = %q", got)
	}
}

func TestListItemsEmpty(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_items", map[string]interface{}{})
	if resultText(r) != "no items" {
		t.Errorf("empty list = %q", resultText(r))
	}
}

func TestListCategories(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_categories", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"other"`) {
		t.Errorf("default categories missing: %q", text)
	}
}

func TestLibraryStats(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_item", map[string]interface{}{"title": "one"})

	r := callTool(t, srv, "library_stats", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"totalItems": 1`) {
		t.Errorf("stats = %q", text)
	}
}
