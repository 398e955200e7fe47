// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the content library to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/library"
	"github.com/starford/othala/internal/query"
	"github.com/starford/othala/internal/taxonomy"
)

// Server wraps the MCP server with library tools.
type Server struct {
	mcp  *server.MCPServer
	repo *library.Repository
	tax  *taxonomy.Store
}

// New creates an MCP server with all library tools registered.
func New(repo *library.Repository, tax *taxonomy.Store) *Server {
	s := &Server{repo: repo, tax: tax}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_items",
		mcp.WithDescription("Substring search across item titles, descriptions, tags, and content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
	), s.searchItems)

	s.mcp.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Fetch a single catalog item by id. Counts as a view."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	), s.getItem)

	s.mcp.AddTool(mcp.NewTool("create_item",
		mcp.WithDescription("Create a note or link item. Title is required; category defaults to 'other'. "+
			"Call list_categories first to pick a valid category id."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
		mcp.WithString("type", mcp.Description("Item type: note or link (default note)")),
		mcp.WithString("description", mcp.Description("Short description")),
		mcp.WithString("url", mcp.Description("URL for link items")),
		mcp.WithString("content", mcp.Description("Body text for note items")),
		mcp.WithString("category", mcp.Description("Category id")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	), s.createItem)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List catalog items, newest first."),
		mcp.WithString("category", mcp.Description("Optional category id filter")),
		mcp.WithString("type", mcp.Description("Optional type filter: note, link, or file")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the category vocabulary."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("library_stats",
		mcp.WithDescription("Aggregate counters: total items, files, links, and stored bytes."),
	), s.libraryStats)

	// Resource: item format contract.
	s.mcp.AddResource(
		mcp.NewResource("othala://item-format", "Item Format Contract",
			mcp.WithResourceDescription("Canonical catalog item structure that created items must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readItemFormatResource,
	)

	return s
}

func (s *Server) readItemFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "othala://item-format",
			MIMEType: "text/markdown",
			Text:     ItemFormatContract,
		},
	}, nil
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lib, err := s.repo.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := query.Apply(lib.Items, query.Params{Search: term, Limit: 20})
	out, _ := json.MarshalIndent(res.Items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	it, err := s.repo.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(it, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d := library.Draft{Title: title}
	if v, vErr := req.RequireString("type"); vErr == nil {
		d.Type = v
	}
	if v, vErr := req.RequireString("description"); vErr == nil {
		d.Description = v
	}
	if v, vErr := req.RequireString("url"); vErr == nil {
		d.URL = v
	}
	if v, vErr := req.RequireString("content"); vErr == nil {
		d.Content = v
	}
	if v, vErr := req.RequireString("category"); vErr == nil {
		d.Category = v
	}
	if v, vErr := req.RequireString("tags"); vErr == nil && v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				d.Tags = append(d.Tags, t)
			}
		}
	}

	it, err := s.repo.Create(d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", it.ID)), nil
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := query.Params{}
	if v, err := req.RequireString("category"); err == nil {
		p.Category = v
	}
	if v, err := req.RequireString("type"); err == nil {
		p.Type = v
	}

	lib, err := s.repo.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := query.Apply(lib.Items, p)

	var lines []string
	for _, it := range res.Items {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", it.ID, it.Type, it.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no items"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.tax.Categories()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(cats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) libraryStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, lastUpdated, err := s.repo.GlobalStats()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"totalItems":  stats.TotalItems,
		"totalFiles":  stats.TotalFiles,
		"totalLinks":  stats.TotalLinks,
		"totalSize":   stats.TotalSize,
		"lastUpdated": lastUpdated,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
