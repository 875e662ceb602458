// Package mcpserver exposes the knowledge tools over MCP stdio
// transport for host integration.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mimir/internal/catalog"
	"github.com/starford/mimir/internal/command"
	"github.com/starford/mimir/internal/hooks"
	"github.com/starford/mimir/internal/loader"
	"github.com/starford/mimir/internal/models"
	"github.com/starford/mimir/internal/search"
)

// maxSearchResults caps how many hits the search tool renders in full.
const maxSearchResults = 10

// Server wraps the MCP server with the knowledge tools.
type Server struct {
	mcp     *server.MCPServer
	builder *catalog.Builder
	engine  *search.Engine
	loader  *loader.Loader
}

// New creates a new MCP server with all knowledge tools registered.
// dispatcher may be nil when no session hooks are wanted; commands are
// exposed as read-only resources.
func New(builder *catalog.Builder, engine *search.Engine, ldr *loader.Loader, dispatcher *hooks.Dispatcher, commands []command.Command) *Server {
	s := &Server{builder: builder, engine: engine, loader: ldr}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	}
	if dispatcher != nil {
		h := &server.Hooks{}
		h.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
			_ = dispatcher.SessionCreated(session.SessionID())
		})
		serverOpts = append(serverOpts, server.WithHooks(h))
	}

	s.mcp = server.NewMCPServer(
		"Mimir",
		"1.0.0",
		serverOpts...,
	)

	s.mcp.AddTool(mcp.NewTool("knowledge_search",
		mcp.WithDescription("Search the knowledge vault for packages matching specific tags. "+
			"Returns a ranked list of relevant knowledge packages with their metadata."),
		mcp.WithString("tags", mcp.Required(),
			mcp.Description("Comma-separated tags to search for (e.g. 'go,http,testing'). More specific tags yield better results.")),
	), s.searchKnowledge)

	s.mcp.AddTool(mcp.NewTool("knowledge_load",
		mcp.WithDescription("Load one or more knowledge packages from the vault, together with their "+
			"required prerequisite packages, in dependency-first order."),
		mcp.WithString("paths", mcp.Required(),
			mcp.Description("Comma-separated package paths relative to the vault (e.g. 'standards/code-conventions.md,frontend/react-patterns')")),
	), s.loadKnowledge)

	s.mcp.AddTool(mcp.NewTool("knowledge_index",
		mcp.WithDescription("Rebuild the knowledge catalog by scanning the vault directory. "+
			"Use this after adding new packages or if search results seem outdated."),
	), s.indexKnowledge)

	s.mcp.AddResource(
		mcp.NewResource("mimir://category-map", "Knowledge Category Map",
			mcp.WithResourceDescription("Compact overview of knowledge categories and their tags."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readCategoryMapResource,
	)

	for _, cmd := range commands {
		s.addCommandResource(cmd)
	}

	return s
}

// addCommandResource registers one host command template as a resource.
func (s *Server) addCommandResource(cmd command.Command) {
	uri := "mimir://command/" + cmd.Name
	s.mcp.AddResource(
		mcp.NewResource(uri, cmd.Name,
			mcp.WithResourceDescription(cmd.Description),
			mcp.WithMIMEType("text/markdown"),
		),
		func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     cmd.Render(time.Now()),
				},
			}, nil
		},
	)
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchKnowledge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("tags")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags := splitList(raw)
	if len(tags) == 0 {
		return mcp.NewToolResultError("no tags provided, specify at least one tag"), nil
	}

	results, err := s.engine.Search(tags)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No knowledge packages found matching [%s]", strings.Join(tags, ", "))), nil
	}

	return mcp.NewToolResultText(formatSearchResults(tags, results)), nil
}

func (s *Server) loadKnowledge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths := splitList(raw)
	if len(paths) == 0 {
		return mcp.NewToolResultError("no package paths provided"), nil
	}

	res := s.loader.Resolve(paths)
	if res.Loaded() == 0 && len(res.Failures) == 0 {
		return mcp.NewToolResultText("No packages found for the given paths"), nil
	}
	return mcp.NewToolResultText(formatLoadResult(res)), nil
}

func (s *Server) indexKnowledge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.builder.Rebuild()
	if err != nil {
		out, _ := json.Marshal(map[string]any{"success": false, "error": err.Error()})
		return mcp.NewToolResultText(string(out)), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"success":    true,
		"categories": len(c.Knowledge),
		"packages":   c.Packages(),
		"built_at":   c.BuiltAt,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readCategoryMapResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	m, err := s.engine.CategoryTagMap()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "mimir://category-map",
			MIMEType: "text/plain",
			Text:     search.FormatCategoryTagMap(m),
		},
	}, nil
}

// splitList parses a comma-separated argument, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// formatSearchResults renders the ranked hits, truncated to the top ten.
func formatSearchResults(tags []string, results []models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d packages matching [%s]:\n\n", len(results), strings.Join(tags, ", "))

	shown := results
	if len(shown) > maxSearchResults {
		shown = shown[:maxSearchResults]
	}
	for _, r := range shown {
		fmt.Fprintf(&b, "- **%s** (%.0f%%)\n", r.Path, r.RelevanceScore*100)
		fmt.Fprintf(&b, "  Tags: %s\n", strings.Join(r.MatchedTags, ", "))
		fmt.Fprintf(&b, "  %s\n\n", r.Description)
	}
	if len(results) > maxSearchResults {
		fmt.Fprintf(&b, "\n_...and %d more results_", len(results)-maxSearchResults)
	}
	return b.String()
}

// formatLoadResult renders the load-order content blocks followed by an
// itemized failure report.
func formatLoadResult(res *loader.Result) string {
	var b strings.Builder

	if res.Loaded() > 0 {
		fmt.Fprintf(&b, "Loaded %d/%d packages", res.Loaded(), res.Resolved)
		if res.Deps > 0 {
			fmt.Fprintf(&b, " (%d pulled in as dependencies)", res.Deps)
		}
		b.WriteString(":\n\n")
		for i, blk := range res.Blocks {
			if i > 0 {
				b.WriteString("\n\n---\n\n")
			}
			fmt.Fprintf(&b, "## Knowledge: %s\n\n%s", blk.Path, blk.Content)
		}
	}

	if len(res.Failures) > 0 {
		if res.Loaded() > 0 {
			b.WriteString("\n\n")
		}
		for i, f := range res.Failures {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "Failed to load %s: %s", f.Path, f.Reason)
		}
	}

	return b.String()
}
