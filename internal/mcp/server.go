package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pagegrid/internal/domain"
	"pagegrid/internal/service"
)

// Publisher deploys a page to the configured publish target. Nil when
// no target is configured.
type Publisher interface {
	PublishPage(ctx context.Context, pageRef string) (*domain.Page, error)
}

// Server is the MCP server for the page builder. It exposes every
// layout operation as a tool so AI agents can build and rearrange
// pages.
type Server struct {
	mcp *server.MCPServer

	pages     *service.PageService
	layout    *service.LayoutService
	publisher Publisher

	// Active page context (set by set_active_page tool)
	activePageID string
}

// Deps holds all dependencies passed from the app layer to the MCP
// server.
type Deps struct {
	Pages     *service.PageService
	Layout    *service.LayoutService
	Publisher Publisher
}

// New creates and configures a new MCP server with all tools.
func New(deps Deps) *Server {
	s := &Server{
		pages:     deps.Pages,
		layout:    deps.Layout,
		publisher: deps.Publisher,
	}

	s.mcp = server.NewMCPServer(
		"pagegrid-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerPageTools()
	s.registerLayoutTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolvePage returns the page from the "page" tool arg (id or slug)
// or falls back to the active page.
func (s *Server) resolvePage(args map[string]any) (*domain.Page, error) {
	if ref, ok := args["page"].(string); ok && ref != "" {
		return s.pages.ResolvePage(ref)
	}
	if s.activePageID != "" {
		return s.pages.GetPage(s.activePageID)
	}
	return nil, fmt.Errorf("no page provided and no active page set (use set_active_page first)")
}

// getInt reads a numeric tool arg, which arrives as float64 over JSON.
func getInt(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func boolPtr(v bool) *bool { return &v }
