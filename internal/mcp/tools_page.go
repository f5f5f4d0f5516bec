package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPageTools() {
	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new draft page seeded with one full-width placeholder row"),
		mcp.WithString("name", mcp.Description("Page name"), mcp.Required()),
		mcp.WithString("slug", mcp.Description("URL slug (optional, derived from the name)")),
	), s.handleCreatePage)

	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all pages with id, name, slug and status"),
	), s.handleListPages)

	// ── set_active_page ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_page",
		mcp.WithDescription("Set the page that layout tools operate on when no page argument is given"),
		mcp.WithString("page", mcp.Description("Page ID or slug"), mcp.Required()),
	), s.handleSetActivePage)

	// ── rename_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_page",
		mcp.WithDescription("Rename a page and/or change its slug"),
		mcp.WithString("page", mcp.Description("Page ID or slug"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name (optional)")),
		mcp.WithString("slug", mcp.Description("New slug (optional)")),
	), s.handleRenamePage)

	// ── delete_page (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page with its blocks and history"),
		mcp.WithString("page", mcp.Description("Page ID or slug"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeletePage)

	// ── export_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_page",
		mcp.WithDescription("Return a page's layout as the persisted JSON block array"),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleExportPage)

	// ── import_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_page",
		mcp.WithDescription("Replace a page's layout with a JSON block array. Legacy records without row/colSpan/colStart are migrated."),
		mcp.WithString("blocks", mcp.Description("JSON array of block records"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleImportPage)

	// ── publish_page ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("publish_page",
		mcp.WithDescription("Validate a page's layout and deploy it to the configured publish target"),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handlePublishPage)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	slug, _ := args["slug"].(string)
	page, err := s.pages.CreatePage(ctx, name, slug)
	if err != nil {
		return nil, err
	}
	if err := s.layout.InitPage(ctx, page.ID); err != nil {
		return nil, err
	}
	s.activePageID = page.ID
	return jsonResult(page)
}

func (s *Server) handleListPages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.pages.ListPages()
	if err != nil {
		return nil, err
	}
	return jsonResult(pages)
}

func (s *Server) handleSetActivePage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, _ := req.GetArguments()["page"].(string)
	page, err := s.pages.ResolvePage(ref)
	if err != nil {
		return nil, err
	}
	s.activePageID = page.ID
	return textResult(fmt.Sprintf("active page is now %s (%s)", page.Name, page.ID)), nil
}

func (s *Server) handleRenamePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	ref, _ := args["page"].(string)
	page, err := s.pages.ResolvePage(ref)
	if err != nil {
		return nil, err
	}
	name, _ := args["name"].(string)
	slug, _ := args["slug"].(string)
	updated, err := s.pages.RenamePage(ctx, page.ID, name, slug)
	if err != nil {
		return nil, err
	}
	return jsonResult(updated)
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, _ := req.GetArguments()["page"].(string)
	page, err := s.pages.ResolvePage(ref)
	if err != nil {
		return nil, err
	}
	if err := s.pages.DeletePage(ctx, page.ID); err != nil {
		return nil, err
	}
	if s.activePageID == page.ID {
		s.activePageID = ""
	}
	return textResult(fmt.Sprintf("page %s deleted", page.Name)), nil
}

func (s *Server) handleExportPage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.resolvePage(req.GetArguments())
	if err != nil {
		return nil, err
	}
	data, err := s.layout.Export(page.ID)
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

func (s *Server) handleImportPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	raw, _ := args["blocks"].(string)
	if raw == "" {
		return nil, fmt.Errorf("blocks is required")
	}
	if err := s.layout.Import(ctx, page.ID, []byte(raw)); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("layout of %s replaced", page.Name)), nil
}

func (s *Server) handlePublishPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.publisher == nil {
		return nil, fmt.Errorf("no publish target configured")
	}
	page, err := s.resolvePage(req.GetArguments())
	if err != nil {
		return nil, err
	}
	published, err := s.publisher.PublishPage(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("page %s published as /%s", published.Name, published.Slug)), nil
}
