package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagegrid/internal/domain"
)

func (s *Server) registerLayoutTools() {
	// ── list_rows ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_rows",
		mcp.WithDescription("List the derived row view of a page: rows with their slots, colStarts, colSpans and totalSpan"),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleListRows)

	// ── available_widths ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("available_widths",
		mcp.WithDescription("List the column spans (of 4, 6, 8, 12) that still fit in a row"),
		mcp.WithNumber("rowIndex", mcp.Description("Row index"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleAvailableWidths)

	// ── add_slot ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_slot",
		mcp.WithDescription("Add a placeholder slot of the given span to the end of a row. Fails softly when the span does not fit."),
		mcp.WithNumber("rowIndex", mcp.Description("Row index"), mcp.Required()),
		mcp.WithNumber("span", mcp.Description("Column span: 4, 6, 8 or 12"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleAddSlot)

	// ── split_slot ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("split_slot",
		mcp.WithDescription("Split a slot in two halves (12 -> 6+6, 8 -> 4+4). The second half is a new placeholder. Spans 6 and 4 are not splittable."),
		mcp.WithString("slotId", mcp.Description("Slot ID"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleSplitSlot)

	// ── delete_slot (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_slot",
		mcp.WithDescription("Delete a slot. An emptied row is removed; deleting the last slot leaves the default placeholder."),
		mcp.WithString("slotId", mcp.Description("Slot ID"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSlot)

	// ── duplicate_slot ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_slot",
		mcp.WithDescription("Clone a slot's content into a new full-width row directly below its row"),
		mcp.WithString("slotId", mcp.Description("Slot ID"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleDuplicateSlot)

	// ── move_slot ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_slot",
		mcp.WithDescription("Move a slot to the end of another row. Fails softly when the slot does not fit there."),
		mcp.WithString("slotId", mcp.Description("Slot ID"), mcp.Required()),
		mcp.WithNumber("targetRowIndex", mcp.Description("Destination row index"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleMoveSlot)

	// ── set_block_type ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_block_type",
		mcp.WithDescription("Assign a content type (hero, features, cta, text, image, ...) and optional config to a slot"),
		mcp.WithString("slotId", mcp.Description("Slot ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Content type"), mcp.Required()),
		mcp.WithString("config", mcp.Description("JSON object with the block config (optional)")),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleSetBlockType)

	// ── add_row ────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_row",
		mcp.WithDescription("Append a new row with one full-width placeholder"),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleAddRow)

	// ── insert_row ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("insert_row",
		mcp.WithDescription("Insert a new row with one full-width slot at an index, shifting later rows down"),
		mcp.WithNumber("atIndex", mcp.Description("Insertion index"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Content type for the new slot (optional, placeholder when omitted)")),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleInsertRow)

	// ── delete_row (destructive) ───────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_row",
		mcp.WithDescription("Delete a row with all its slots"),
		mcp.WithNumber("rowIndex", mcp.Description("Row index"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteRow)

	// ── reorder_row ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_row",
		mcp.WithDescription("Relocate a row to another index"),
		mcp.WithNumber("fromIndex", mcp.Description("Current row index"), mcp.Required()),
		mcp.WithNumber("toIndex", mcp.Description("Destination row index"), mcp.Required()),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleReorderRow)

	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last layout change on a page"),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone layout change on a page"),
		mcp.WithString("page", mcp.Description("Page ID or slug (optional, defaults to active page)")),
	), s.handleRedo)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListRows(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.resolvePage(req.GetArguments())
	if err != nil {
		return nil, err
	}
	rows, err := s.layout.Rows(page.ID)
	if err != nil {
		return nil, err
	}
	return jsonResult(rows)
}

func (s *Server) handleAvailableWidths(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	widths, err := s.layout.AvailableWidths(page.ID, getInt(args, "rowIndex", -1))
	if err != nil {
		return nil, err
	}
	return jsonResult(widths)
}

func (s *Server) handleAddSlot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	rowIdx := getInt(args, "rowIndex", -1)
	span := domain.ColSpan(getInt(args, "span", 0))
	if !span.Valid() {
		return nil, fmt.Errorf("span must be one of 4, 6, 8, 12")
	}
	ok, err := s.layout.AddSlot(ctx, page.ID, rowIdx, span)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult(fmt.Sprintf("a span of %d does not fit in row %d", span, rowIdx)), nil
	}
	return textResult(fmt.Sprintf("added a %d-wide slot to row %d", span, rowIdx)), nil
}

func (s *Server) handleSplitSlot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	slotID, _ := args["slotId"].(string)
	if slotID == "" {
		return nil, fmt.Errorf("slotId is required")
	}
	ok, err := s.layout.SplitSlot(ctx, page.ID, slotID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("slot is not splittable (only spans 12 and 8 split)"), nil
	}
	return textResult("slot split in two halves"), nil
}

func (s *Server) handleDeleteSlot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	slotID, _ := args["slotId"].(string)
	if slotID == "" {
		return nil, fmt.Errorf("slotId is required")
	}
	if _, err := s.layout.DeleteSlot(ctx, page.ID, slotID); err != nil {
		return nil, err
	}
	return textResult("slot deleted"), nil
}

func (s *Server) handleDuplicateSlot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	slotID, _ := args["slotId"].(string)
	if slotID == "" {
		return nil, fmt.Errorf("slotId is required")
	}
	if _, err := s.layout.DuplicateSlot(ctx, page.ID, slotID); err != nil {
		return nil, err
	}
	return textResult("slot duplicated into a new full-width row below its source"), nil
}

func (s *Server) handleMoveSlot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	slotID, _ := args["slotId"].(string)
	if slotID == "" {
		return nil, fmt.Errorf("slotId is required")
	}
	target := getInt(args, "targetRowIndex", -1)
	ok, err := s.layout.MoveSlot(ctx, page.ID, slotID, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult(fmt.Sprintf("slot does not fit in row %d", target)), nil
	}
	return textResult(fmt.Sprintf("slot moved to row %d", target)), nil
}

func (s *Server) handleSetBlockType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	slotID, _ := args["slotId"].(string)
	if slotID == "" {
		return nil, fmt.Errorf("slotId is required")
	}
	rawType, _ := args["type"].(string)
	blockType := domain.BlockType(rawType)
	if !domain.ValidBlockTypes[blockType] {
		return nil, fmt.Errorf("unknown block type %q", rawType)
	}

	var config map[string]any
	if raw, ok := args["config"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &config); err != nil {
			return nil, fmt.Errorf("config must be a JSON object: %w", err)
		}
	}

	ok, err := s.layout.SetBlockType(ctx, page.ID, slotID, blockType, config)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("no such slot"), nil
	}
	return textResult(fmt.Sprintf("slot is now a %s block", blockType)), nil
}

func (s *Server) handleAddRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.resolvePage(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if _, err := s.layout.AddRow(ctx, page.ID); err != nil {
		return nil, err
	}
	return textResult("row appended"), nil
}

func (s *Server) handleInsertRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	at := getInt(args, "atIndex", 0)
	blockType := domain.BlockTypePlaceholder
	if raw, ok := args["type"].(string); ok && raw != "" {
		blockType = domain.BlockType(raw)
		if !domain.ValidBlockTypes[blockType] {
			return nil, fmt.Errorf("unknown block type %q", raw)
		}
	}
	if _, err := s.layout.InsertRow(ctx, page.ID, at, blockType); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("row inserted at index %d", at)), nil
}

func (s *Server) handleDeleteRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	rowIdx := getInt(args, "rowIndex", -1)
	changed, err := s.layout.DeleteRow(ctx, page.ID, rowIdx)
	if err != nil {
		return nil, err
	}
	if !changed {
		return textResult(fmt.Sprintf("no row at index %d", rowIdx)), nil
	}
	return textResult(fmt.Sprintf("row %d deleted", rowIdx)), nil
}

func (s *Server) handleReorderRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.resolvePage(args)
	if err != nil {
		return nil, err
	}
	from := getInt(args, "fromIndex", -1)
	to := getInt(args, "toIndex", -1)
	changed, err := s.layout.ReorderRow(ctx, page.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !changed {
		return textResult("nothing to reorder"), nil
	}
	return textResult(fmt.Sprintf("row %d moved to index %d", from, to)), nil
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.resolvePage(req.GetArguments())
	if err != nil {
		return nil, err
	}
	ok, err := s.layout.Undo(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("nothing to undo"), nil
	}
	return textResult("undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.resolvePage(req.GetArguments())
	if err != nil {
		return nil, err
	}
	ok, err := s.layout.Redo(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("nothing to redo"), nil
	}
	return textResult("redone"), nil
}
