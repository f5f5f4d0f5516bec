package service

import (
	"context"
	"fmt"
	"log"
	"reflect"

	"pagegrid/internal/domain"
	"pagegrid/internal/grid"
	"pagegrid/internal/storage"
)

// History is the slice of the snapshot store the layout service needs.
type History interface {
	Push(pageID, label, blocksJSON string) (*storage.Snapshot, error)
	Undo(pageID string) (*storage.Snapshot, error)
	Redo(pageID string) (*storage.Snapshot, error)
}

// LayoutService runs every grid mutation end to end: load the flat
// block list, derive rows, apply the mutator, commit, persist, record
// an undo snapshot, and notify listeners. The no-op discipline of the
// engine carries through: an inapplicable mutation persists nothing and
// pushes no snapshot.
type LayoutService struct {
	blocks   domain.BlockStore
	history  History
	emitter  EventEmitter
	onChange func(pageID string)
}

// NewLayoutService creates a LayoutService.
func NewLayoutService(blocks domain.BlockStore, history History, emitter EventEmitter) *LayoutService {
	return &LayoutService{blocks: blocks, history: history, emitter: emitter}
}

// SetOnChange registers a hook invoked after every persisted change.
// The snapshot scheduler uses it to track dirty pages.
func (s *LayoutService) SetOnChange(fn func(pageID string)) {
	s.onChange = fn
}

// Rows returns the derived row view of a page.
func (s *LayoutService) Rows(pageID string) ([]domain.Row, error) {
	blocks, err := s.blocks.ListBlocks(pageID)
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	return grid.DeriveRows(blocks), nil
}

// Blocks returns the canonical flat block list of a page.
func (s *LayoutService) Blocks(pageID string) ([]domain.Block, error) {
	return s.blocks.ListBlocks(pageID)
}

// AvailableWidths returns the spans that still fit in a row.
func (s *LayoutService) AvailableWidths(pageID string, rowIdx int) ([]domain.ColSpan, error) {
	rows, err := s.Rows(pageID)
	if err != nil {
		return nil, err
	}
	if rowIdx < 0 || rowIdx >= len(rows) {
		return nil, fmt.Errorf("row %d out of range", rowIdx)
	}
	return grid.AvailableWidths(rows[rowIdx].TotalSpan), nil
}

// InitPage seeds a freshly created page with the default document and
// a baseline snapshot so the first undo has somewhere to land.
func (s *LayoutService) InitPage(ctx context.Context, pageID string) error {
	flat := grid.Commit(grid.DefaultDocument())
	if err := s.blocks.ReplacePageBlocks(pageID, flat); err != nil {
		return fmt.Errorf("seed page: %w", err)
	}
	s.snapshot(pageID, "initial", flat)
	s.notify(ctx, pageID)
	return nil
}

// apply is the common mutation pipeline. fn maps the current row view
// to the next one; a false return or an unchanged result persists
// nothing. The returned bool reports whether the document changed.
func (s *LayoutService) apply(ctx context.Context, pageID, label string, fn func([]domain.Row) ([]domain.Row, bool)) (bool, error) {
	blocks, err := s.blocks.ListBlocks(pageID)
	if err != nil {
		return false, fmt.Errorf("load blocks: %w", err)
	}
	rows := grid.DeriveRows(blocks)

	next, ok := fn(rows)
	if !ok {
		return false, nil
	}
	flat := grid.Commit(next)
	if reflect.DeepEqual(flat, grid.Commit(rows)) {
		return false, nil
	}

	if err := s.blocks.ReplacePageBlocks(pageID, flat); err != nil {
		return false, fmt.Errorf("persist %s: %w", label, err)
	}
	s.snapshot(pageID, label, flat)
	s.notify(ctx, pageID)
	return true, nil
}

func (s *LayoutService) AddSlot(ctx context.Context, pageID string, rowIdx int, span domain.ColSpan) (bool, error) {
	return s.apply(ctx, pageID, "add slot", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.AddSlot(rows, rowIdx, span)
	})
}

func (s *LayoutService) SplitSlot(ctx context.Context, pageID, slotID string) (bool, error) {
	return s.apply(ctx, pageID, "split slot", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.SplitSlot(rows, slotID)
	})
}

func (s *LayoutService) DeleteSlot(ctx context.Context, pageID, slotID string) (bool, error) {
	return s.apply(ctx, pageID, "delete slot", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.DeleteSlot(rows, slotID), true
	})
}

func (s *LayoutService) DeleteRow(ctx context.Context, pageID string, rowIdx int) (bool, error) {
	return s.apply(ctx, pageID, "delete row", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.DeleteRow(rows, rowIdx), true
	})
}

func (s *LayoutService) AddRow(ctx context.Context, pageID string) (bool, error) {
	return s.apply(ctx, pageID, "add row", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.AddRow(rows), true
	})
}

func (s *LayoutService) InsertRow(ctx context.Context, pageID string, at int, blockType domain.BlockType) (bool, error) {
	return s.apply(ctx, pageID, "insert row", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.InsertRow(rows, at, blockType), true
	})
}

func (s *LayoutService) DuplicateSlot(ctx context.Context, pageID, slotID string) (bool, error) {
	return s.apply(ctx, pageID, "duplicate slot", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.DuplicateSlot(rows, slotID), true
	})
}

func (s *LayoutService) MoveSlot(ctx context.Context, pageID, slotID string, targetRowIdx int) (bool, error) {
	return s.apply(ctx, pageID, "move slot", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.MoveSlot(rows, slotID, targetRowIdx)
	})
}

func (s *LayoutService) ReorderRow(ctx context.Context, pageID string, from, to int) (bool, error) {
	return s.apply(ctx, pageID, "reorder row", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.ReorderRow(rows, from, to), true
	})
}

// SetBlockType assigns a content kind (and optional config) to a slot.
func (s *LayoutService) SetBlockType(ctx context.Context, pageID, slotID string, blockType domain.BlockType, config map[string]any) (bool, error) {
	return s.apply(ctx, pageID, "set block type", func(rows []domain.Row) ([]domain.Row, bool) {
		return grid.SetSlotType(rows, slotID, blockType, config), true
	})
}

// Undo restores the previous snapshot, if any.
func (s *LayoutService) Undo(ctx context.Context, pageID string) (bool, error) {
	return s.restore(ctx, pageID, s.history.Undo)
}

// Redo restores the next snapshot, if any.
func (s *LayoutService) Redo(ctx context.Context, pageID string) (bool, error) {
	return s.restore(ctx, pageID, s.history.Redo)
}

func (s *LayoutService) restore(ctx context.Context, pageID string, step func(string) (*storage.Snapshot, error)) (bool, error) {
	snap, err := step(pageID)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}
	blocks, err := grid.UnmarshalBlocks([]byte(snap.BlocksJSON))
	if err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	if err := s.blocks.ReplacePageBlocks(pageID, blocks); err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}
	s.notify(ctx, pageID)
	return true, nil
}

// Export encodes the page's canonical block list in the persisted wire
// shape.
func (s *LayoutService) Export(pageID string) ([]byte, error) {
	blocks, err := s.blocks.ListBlocks(pageID)
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	if len(blocks) == 0 {
		blocks = grid.Commit(grid.DefaultDocument())
	}
	return grid.MarshalBlocks(blocks)
}

// Import replaces a page's layout with an external block list, running
// legacy migration and canonicalizing before persisting.
func (s *LayoutService) Import(ctx context.Context, pageID string, data []byte) error {
	blocks, err := grid.UnmarshalBlocks(data)
	if err != nil {
		return fmt.Errorf("decode import: %w", err)
	}
	rows := grid.DeriveRows(blocks)
	if err := grid.Validate(rows); err != nil {
		return fmt.Errorf("imported layout invalid: %w", err)
	}
	flat := grid.Commit(rows)
	if err := s.blocks.ReplacePageBlocks(pageID, flat); err != nil {
		return fmt.Errorf("persist import: %w", err)
	}
	s.snapshot(pageID, "import", flat)
	s.notify(ctx, pageID)
	return nil
}

// Snapshot pushes an explicitly labeled snapshot of the current state.
// Used by the autosnapshot scheduler.
func (s *LayoutService) Snapshot(pageID, label string) error {
	blocks, err := s.blocks.ListBlocks(pageID)
	if err != nil {
		return fmt.Errorf("load blocks: %w", err)
	}
	data, err := grid.MarshalBlocks(blocks)
	if err != nil {
		return err
	}
	_, err = s.history.Push(pageID, label, string(data))
	return err
}

// snapshot records the post-mutation state. Failures are logged, not
// surfaced: losing one undo step must not fail the mutation itself.
func (s *LayoutService) snapshot(pageID, label string, blocks []domain.Block) {
	data, err := grid.MarshalBlocks(blocks)
	if err != nil {
		log.Printf("[layout] encode snapshot for %s: %v", pageID, err)
		return
	}
	if _, err := s.history.Push(pageID, label, string(data)); err != nil {
		log.Printf("[layout] push snapshot for %s: %v", pageID, err)
	}
}

func (s *LayoutService) notify(ctx context.Context, pageID string) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, EventLayoutChanged, pageID)
	}
	if s.onChange != nil {
		s.onChange(pageID)
	}
}
