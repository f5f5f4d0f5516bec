package tui

import (
	"testing"

	"pagegrid/internal/dnd"
	"pagegrid/internal/domain"
	"pagegrid/internal/grid"
	"pagegrid/internal/service"
	"pagegrid/internal/storage"
)

type memBlockStore struct {
	blocks map[string][]domain.Block
}

func (s *memBlockStore) ListBlocks(pageID string) ([]domain.Block, error) {
	return append([]domain.Block(nil), s.blocks[pageID]...), nil
}

func (s *memBlockStore) ReplacePageBlocks(pageID string, blocks []domain.Block) error {
	s.blocks[pageID] = append([]domain.Block(nil), blocks...)
	return nil
}

type memHistory struct{}

func (memHistory) Push(_, _, _ string) (*storage.Snapshot, error) { return &storage.Snapshot{}, nil }
func (memHistory) Undo(string) (*storage.Snapshot, error)         { return nil, nil }
func (memHistory) Redo(string) (*storage.Snapshot, error)         { return nil, nil }

func testModel(t *testing.T, rows []domain.Row) Model {
	t.Helper()
	store := &memBlockStore{blocks: map[string][]domain.Block{
		"p1": grid.Commit(rows),
	}}
	layout := service.NewLayoutService(store, memHistory{}, nil)
	m, err := newModel(layout, &domain.Page{ID: "p1", Name: "Home", Slug: "home"})
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	return m
}

func block(id string, span domain.ColSpan) domain.Block {
	return domain.Block{ID: id, Type: domain.BlockTypeText, ColSpan: span}
}

func twoRows() []domain.Row {
	return grid.DeriveRows(grid.Commit([]domain.Row{
		{RowIndex: 0, Slots: []domain.Block{block("a", domain.SpanHalf), block("b", domain.SpanThird)}},
		{RowIndex: 1, Slots: []domain.Block{block("c", domain.SpanHalf)}},
	}))
}

func TestRowTargets(t *testing.T) {
	targets := rowTargets(3)
	if len(targets) != 3 {
		t.Fatalf("len = %d, want 3", len(targets))
	}
	for i, tg := range targets {
		if tg.RowIndex != i {
			t.Errorf("target %d: RowIndex = %d", i, tg.RowIndex)
		}
		want := dnd.Box{X: 0, Y: i * rowHeight, Width: domain.GridColumns * colWidth, Height: rowHeight}
		if tg.Bounds != want {
			t.Errorf("target %d: bounds = %+v, want %+v", i, tg.Bounds, want)
		}
	}
}

func TestSlotCenter(t *testing.T) {
	slot := domain.Block{ColStart: 6, ColSpan: domain.SpanHalf}
	p := slotCenter(1, slot)
	wantX := 6*colWidth + 6*colWidth/2
	wantY := rowHeight + rowHeight/2
	if p.X != wantX || p.Y != wantY {
		t.Fatalf("center = %+v, want {%d %d}", p, wantX, wantY)
	}
}

func TestDraggedBoxCenteredOnPointer(t *testing.T) {
	p := dnd.Point{X: 30, Y: 10}
	box := draggedBox(p, domain.SpanThird)
	if !box.Contains(p) {
		t.Fatalf("box %+v does not contain pointer %+v", box, p)
	}
	if box.Width != int(domain.SpanThird)*colWidth {
		t.Fatalf("width = %d", box.Width)
	}
}

func TestStartSlotDragSeedsCandidateAtSourceRow(t *testing.T) {
	m := testModel(t, twoRows())
	m.startSlotDrag()

	if m.mode != modeDrag {
		t.Fatalf("mode = %v, want drag", m.mode)
	}
	got, ok := m.ctrl.Candidate()
	if !ok || got != 0 {
		t.Fatalf("candidate = %d, %v, want 0, true", got, ok)
	}
}

func TestAimPointerMovesCandidateAcrossRows(t *testing.T) {
	m := testModel(t, twoRows())
	m.startSlotDrag()

	m.aimPointer(rowHeight)
	if got, ok := m.ctrl.Candidate(); !ok || got != 1 {
		t.Fatalf("candidate after aim down = %d, %v, want 1, true", got, ok)
	}

	m.aimPointer(10 * rowHeight)
	if got, ok := m.ctrl.Candidate(); !ok || got != 1 {
		t.Fatalf("candidate clamps to last row, got %d, %v", got, ok)
	}
}

func TestDropPersistsMove(t *testing.T) {
	m := testModel(t, twoRows())
	m.startSlotDrag()
	m.aimPointer(rowHeight)
	m.drop()

	if m.mode != modeBrowse {
		t.Fatalf("mode = %v, want browse", m.mode)
	}
	if len(m.rows[0].Slots) != 1 || m.rows[0].Slots[0].ID != "b" {
		t.Fatalf("source row not pruned: %+v", m.rows[0].Slots)
	}
	last := m.rows[1].Slots
	if last[len(last)-1].ID != "a" {
		t.Fatalf("moved slot not at target row end: %+v", last)
	}
}

func TestFullWidthSlotNotDraggable(t *testing.T) {
	m := testModel(t, grid.DefaultDocument())
	m.startSlotDrag()

	if m.mode != modeBrowse || m.ctrl.Dragging() {
		t.Fatal("full-width slot must not be grabbable")
	}
	if m.status == "" {
		t.Fatal("expected a refusal message")
	}
}

func TestRowDragReorders(t *testing.T) {
	m := testModel(t, twoRows())
	m.curRow = 1
	m.clampCursor()
	m.startRowDrag()
	m.aimPointer(-rowHeight)
	m.drop()

	if m.rows[0].Slots[0].ID != "c" {
		t.Fatalf("row order = %+v, want c first", m.rows[0].Slots)
	}
}

func TestClampCursorAfterRowShrinks(t *testing.T) {
	m := testModel(t, twoRows())
	m.curSlot = 1
	m.curRow = 0

	m.rows = grid.DeriveRows(grid.Commit([]domain.Row{
		{RowIndex: 0, Slots: []domain.Block{block("a", domain.SpanHalf)}},
	}))
	m.clampCursor()

	if m.curRow != 0 || m.curSlot != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,0)", m.curRow, m.curSlot)
	}
}
