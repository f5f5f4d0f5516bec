package service_test

import (
	"context"
	"reflect"
	"testing"

	"pagegrid/internal/domain"
	"pagegrid/internal/service"
	"pagegrid/internal/storage"
)

// memBlockStore is an in-memory domain.BlockStore.
type memBlockStore struct {
	pages map[string][]domain.Block
}

func newMemBlockStore() *memBlockStore {
	return &memBlockStore{pages: make(map[string][]domain.Block)}
}

func (m *memBlockStore) ListBlocks(pageID string) ([]domain.Block, error) {
	blocks := m.pages[pageID]
	out := make([]domain.Block, len(blocks))
	copy(out, blocks)
	return out, nil
}

func (m *memBlockStore) ReplacePageBlocks(pageID string, blocks []domain.Block) error {
	stored := make([]domain.Block, len(blocks))
	copy(stored, blocks)
	m.pages[pageID] = stored
	return nil
}

// memHistory is an in-memory service.History with linear semantics.
type memHistory struct {
	snaps   map[string][]storage.Snapshot
	current map[string]int
}

func newMemHistory() *memHistory {
	return &memHistory{
		snaps:   make(map[string][]storage.Snapshot),
		current: make(map[string]int),
	}
}

func (h *memHistory) Push(pageID, label, blocksJSON string) (*storage.Snapshot, error) {
	cur, ok := h.current[pageID]
	if !ok {
		cur = -1
	}
	h.snaps[pageID] = append(h.snaps[pageID][:cur+1], storage.Snapshot{
		PageID:     pageID,
		Seq:        cur + 1,
		Label:      label,
		BlocksJSON: blocksJSON,
	})
	h.current[pageID] = cur + 1
	snap := h.snaps[pageID][cur+1]
	return &snap, nil
}

func (h *memHistory) Undo(pageID string) (*storage.Snapshot, error) {
	cur, ok := h.current[pageID]
	if !ok || cur <= 0 {
		return nil, nil
	}
	h.current[pageID] = cur - 1
	snap := h.snaps[pageID][cur-1]
	return &snap, nil
}

func (h *memHistory) Redo(pageID string) (*storage.Snapshot, error) {
	cur, ok := h.current[pageID]
	if !ok || cur+1 >= len(h.snaps[pageID]) {
		return nil, nil
	}
	h.current[pageID] = cur + 1
	snap := h.snaps[pageID][cur+1]
	return &snap, nil
}

func newLayoutFixture() (*service.LayoutService, *memBlockStore, *memHistory, *service.MockEmitter) {
	store := newMemBlockStore()
	history := newMemHistory()
	emitter := &service.MockEmitter{}
	return service.NewLayoutService(store, history, emitter), store, history, emitter
}

func TestLayoutService_InitPage(t *testing.T) {
	svc, store, history, emitter := newLayoutFixture()
	ctx := context.Background()

	if err := svc.InitPage(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	blocks := store.pages["p1"]
	if len(blocks) != 1 || !blocks[0].IsPlaceholder() || blocks[0].ColSpan != domain.SpanFull {
		t.Errorf("seeded blocks = %+v, want one full-width placeholder", blocks)
	}
	if len(history.snaps["p1"]) != 1 || history.snaps["p1"][0].Label != "initial" {
		t.Error("expected a baseline snapshot")
	}
	if len(emitter.Events) != 1 || emitter.Events[0].Event != service.EventLayoutChanged {
		t.Errorf("events = %+v", emitter.Events)
	}
}

func TestLayoutService_AddSlotPersistsAndSnapshots(t *testing.T) {
	svc, store, history, _ := newLayoutFixture()
	ctx := context.Background()
	svc.InitPage(ctx, "p1")

	ok, err := svc.AddSlot(ctx, "p1", 0, domain.SpanHalf)
	if err != nil || !ok {
		t.Fatalf("AddSlot = %v, %v", ok, err)
	}
	blocks := store.pages["p1"]
	if len(blocks) != 2 {
		t.Fatalf("persisted %d blocks, want 2", len(blocks))
	}
	if blocks[0].ColStart != 0 || blocks[1].ColStart != 6 {
		t.Errorf("colStarts = %d, %d, want 0, 6", blocks[0].ColStart, blocks[1].ColStart)
	}
	if got := history.snaps["p1"][len(history.snaps["p1"])-1].Label; got != "add slot" {
		t.Errorf("last snapshot label = %q", got)
	}
}

func TestLayoutService_NoopMutationPersistsNothing(t *testing.T) {
	svc, _, history, emitter := newLayoutFixture()
	ctx := context.Background()
	svc.InitPage(ctx, "p1")
	snapsBefore := len(history.snaps["p1"])
	eventsBefore := len(emitter.Events)

	// Full-width add on the pristine row leaves the document as-is.
	ok, err := svc.AddSlot(ctx, "p1", 0, domain.SpanFull)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unchanged document should report no change")
	}

	// Unknown slot id.
	if ok, _ := svc.SplitSlot(ctx, "p1", "nope"); ok {
		t.Error("split of unknown slot should be a no-op")
	}

	if len(history.snaps["p1"]) != snapsBefore {
		t.Error("no-op mutation pushed a snapshot")
	}
	if len(emitter.Events) != eventsBefore {
		t.Error("no-op mutation emitted an event")
	}
}

func TestLayoutService_MoveSlotRejectedWhenFull(t *testing.T) {
	svc, store, _, _ := newLayoutFixture()
	ctx := context.Background()

	// Two rows, each holding an 8; only 4 units free in row 1.
	data := []byte(`[
		{"id": "a", "type": "hero", "config": {}, "order": 0, "row": 0, "colSpan": 8, "colStart": 0},
		{"id": "b", "type": "text", "config": {}, "order": 1, "row": 1, "colSpan": 8, "colStart": 0}
	]`)
	if err := svc.Import(ctx, "p1", data); err != nil {
		t.Fatal(err)
	}

	ok, err := svc.MoveSlot(ctx, "p1", "a", 1)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("move into a row with only 4 units free must be rejected")
	}
	blocks := store.pages["p1"]
	if blocks[0].Row != 0 || blocks[1].Row != 1 {
		t.Errorf("rejected move changed the document: %+v", blocks)
	}
}

func TestLayoutService_UndoRedo(t *testing.T) {
	svc, store, _, _ := newLayoutFixture()
	ctx := context.Background()
	svc.InitPage(ctx, "p1")
	svc.AddSlot(ctx, "p1", 0, domain.SpanHalf)

	ok, err := svc.Undo(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if len(store.pages["p1"]) != 1 {
		t.Errorf("after undo, %d blocks, want 1", len(store.pages["p1"]))
	}

	ok, err = svc.Redo(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Redo = %v, %v", ok, err)
	}
	if len(store.pages["p1"]) != 2 {
		t.Errorf("after redo, %d blocks, want 2", len(store.pages["p1"]))
	}

	// Nothing further to redo.
	if ok, _ := svc.Redo(ctx, "p1"); ok {
		t.Error("redo at history head should report false")
	}
}

func TestLayoutService_ImportMigratesLegacyRecords(t *testing.T) {
	svc, store, _, _ := newLayoutFixture()
	ctx := context.Background()

	data := []byte(`[
		{"id": "a", "type": "hero", "config": {}, "order": 0},
		{"id": "b", "type": "text", "config": {}, "order": 1}
	]`)
	if err := svc.Import(ctx, "p1", data); err != nil {
		t.Fatal(err)
	}
	blocks := store.pages["p1"]
	if len(blocks) != 2 {
		t.Fatalf("imported %d blocks, want 2", len(blocks))
	}
	for i, b := range blocks {
		if b.Row != i || b.ColSpan != domain.SpanFull || b.ColStart != 0 {
			t.Errorf("block %d not migrated: %+v", i, b)
		}
	}
}

func TestLayoutService_ExportImportRoundTrip(t *testing.T) {
	svc, store, _, _ := newLayoutFixture()
	ctx := context.Background()
	svc.InitPage(ctx, "p1")
	svc.AddSlot(ctx, "p1", 0, domain.SpanThird)

	data, err := svc.Export("p1")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Import(ctx, "p2", data); err != nil {
		t.Fatal(err)
	}
	if len(store.pages["p2"]) != len(store.pages["p1"]) {
		t.Errorf("round trip lost blocks: %d vs %d", len(store.pages["p2"]), len(store.pages["p1"]))
	}
}

func TestLayoutService_AvailableWidths(t *testing.T) {
	svc, _, _, _ := newLayoutFixture()
	ctx := context.Background()
	svc.InitPage(ctx, "p1")

	// Adding to the pristine row shrinks the placeholder to cover the
	// remainder, so the row stays full and nothing else fits.
	svc.AddSlot(ctx, "p1", 0, domain.SpanTwoThirds)
	widths, err := svc.AvailableWidths("p1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(widths) != 0 {
		t.Errorf("widths = %v, want none for a full row", widths)
	}

	// A row using 6 of 12 units accepts a half or a third, widest first.
	blocks := `[{"id":"a","type":"text","order":0,"row":0,"colSpan":6,"colStart":0}]`
	if err := svc.Import(ctx, "p2", []byte(blocks)); err != nil {
		t.Fatal(err)
	}
	widths, err = svc.AvailableWidths("p2", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.ColSpan{domain.SpanHalf, domain.SpanThird}
	if !reflect.DeepEqual(widths, want) {
		t.Errorf("widths = %v, want %v", widths, want)
	}

	if _, err := svc.AvailableWidths("p1", 9); err == nil {
		t.Error("expected error for out-of-range row")
	}
}

func TestLayoutService_OnChangeHook(t *testing.T) {
	svc, _, _, _ := newLayoutFixture()
	ctx := context.Background()

	var dirty []string
	svc.SetOnChange(func(pageID string) { dirty = append(dirty, pageID) })

	svc.InitPage(ctx, "p1")
	svc.AddSlot(ctx, "p1", 0, domain.SpanHalf)
	svc.AddSlot(ctx, "p1", 0, domain.SpanFull) // no-op

	if len(dirty) != 2 {
		t.Errorf("onChange fired %d times, want 2", len(dirty))
	}
}
