package grid

import (
	"reflect"
	"testing"

	"pagegrid/internal/domain"
)

func block(id string, row, colStart int, span domain.ColSpan) domain.Block {
	return domain.Block{
		ID:       id,
		Type:     domain.BlockTypeText,
		Config:   map[string]any{},
		Row:      row,
		ColStart: colStart,
		ColSpan:  span,
	}
}

func TestDeriveRows_EmptyMaterializesDefault(t *testing.T) {
	rows := DeriveRows(nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(rows[0].Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(rows[0].Slots))
	}
	s := rows[0].Slots[0]
	if !s.IsPlaceholder() || s.ColSpan != domain.SpanFull {
		t.Errorf("default slot = %+v, want full-width placeholder", s)
	}
	if rows[0].TotalSpan != 12 {
		t.Errorf("totalSpan = %d, want 12", rows[0].TotalSpan)
	}
}

func TestDeriveRows_BucketsAndSorts(t *testing.T) {
	blocks := []domain.Block{
		block("b", 0, 6, domain.SpanHalf),
		block("c", 1, 0, domain.SpanFull),
		block("a", 0, 0, domain.SpanHalf),
	}
	rows := DeriveRows(blocks)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Slots[0].ID != "a" || rows[0].Slots[1].ID != "b" {
		t.Errorf("row 0 not colStart-sorted: %s, %s", rows[0].Slots[0].ID, rows[0].Slots[1].ID)
	}
	if rows[0].TotalSpan != 12 || rows[1].TotalSpan != 12 {
		t.Errorf("totalSpans = %d, %d, want 12, 12", rows[0].TotalSpan, rows[1].TotalSpan)
	}
}

func TestDeriveRows_CompactsSparseRowIndices(t *testing.T) {
	blocks := []domain.Block{
		block("a", 3, 0, domain.SpanFull),
		block("b", 7, 0, domain.SpanFull),
	}
	rows := DeriveRows(blocks)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.RowIndex != i {
			t.Errorf("row %d has index %d", i, r.RowIndex)
		}
		if r.Slots[0].Row != i {
			t.Errorf("slot in row %d carries row field %d", i, r.Slots[0].Row)
		}
	}
}

func TestDeriveRows_CoercesMalformedSpan(t *testing.T) {
	blocks := []domain.Block{block("a", 0, 0, 5)}
	rows := DeriveRows(blocks)
	if got := rows[0].Slots[0].ColSpan; got != domain.SpanFull {
		t.Errorf("coerced span = %d, want 12", got)
	}
}

func TestDeriveRows_DoesNotMutateInput(t *testing.T) {
	blocks := []domain.Block{
		block("b", 0, 6, domain.SpanHalf),
		block("a", 0, 0, domain.SpanHalf),
	}
	DeriveRows(blocks)
	if blocks[0].ID != "b" || blocks[1].ID != "a" {
		t.Error("DeriveRows reordered the input slice")
	}
}

func TestCommit_AssignsCanonicalFields(t *testing.T) {
	blocks := []domain.Block{
		block("a", 0, 0, domain.SpanHalf),
		block("b", 0, 6, domain.SpanHalf),
		block("c", 1, 0, domain.SpanFull),
	}
	flat := Commit(DeriveRows(blocks))
	if len(flat) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(flat))
	}
	wantOrder := []int{0, 1, 2}
	wantStart := []int{0, 6, 0}
	wantRow := []int{0, 0, 1}
	for i, b := range flat {
		if b.Order != wantOrder[i] || b.ColStart != wantStart[i] || b.Row != wantRow[i] {
			t.Errorf("block %d = {order %d, colStart %d, row %d}, want {%d, %d, %d}",
				i, b.Order, b.ColStart, b.Row, wantOrder[i], wantStart[i], wantRow[i])
		}
	}
}

// Canonicalization must be idempotent: deriving and committing an
// already-committed list changes nothing.
func TestCommitDerive_Idempotent(t *testing.T) {
	inputs := [][]domain.Block{
		nil,
		{block("a", 0, 0, domain.SpanFull)},
		{block("a", 2, 4, domain.SpanHalf), block("b", 2, 0, domain.SpanThird), block("c", 5, 0, 9)},
		{block("x", 0, 0, domain.SpanThird), block("y", 0, 4, domain.SpanThird), block("z", 0, 8, domain.SpanThird)},
	}
	for i, in := range inputs {
		once := Commit(DeriveRows(in))
		twice := Commit(DeriveRows(once))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("case %d: canonicalization not idempotent:\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestUnmarshalBlocks_MigratesLegacyRecords(t *testing.T) {
	data := []byte(`[
		{"id": "a", "type": "hero", "config": {"headline": "Hi"}, "order": 0},
		{"id": "b", "type": "text", "order": 1},
		{"id": "c", "type": "cta", "order": 2, "row": 0, "colSpan": 6, "colStart": 6}
	]`)
	blocks, err := UnmarshalBlocks(data)
	if err != nil {
		t.Fatal(err)
	}
	// Legacy records become their own rows at their input position.
	if blocks[0].Row != 0 || blocks[1].Row != 1 {
		t.Errorf("legacy rows = %d, %d, want 0, 1", blocks[0].Row, blocks[1].Row)
	}
	if blocks[0].ColSpan != domain.SpanFull || blocks[1].ColSpan != domain.SpanFull {
		t.Error("legacy blocks should default to full width")
	}
	// Migrated records pass through unchanged.
	if blocks[2].Row != 0 || blocks[2].ColSpan != domain.SpanHalf || blocks[2].ColStart != 6 {
		t.Errorf("migrated block altered: %+v", blocks[2])
	}
}

func TestUnmarshalBlocks_CoercesBadSpan(t *testing.T) {
	data := []byte(`[{"id": "a", "type": "text", "row": 0, "colSpan": 7, "colStart": 0}]`)
	blocks, err := UnmarshalBlocks(data)
	if err != nil {
		t.Fatal(err)
	}
	if blocks[0].ColSpan != domain.SpanFull {
		t.Errorf("span = %d, want 12", blocks[0].ColSpan)
	}
}

func TestUnmarshalBlocks_RoundTrip(t *testing.T) {
	in := Commit(DeriveRows([]domain.Block{
		block("a", 0, 0, domain.SpanHalf),
		block("b", 0, 6, domain.SpanHalf),
	}))
	data, err := MarshalBlocks(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := UnmarshalBlocks(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\nin:  %+v\nout: %+v", in, out)
	}
}
