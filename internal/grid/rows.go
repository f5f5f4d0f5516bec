package grid

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"pagegrid/internal/domain"
)

// NewPlaceholder creates an untyped full-width block. It is the seed of
// every new slot and of the default document.
func NewPlaceholder(span domain.ColSpan) domain.Block {
	return domain.Block{
		ID:      uuid.New().String(),
		Type:    domain.BlockTypePlaceholder,
		Config:  map[string]any{},
		ColSpan: span,
	}
}

// DefaultDocument is the terminal safeguard: a document is never empty,
// so an empty block list materializes as one full-width placeholder in
// row 0.
func DefaultDocument() []domain.Row {
	ph := NewPlaceholder(domain.SpanFull)
	return []domain.Row{{
		RowIndex:  0,
		Slots:     []domain.Block{ph},
		TotalSpan: domain.GridColumns,
	}}
}

// DeriveRows projects the flat block list into its row-grouped view.
// The input is not mutated. Blocks are bucketed by row, each bucket is
// sorted by colStart, row indices are compacted to a dense 0..N-1, and
// malformed spans are coerced to full width. An empty input yields the
// default single-placeholder document.
func DeriveRows(blocks []domain.Block) []domain.Row {
	if len(blocks) == 0 {
		return DefaultDocument()
	}

	buckets := make(map[int][]domain.Block)
	var rowKeys []int
	for _, b := range blocks {
		b.ColSpan = coerceSpan(b.ColSpan)
		if _, seen := buckets[b.Row]; !seen {
			rowKeys = append(rowKeys, b.Row)
		}
		buckets[b.Row] = append(buckets[b.Row], b)
	}
	sort.Ints(rowKeys)

	rows := make([]domain.Row, 0, len(rowKeys))
	for i, key := range rowKeys {
		slots := buckets[key]
		sort.SliceStable(slots, func(a, b int) bool {
			return slots[a].ColStart < slots[b].ColStart
		})
		total := 0
		for j := range slots {
			slots[j].Row = i
			total += int(slots[j].ColSpan)
		}
		rows = append(rows, domain.Row{RowIndex: i, Slots: slots, TotalSpan: total})
	}
	return rows
}

// Commit flattens the row view back into the canonical block list:
// row-major order, colStart recomputed as the cumulative sum of prior
// spans in the row, row set to the row's index, and order assigned as a
// global counter from 0. Commit∘DeriveRows is idempotent.
func Commit(rows []domain.Row) []domain.Block {
	var blocks []domain.Block
	order := 0
	for rowIdx, row := range rows {
		col := 0
		for _, slot := range row.Slots {
			slot.Row = rowIdx
			slot.ColStart = col
			slot.Order = order
			col += int(slot.ColSpan)
			order++
			blocks = append(blocks, slot)
		}
	}
	return blocks
}

// legacyBlock is the persisted wire shape. Early documents predate the
// grid and omit row/colSpan/colStart, so those fields decode through
// pointers to tell "absent" from zero.
type legacyBlock struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Config   map[string]any  `json:"config"`
	Order    int             `json:"order"`
	Row      *int            `json:"row,omitempty"`
	ColSpan  *domain.ColSpan `json:"colSpan,omitempty"`
	ColStart *int            `json:"colStart,omitempty"`
}

// UnmarshalBlocks decodes a persisted block array and upgrades legacy
// records to the grid schema: a block without a row becomes its own row
// at its position in input order, a missing span defaults to full
// width, and a missing colStart defaults to 0. The transform is
// idempotent — already-migrated records pass through unchanged.
func UnmarshalBlocks(data []byte) ([]domain.Block, error) {
	var raw []legacyBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	blocks := make([]domain.Block, 0, len(raw))
	for i, lb := range raw {
		b := domain.Block{
			ID:     lb.ID,
			Type:   domain.BlockType(lb.Type),
			Config: lb.Config,
			Order:  lb.Order,
		}
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.Config == nil {
			b.Config = map[string]any{}
		}
		if lb.Row != nil {
			b.Row = *lb.Row
		} else {
			b.Row = i
		}
		if lb.ColSpan != nil {
			b.ColSpan = coerceSpan(*lb.ColSpan)
		} else {
			b.ColSpan = domain.SpanFull
		}
		if lb.ColStart != nil {
			b.ColStart = *lb.ColStart
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// MarshalBlocks encodes the canonical block list in the persisted wire
// shape.
func MarshalBlocks(blocks []domain.Block) ([]byte, error) {
	return json.MarshalIndent(blocks, "", "  ")
}
