package grid

import (
	"fmt"

	"pagegrid/internal/domain"
)

// Mutators transform a row list into a new row list without touching
// the input (copy-on-write). An operation that does not apply — bad
// index, unknown id, insufficient space — returns the input unchanged;
// Add/Move/Split additionally report applicability as a bool so the
// caller can surface "doesn't fit" / "not splittable" feedback. Callers
// must Commit the result before persisting it.

// cloneRows copies the row list and every slot slice so mutations never
// leak into the caller's view.
func cloneRows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, len(rows))
	for i, r := range rows {
		slots := make([]domain.Block, len(r.Slots))
		copy(slots, r.Slots)
		out[i] = domain.Row{RowIndex: r.RowIndex, Slots: slots, TotalSpan: r.TotalSpan}
	}
	return out
}

// reindex restores the structural invariants after a mutation: empty
// rows are dropped, row indices are made dense from 0, member blocks'
// row fields are synced, and totals are recomputed. A document left
// with no slots at all collapses to the default placeholder.
func reindex(rows []domain.Row) []domain.Row {
	out := rows[:0]
	for _, r := range rows {
		if len(r.Slots) == 0 {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return DefaultDocument()
	}
	for i := range out {
		out[i].RowIndex = i
		total := 0
		for j := range out[i].Slots {
			out[i].Slots[j].Row = i
			total += int(out[i].Slots[j].ColSpan)
		}
		out[i].TotalSpan = total
	}
	return out
}

// findSlot locates a block by id within the row view.
func findSlot(rows []domain.Row, slotID string) (rowIdx, slotIdx int, ok bool) {
	for i, r := range rows {
		for j, s := range r.Slots {
			if s.ID == slotID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// AddSlot appends a placeholder of the given span to the end of a row.
// The second return is false when the span does not fit in the row's
// remaining space (or the row does not exist); the input is returned
// unchanged in that case.
func AddSlot(rows []domain.Row, rowIdx int, span domain.ColSpan) ([]domain.Row, bool) {
	if rowIdx < 0 || rowIdx >= len(rows) || !span.Valid() {
		return rows, false
	}
	row := rows[rowIdx]

	// A row holding nothing but the pristine full-width placeholder is
	// treated as empty: the placeholder yields space to the new slot and
	// keeps the remainder (12−s is always a legal span).
	if isPristineRow(row) {
		if span == domain.SpanFull {
			return rows, true
		}
		next := cloneRows(rows)
		next[rowIdx].Slots[0].ColSpan = domain.ColSpan(domain.GridColumns - int(span))
		ph := NewPlaceholder(span)
		ph.ColStart = domain.GridColumns - int(span)
		next[rowIdx].Slots = append(next[rowIdx].Slots, ph)
		return reindex(next), true
	}

	if int(span) > domain.GridColumns-row.TotalSpan {
		return rows, false
	}

	next := cloneRows(rows)
	ph := NewPlaceholder(span)
	ph.ColStart = row.TotalSpan
	next[rowIdx].Slots = append(next[rowIdx].Slots, ph)
	return reindex(next), true
}

// isPristineRow reports whether the row's only member is an untyped
// full-width placeholder, i.e. a row no one has put content in yet.
func isPristineRow(row domain.Row) bool {
	return len(row.Slots) == 1 &&
		row.Slots[0].IsPlaceholder() &&
		row.Slots[0].ColSpan == domain.SpanFull
}

// SplitSlot replaces a slot with two half-span slots at contiguous
// colStarts. The first half keeps the original block's identity and
// content; the second half is a new placeholder. Slots of span 6 or 4
// are not splittable and the call is a no-op returning false.
func SplitSlot(rows []domain.Row, slotID string) ([]domain.Row, bool) {
	rowIdx, slotIdx, ok := findSlot(rows, slotID)
	if !ok {
		return rows, false
	}
	orig := rows[rowIdx].Slots[slotIdx]
	if !IsSplittable(orig.ColSpan) {
		return rows, false
	}

	next := cloneRows(rows)
	half := halfSpan(orig.ColSpan)

	first := orig
	first.ColSpan = half

	second := NewPlaceholder(half)
	second.ColStart = orig.ColStart + int(half)
	second.Row = first.Row

	slots := next[rowIdx].Slots
	replaced := make([]domain.Block, 0, len(slots)+1)
	replaced = append(replaced, slots[:slotIdx]...)
	replaced = append(replaced, first, second)
	replaced = append(replaced, slots[slotIdx+1:]...)
	next[rowIdx].Slots = replaced
	return reindex(next), true
}

// DeleteSlot removes a slot. A row emptied by the deletion is removed
// and later rows shift up; deleting the very last slot in the document
// leaves the default placeholder instead.
func DeleteSlot(rows []domain.Row, slotID string) []domain.Row {
	rowIdx, slotIdx, ok := findSlot(rows, slotID)
	if !ok {
		return rows
	}
	next := cloneRows(rows)
	slots := next[rowIdx].Slots
	next[rowIdx].Slots = append(slots[:slotIdx:slotIdx], slots[slotIdx+1:]...)
	return reindex(next)
}

// DeleteRow removes an entire row with all member slots.
func DeleteRow(rows []domain.Row, rowIdx int) []domain.Row {
	if rowIdx < 0 || rowIdx >= len(rows) {
		return rows
	}
	next := cloneRows(rows)
	next = append(next[:rowIdx], next[rowIdx+1:]...)
	return reindex(next)
}

// AddRow appends a new row holding one full-width placeholder.
func AddRow(rows []domain.Row) []domain.Row {
	return InsertRow(rows, len(rows), domain.BlockTypePlaceholder)
}

// InsertRow inserts a new row with one full-width slot of the given
// type at the index, shifting subsequent rows down. An out-of-range
// index is clamped to the document's ends.
func InsertRow(rows []domain.Row, at int, blockType domain.BlockType) []domain.Row {
	if at < 0 {
		at = 0
	}
	if at > len(rows) {
		at = len(rows)
	}
	slot := NewPlaceholder(domain.SpanFull)
	if blockType != "" && blockType != domain.BlockTypePlaceholder {
		slot.Type = blockType
	}
	newRow := domain.Row{Slots: []domain.Block{slot}, TotalSpan: domain.GridColumns}

	next := cloneRows(rows)
	next = append(next, domain.Row{})
	copy(next[at+1:], next[at:])
	next[at] = newRow
	return reindex(next)
}

// DuplicateSlot clones a slot's type and config into a new full-width
// slot in a brand-new row directly below the source row, shifting
// subsequent rows down. The clone is always normalized to full width
// regardless of the source's span.
func DuplicateSlot(rows []domain.Row, slotID string) []domain.Row {
	rowIdx, slotIdx, ok := findSlot(rows, slotID)
	if !ok {
		return rows
	}
	src := rows[rowIdx].Slots[slotIdx]

	clone := NewPlaceholder(domain.SpanFull)
	clone.Type = src.Type
	clone.Config = src.CloneConfig()

	newRow := domain.Row{Slots: []domain.Block{clone}, TotalSpan: domain.GridColumns}

	next := cloneRows(rows)
	next = append(next, domain.Row{})
	copy(next[rowIdx+2:], next[rowIdx+1:])
	next[rowIdx+1] = newRow
	return reindex(next)
}

// MoveSlot removes a slot from its row and appends it to the target row
// at the target's current end. It reports false — leaving the input
// unchanged — when the slot would not fit in the target's remaining
// space, so the caller can give "doesn't fit" feedback. An emptied
// source row is pruned per DeleteSlot rules.
func MoveSlot(rows []domain.Row, slotID string, targetRowIdx int) ([]domain.Row, bool) {
	if targetRowIdx < 0 || targetRowIdx >= len(rows) {
		return rows, false
	}
	srcRowIdx, slotIdx, ok := findSlot(rows, slotID)
	if !ok {
		return rows, false
	}
	slot := rows[srcRowIdx].Slots[slotIdx]

	used := rows[targetRowIdx].TotalSpan
	if srcRowIdx == targetRowIdx {
		used -= int(slot.ColSpan)
	}
	if int(slot.ColSpan) > domain.GridColumns-used {
		return rows, false
	}

	next := cloneRows(rows)
	slots := next[srcRowIdx].Slots
	next[srcRowIdx].Slots = append(slots[:slotIdx:slotIdx], slots[slotIdx+1:]...)

	slot.ColStart = used
	next[targetRowIdx].Slots = append(next[targetRowIdx].Slots, slot)
	return reindex(next), true
}

// ReorderRow relocates a row among the rows; indices and member row
// fields are reassigned to the new positions.
func ReorderRow(rows []domain.Row, from, to int) []domain.Row {
	if from < 0 || from >= len(rows) || to < 0 || to >= len(rows) || from == to {
		return rows
	}
	next := cloneRows(rows)
	moved := next[from]
	next = append(next[:from], next[from+1:]...)

	rest := make([]domain.Row, 0, len(rows))
	rest = append(rest, next[:to]...)
	rest = append(rest, moved)
	rest = append(rest, next[to:]...)
	return reindex(rest)
}

// SetSlotType assigns a content kind (and optional config) to a slot,
// typically resolving a placeholder. Unknown types are rejected as a
// no-op.
func SetSlotType(rows []domain.Row, slotID string, blockType domain.BlockType, config map[string]any) []domain.Row {
	if !domain.ValidBlockTypes[blockType] {
		return rows
	}
	rowIdx, slotIdx, ok := findSlot(rows, slotID)
	if !ok {
		return rows
	}
	next := cloneRows(rows)
	next[rowIdx].Slots[slotIdx].Type = blockType
	if config != nil {
		next[rowIdx].Slots[slotIdx].Config = config
	}
	return next
}

// Validate checks the structural invariants of a row view. It is used
// before publishing and in tests; the mutators themselves never produce
// an invalid document.
func Validate(rows []domain.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("document has no rows")
	}
	for i, r := range rows {
		if r.RowIndex != i {
			return fmt.Errorf("row %d: index %d not dense", i, r.RowIndex)
		}
		if len(r.Slots) == 0 {
			return fmt.Errorf("row %d: empty", i)
		}
		total := 0
		prevEnd := 0
		for j, s := range r.Slots {
			if !s.ColSpan.Valid() {
				return fmt.Errorf("row %d slot %d: invalid span %d", i, j, s.ColSpan)
			}
			if s.Row != i {
				return fmt.Errorf("row %d slot %d: row field %d out of sync", i, j, s.Row)
			}
			if j > 0 && s.ColStart < prevEnd {
				return fmt.Errorf("row %d slot %d: overlaps previous slot", i, j)
			}
			prevEnd = s.ColStart + int(s.ColSpan)
			total += int(s.ColSpan)
		}
		if total > domain.GridColumns {
			return fmt.Errorf("row %d: total span %d exceeds %d", i, total, domain.GridColumns)
		}
		if total != r.TotalSpan {
			return fmt.Errorf("row %d: totalSpan %d does not match slots (%d)", i, r.TotalSpan, total)
		}
	}
	return nil
}
