// Package grid implements the 12-column layout engine of the page
// builder: the row/slot projection over the flat block list, the width
// policy, and the copy-on-write mutations that drive interactive
// editing.
//
// The flat, ordered block list is the single source of truth. DeriveRows
// projects it into a row-grouped view for editing; Commit flattens the
// rows back into canonical form. Every mutator preserves the grid
// invariants: spans are one of {4, 6, 8, 12}, slots in a row never
// overlap, a row never exceeds 12 units, row indices stay dense, and the
// document always contains at least one slot.
package grid

import "pagegrid/internal/domain"

// spanOrder lists the legal spans widest-first, the order pickers
// present them in.
var spanOrder = []domain.ColSpan{
	domain.SpanFull,
	domain.SpanTwoThirds,
	domain.SpanHalf,
	domain.SpanThird,
}

// AvailableWidths returns the spans that still fit in a row that
// already uses totalSpanUsed units, widest first. A full row yields an
// empty slice.
func AvailableWidths(totalSpanUsed int) []domain.ColSpan {
	remaining := domain.GridColumns - totalSpanUsed
	var fits []domain.ColSpan
	for _, s := range spanOrder {
		if int(s) <= remaining {
			fits = append(fits, s)
		}
	}
	return fits
}

// IsSplittable reports whether a slot of the given span can be split in
// two. Only 12 (→ 6+6) and 8 (→ 4+4) qualify; halving 6 or 4 would
// produce spans outside the legal set.
func IsSplittable(span domain.ColSpan) bool {
	return span == domain.SpanFull || span == domain.SpanTwoThirds
}

// halfSpan returns the span each half takes after a split. Callers must
// check IsSplittable first.
func halfSpan(span domain.ColSpan) domain.ColSpan {
	return span / 2
}

// coerceSpan maps any persisted span value onto the legal set. Malformed
// data becomes full width so the document stays renderable.
func coerceSpan(span domain.ColSpan) domain.ColSpan {
	if span.Valid() {
		return span
	}
	return domain.SpanFull
}
