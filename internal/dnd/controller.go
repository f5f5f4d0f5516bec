// Package dnd is the drag-and-drop controller for the grid editor: a
// finite state machine that maps pointer gestures onto layout
// mutations. It owns no document state; the hosting editor passes the
// row view in on drop and takes the mutated result back.
package dnd

import (
	"pagegrid/internal/domain"
	"pagegrid/internal/grid"
)

// Phase is the controller's position in the gesture lifecycle.
type Phase int

const (
	// PhaseIdle means no drag is in progress.
	PhaseIdle Phase = iota
	// PhaseDragging means an entity is grabbed and candidate targets
	// are being tracked on every pointer move.
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragKind distinguishes the two draggable entities. Each kind has its
// own collision policy: a slot must land at a position inside a row's
// remaining space, so slot drags hit-test row drop-zones with the exact
// pointer first; rows only reorder among themselves, so row drags use
// plain bounding-box overlap.
type DragKind int

const (
	KindSlot DragKind = iota
	KindRow
)

func (k DragKind) String() string {
	switch k {
	case KindSlot:
		return "slot"
	case KindRow:
		return "row"
	default:
		return "unknown"
	}
}

// maxDraggableSpan is the widest slot that may be grabbed. Anything
// wider than half a row rarely fits a target row, so the grab is
// refused up front instead of failing on every drop.
const maxDraggableSpan = domain.SpanTwoThirds

// Target is a droppable region: the drop-zone of a row (for slot
// drags) or the row container itself (for row drags).
type Target struct {
	RowIndex int
	Bounds   Box
}

// Controller is the drag session state machine:
//
//	Idle → Dragging(slot|row) → {drop | cancel} → Idle
//
// It is not safe for concurrent use; all editor input runs on one
// goroutine.
type Controller struct {
	phase   Phase
	kind    DragKind
	slotID  string
	fromRow int

	targets   []Target
	candidate int // index into targets, -1 when none
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{phase: PhaseIdle, candidate: -1}
}

func (c *Controller) Phase() Phase   { return c.phase }
func (c *Controller) Kind() DragKind { return c.kind }
func (c *Controller) SlotID() string { return c.slotID }
func (c *Controller) Dragging() bool { return c.phase == PhaseDragging }

// Candidate returns the row index of the current drop target, if any.
func (c *Controller) Candidate() (int, bool) {
	if c.phase != PhaseDragging || c.candidate < 0 {
		return 0, false
	}
	return c.targets[c.candidate].RowIndex, true
}

// StartSlotDrag grabs a slot. Slots wider than 8 are not draggable and
// the grab is refused; so is a grab while another drag is in flight.
// zones are the drop-zone boxes of every row the slot could land in.
func (c *Controller) StartSlotDrag(slot domain.Block, zones []Target) bool {
	if c.phase != PhaseIdle || slot.ColSpan > maxDraggableSpan {
		return false
	}
	c.phase = PhaseDragging
	c.kind = KindSlot
	c.slotID = slot.ID
	c.fromRow = slot.Row
	c.targets = zones
	c.candidate = -1
	return true
}

// StartRowDrag grabs a whole row. boxes are the bounding boxes of every
// row container, including the grabbed row's own.
func (c *Controller) StartRowDrag(rowIdx int, boxes []Target) bool {
	if c.phase != PhaseIdle {
		return false
	}
	c.phase = PhaseDragging
	c.kind = KindRow
	c.slotID = ""
	c.fromRow = rowIdx
	c.targets = boxes
	c.candidate = -1
	return true
}

// Move recomputes the candidate target from the pointer position and
// the dragged entity's current bounding box. Pure recomputation, cheap
// enough to run on every pointer-move event.
func (c *Controller) Move(p Point, dragged Box) {
	if c.phase != PhaseDragging {
		return
	}
	switch c.kind {
	case KindSlot:
		c.candidate = c.hitTestSlot(p, dragged)
	case KindRow:
		c.candidate = c.hitTestRow(dragged)
	}
}

// hitTestSlot prefers the zone under the exact pointer; when the
// pointer is between zones it falls back to the zone the dragged box
// overlaps most.
func (c *Controller) hitTestSlot(p Point, dragged Box) int {
	for i, t := range c.targets {
		if t.Bounds.Contains(p) {
			return i
		}
	}
	return c.hitTestRow(dragged)
}

// hitTestRow picks the target with the largest bounding-box overlap.
func (c *Controller) hitTestRow(dragged Box) int {
	best, bestArea := -1, 0
	for i, t := range c.targets {
		if area := t.Bounds.OverlapArea(dragged); area > bestArea {
			best, bestArea = i, area
		}
	}
	return best
}

// Decision is the mutation a finished gesture maps to: move SlotID to
// TargetRow for slot drags, reorder FromRow to TargetRow for row drags.
type Decision struct {
	Kind      DragKind
	SlotID    string
	FromRow   int
	TargetRow int
}

// Resolve finishes the gesture and reports the mutation it calls for.
// The second return is false when the drop resolves to nothing: no
// drag in flight, no candidate target, or a row dropped onto its own
// row. The controller returns to idle either way.
func (c *Controller) Resolve() (Decision, bool) {
	if c.phase != PhaseDragging {
		return Decision{}, false
	}
	target, ok := c.Candidate()
	d := Decision{Kind: c.kind, SlotID: c.slotID, FromRow: c.fromRow, TargetRow: target}
	c.reset()
	if !ok {
		return Decision{}, false
	}
	if d.Kind == KindRow && d.TargetRow == d.FromRow {
		return Decision{}, false
	}
	return d, true
}

// Drop resolves the gesture against the document. A slot drop invokes
// the move mutator, a row drop the reorder mutator. The second return
// is true only when the document actually changed: no candidate, a
// move that does not fit, or a row dropped onto itself all resolve
// silently to the unchanged input. The controller returns to idle
// either way.
func (c *Controller) Drop(rows []domain.Row) ([]domain.Row, bool) {
	d, ok := c.Resolve()
	if !ok {
		return rows, false
	}

	switch d.Kind {
	case KindSlot:
		next, moved := grid.MoveSlot(rows, d.SlotID, d.TargetRow)
		if !moved {
			return rows, false
		}
		return next, true
	case KindRow:
		return grid.ReorderRow(rows, d.FromRow, d.TargetRow), true
	}
	return rows, false
}

// Cancel abandons the gesture without mutation.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.phase = PhaseIdle
	c.slotID = ""
	c.fromRow = 0
	c.targets = nil
	c.candidate = -1
}
