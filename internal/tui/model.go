package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pagegrid/internal/dnd"
	"pagegrid/internal/domain"
	"pagegrid/internal/grid"
	"pagegrid/internal/service"
)

// Terminal cells per grid column and per rendered row band. The drag
// controller hit-tests against this coordinate space, so the rendered
// layout and the drop geometry stay in lockstep.
const (
	colWidth  = 6
	rowHeight = 4
)

// mode is the editor's input mode.
type mode int

const (
	modeBrowse mode = iota
	modeDrag
	modePickWidth
	modePickType
)

// typeOptions is the picker order for assignable content kinds.
var typeOptions = []domain.BlockType{
	domain.BlockTypeHero,
	domain.BlockTypeText,
	domain.BlockTypeImage,
	domain.BlockTypeVideo,
	domain.BlockTypeGallery,
	domain.BlockTypeSlider,
	domain.BlockTypeFeatures,
	domain.BlockTypeStats,
	domain.BlockTypeTestimonials,
	domain.BlockTypePricing,
	domain.BlockTypeFAQ,
	domain.BlockTypeForm,
	domain.BlockTypeCTA,
	domain.BlockTypeChat,
	domain.BlockTypeLogoCloud,
	domain.BlockTypeDivider,
}

// Model is the bubbletea model for the grid editor.
type Model struct {
	layout *service.LayoutService
	page   *domain.Page
	rows   []domain.Row

	curRow  int
	curSlot int

	mode mode

	ctrl     *dnd.Controller
	pointer  dnd.Point
	dragSpan domain.ColSpan

	widthOpts []domain.ColSpan
	pick      int

	status string
	width  int
	height int
}

func newModel(layout *service.LayoutService, page *domain.Page) (Model, error) {
	m := Model{
		layout: layout,
		page:   page,
		ctrl:   dnd.NewController(),
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reload() error {
	rows, err := m.layout.Rows(m.page.ID)
	if err != nil {
		return err
	}
	m.rows = rows
	m.clampCursor()
	return nil
}

func (m *Model) clampCursor() {
	if m.curRow >= len(m.rows) {
		m.curRow = len(m.rows) - 1
	}
	if m.curRow < 0 {
		m.curRow = 0
	}
	if n := len(m.rows[m.curRow].Slots); m.curSlot >= n {
		m.curSlot = n - 1
	}
	if m.curSlot < 0 {
		m.curSlot = 0
	}
}

func (m Model) currentSlot() domain.Block {
	return m.rows[m.curRow].Slots[m.curSlot]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case refreshMsg:
		if err := m.reload(); err != nil {
			m.status = err.Error()
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeDrag:
			return m.updateDrag(msg)
		case modePickWidth:
			return m.updatePickWidth(msg)
		case modePickType:
			return m.updatePickType(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.curRow > 0 {
			m.curRow--
			m.clampCursor()
		}
	case "down", "j":
		if m.curRow < len(m.rows)-1 {
			m.curRow++
			m.clampCursor()
		}
	case "left", "h":
		if m.curSlot > 0 {
			m.curSlot--
		}
	case "right", "l":
		if m.curSlot < len(m.rows[m.curRow].Slots)-1 {
			m.curSlot++
		}

	case "a":
		opts := grid.AvailableWidths(m.rows[m.curRow].TotalSpan)
		if len(opts) == 0 {
			m.status = "row is full"
			return m, nil
		}
		m.widthOpts = opts
		m.pick = 0
		m.mode = modePickWidth

	case "s":
		changed, err := m.layout.SplitSlot(ctx, m.page.ID, m.currentSlot().ID)
		m.afterMutation(changed, err, "slot cannot be split")
	case "x":
		_, err := m.layout.DeleteSlot(ctx, m.page.ID, m.currentSlot().ID)
		m.afterMutation(true, err, "")
	case "X":
		_, err := m.layout.DeleteRow(ctx, m.page.ID, m.curRow)
		m.afterMutation(true, err, "")
	case "c":
		_, err := m.layout.DuplicateSlot(ctx, m.page.ID, m.currentSlot().ID)
		m.afterMutation(true, err, "")
	case "o":
		_, err := m.layout.AddRow(ctx, m.page.ID)
		m.afterMutation(true, err, "")
	case "O":
		_, err := m.layout.InsertRow(ctx, m.page.ID, m.curRow, domain.BlockTypePlaceholder)
		m.afterMutation(true, err, "")

	case "t":
		m.pick = 0
		m.mode = modePickType

	case "u":
		changed, err := m.layout.Undo(ctx, m.page.ID)
		m.afterMutation(changed, err, "nothing to undo")
	case "r":
		changed, err := m.layout.Redo(ctx, m.page.ID)
		m.afterMutation(changed, err, "nothing to redo")

	case "g":
		m.startSlotDrag()
	case "G":
		m.startRowDrag()
	}
	return m, nil
}

// afterMutation reloads the row view and reports the outcome. A false
// changed with a nil error means the engine refused the mutation.
func (m *Model) afterMutation(changed bool, err error, refusal string) {
	if err != nil {
		m.status = err.Error()
		return
	}
	if !changed && refusal != "" {
		m.status = refusal
		return
	}
	if err := m.reload(); err != nil {
		m.status = err.Error()
	}
}

// ── Drag mode ──────────────────────────────────────────────

func (m *Model) startSlotDrag() {
	slot := m.currentSlot()
	if !m.ctrl.StartSlotDrag(slot, rowTargets(len(m.rows))) {
		m.status = "slot too wide to drag"
		return
	}
	m.dragSpan = slot.ColSpan
	m.pointer = slotCenter(m.curRow, slot)
	m.ctrl.Move(m.pointer, draggedBox(m.pointer, m.dragSpan))
	m.mode = modeDrag
}

func (m *Model) startRowDrag() {
	if !m.ctrl.StartRowDrag(m.curRow, rowTargets(len(m.rows))) {
		return
	}
	m.dragSpan = domain.SpanFull
	m.pointer = dnd.Point{X: domain.GridColumns * colWidth / 2, Y: m.curRow*rowHeight + rowHeight/2}
	m.ctrl.Move(m.pointer, draggedBox(m.pointer, m.dragSpan))
	m.mode = modeDrag
}

func (m Model) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.aimPointer(-rowHeight)
	case "down", "j":
		m.aimPointer(rowHeight)
	case "enter", " ":
		m.drop()
	case "esc", "q":
		m.ctrl.Cancel()
		m.mode = modeBrowse
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) aimPointer(dy int) {
	m.pointer.Y += dy
	if m.pointer.Y < 0 {
		m.pointer.Y = 0
	}
	if limit := len(m.rows)*rowHeight - 1; m.pointer.Y > limit {
		m.pointer.Y = limit
	}
	m.ctrl.Move(m.pointer, draggedBox(m.pointer, m.dragSpan))
}

// drop feeds the controller's resolution into the layout service so
// the move is persisted, snapshotted and broadcast like any other
// mutation. A drop that does not fit resolves silently, matching the
// controller's own contract.
func (m *Model) drop() {
	decision, ok := m.ctrl.Resolve()
	m.mode = modeBrowse
	if !ok {
		return
	}

	ctx := context.Background()
	var err error
	switch decision.Kind {
	case dnd.KindSlot:
		_, err = m.layout.MoveSlot(ctx, m.page.ID, decision.SlotID, decision.TargetRow)
	case dnd.KindRow:
		_, err = m.layout.ReorderRow(ctx, m.page.ID, decision.FromRow, decision.TargetRow)
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.curRow = decision.TargetRow
	if err := m.reload(); err != nil {
		m.status = err.Error()
	}
}

// ── Pickers ────────────────────────────────────────────────

func (m Model) updatePickWidth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "left", "h":
		if m.pick > 0 {
			m.pick--
		}
	case "down", "j", "right", "l":
		if m.pick < len(m.widthOpts)-1 {
			m.pick++
		}
	case "enter":
		ctx := context.Background()
		changed, err := m.layout.AddSlot(ctx, m.page.ID, m.curRow, m.widthOpts[m.pick])
		m.mode = modeBrowse
		m.afterMutation(changed, err, "slot does not fit")
	case "esc", "q":
		m.mode = modeBrowse
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updatePickType(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.pick > 0 {
			m.pick--
		}
	case "down", "j":
		if m.pick < len(typeOptions)-1 {
			m.pick++
		}
	case "enter":
		ctx := context.Background()
		_, err := m.layout.SetBlockType(ctx, m.page.ID, m.currentSlot().ID, typeOptions[m.pick], nil)
		m.mode = modeBrowse
		m.afterMutation(true, err, "")
	case "esc", "q":
		m.mode = modeBrowse
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// ── Geometry ───────────────────────────────────────────────

// rowTargets maps each rendered row band to a droppable region in the
// editor's cell coordinate space.
func rowTargets(n int) []dnd.Target {
	targets := make([]dnd.Target, n)
	for i := range targets {
		targets[i] = dnd.Target{
			RowIndex: i,
			Bounds: dnd.Box{
				X:      0,
				Y:      i * rowHeight,
				Width:  domain.GridColumns * colWidth,
				Height: rowHeight,
			},
		}
	}
	return targets
}

// slotCenter is where the virtual pointer starts when a slot is
// grabbed.
func slotCenter(rowIdx int, slot domain.Block) dnd.Point {
	return dnd.Point{
		X: slot.ColStart*colWidth + int(slot.ColSpan)*colWidth/2,
		Y: rowIdx*rowHeight + rowHeight/2,
	}
}

// draggedBox is the bounding box of the grabbed entity, centered on the
// pointer.
func draggedBox(p dnd.Point, span domain.ColSpan) dnd.Box {
	w := int(span) * colWidth
	return dnd.Box{
		X:      p.X - w/2,
		Y:      p.Y - rowHeight/2,
		Width:  w,
		Height: rowHeight,
	}
}

func spanLabel(s domain.ColSpan) string {
	switch s {
	case domain.SpanThird:
		return "1/3"
	case domain.SpanHalf:
		return "1/2"
	case domain.SpanTwoThirds:
		return "2/3"
	case domain.SpanFull:
		return "full"
	}
	return fmt.Sprintf("%d", int(s))
}
