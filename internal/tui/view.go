package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pagegrid/internal/dnd"
	"pagegrid/internal/domain"
)

var (
	colorAccent = lipgloss.Color("86")
	colorSelect = lipgloss.Color("212")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("252")
	colorDrop   = lipgloss.Color("42")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleStatus = lipgloss.NewStyle().Foreground(colorSelect)

	styleSlot = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Foreground(colorWhite).
			Align(lipgloss.Center)
	styleSlotSelected = styleSlot.
				BorderForeground(colorSelect).
				Foreground(colorSelect).
				Bold(true)
	styleSlotDragged = styleSlot.
				Border(lipgloss.DoubleBorder()).
				BorderForeground(colorAccent)
	styleFree = lipgloss.NewStyle().
			Foreground(colorDim).
			Align(lipgloss.Center)

	styleGutter     = lipgloss.NewStyle().Foreground(colorDim).Width(3)
	styleGutterMark = lipgloss.NewStyle().Foreground(colorDrop).Bold(true).Width(3)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("%s  /%s", m.page.Name, m.page.Slug)))
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%s]", m.page.Status)))
	b.WriteString("\n\n")

	candidate, hasCandidate := m.ctrl.Candidate()
	for i, row := range m.rows {
		mark := "  "
		gutter := styleGutter
		if hasCandidate && i == candidate {
			mark = "▶ "
			gutter = styleGutterMark
		} else if m.mode == modeBrowse && i == m.curRow {
			mark = "· "
		}
		band := m.renderRow(row, i)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, gutter.Render(mark), band))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case modeDrag:
		b.WriteString(m.renderDragBar(hasCandidate))
	case modePickWidth:
		b.WriteString(m.renderWidthPicker())
	case modePickType:
		b.WriteString(m.renderTypePicker())
	default:
		b.WriteString(styleDim.Render("hjkl move  a add  s split  x del slot  X del row  o/O row  c dup  t type  g/G drag  u/r undo/redo  q quit"))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styleStatus.Render(m.status))
	}
	return b.String()
}

// renderRow draws one row band: a bordered box per slot plus a dim
// filler for the unused remainder.
func (m Model) renderRow(row domain.Row, rowIdx int) string {
	cells := make([]string, 0, len(row.Slots)+1)
	for j, slot := range row.Slots {
		style := styleSlot
		switch {
		case m.mode == modeDrag && m.ctrl.Kind() == dnd.KindSlot && slot.ID == m.ctrl.SlotID():
			style = styleSlotDragged
		case m.mode != modeDrag && rowIdx == m.curRow && j == m.curSlot:
			style = styleSlotSelected
		}

		label := string(slot.Type)
		if slot.IsPlaceholder() {
			label = "empty"
		}
		inner := int(slot.ColSpan)*colWidth - 2
		cells = append(cells, style.Width(inner).Render(
			label+"\n"+spanLabel(slot.ColSpan)))
	}
	if free := domain.GridColumns - row.TotalSpan; free > 0 {
		cells = append(cells, styleFree.
			Width(free*colWidth).
			Height(rowHeight-1).
			Render("· · ·"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cells...)
}

func (m Model) renderDragBar(hasCandidate bool) string {
	what := "row"
	if m.ctrl.SlotID() != "" {
		what = "slot"
	}
	hint := "no target"
	if hasCandidate {
		hint = "drop here"
	}
	return styleDim.Render(fmt.Sprintf("dragging %s (%s)  j/k aim  enter drop  esc cancel", what, hint))
}

func (m Model) renderWidthPicker() string {
	parts := make([]string, len(m.widthOpts))
	for i, w := range m.widthOpts {
		label := spanLabel(w)
		if i == m.pick {
			parts[i] = styleStatus.Render("[" + label + "]")
		} else {
			parts[i] = styleDim.Render(" " + label + " ")
		}
	}
	return "add slot: " + strings.Join(parts, " ") + styleDim.Render("  enter confirm  esc cancel")
}

func (m Model) renderTypePicker() string {
	var b strings.Builder
	b.WriteString("block type:\n")
	for i, t := range typeOptions {
		cursor := "  "
		style := styleDim
		if i == m.pick {
			cursor = "> "
			style = styleStatus
		}
		b.WriteString(style.Render(cursor + string(t)))
		b.WriteString("\n")
	}
	b.WriteString(styleDim.Render("enter confirm  esc cancel"))
	return b.String()
}
