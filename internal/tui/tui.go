// Package tui is the interactive grid editor. It renders a page's row
// view as bordered column boxes and hosts the drag controller: grab a
// slot or a row, aim it with the keyboard, drop it on a target row.
package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"pagegrid/internal/app"
	"pagegrid/internal/service"
)

// Emitter forwards layout events into the running bubbletea program so
// changes made outside the editor (MCP tools, bridge re-imports) show
// up without a keypress.
type Emitter struct {
	mu sync.Mutex
	p  *tea.Program
}

// NewEmitter returns an emitter with no program attached yet. Events
// emitted before Attach are dropped.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Attach binds the emitter to a running program.
func (e *Emitter) Attach(p *tea.Program) {
	e.mu.Lock()
	e.p = p
	e.mu.Unlock()
}

// Emit implements service.EventEmitter.
func (e *Emitter) Emit(_ context.Context, event string, _ any) {
	e.mu.Lock()
	p := e.p
	e.mu.Unlock()
	if p != nil && event == service.EventLayoutChanged {
		p.Send(refreshMsg{})
	}
}

// refreshMsg asks the model to reload the row view from the store.
type refreshMsg struct{}

// Run opens the editor on the page named by ref (id or slug) and blocks
// until the user quits.
func Run(session *app.Session, emitter *Emitter, ref string) error {
	page, err := session.Pages.ResolvePage(ref)
	if err != nil {
		return err
	}
	m, err := newModel(session.Layout, page)
	if err != nil {
		return fmt.Errorf("load page %s: %w", page.Slug, err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if emitter != nil {
		emitter.Attach(p)
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}
