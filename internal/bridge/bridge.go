// Package bridge syncs pages with JSON files on disk so layouts can be
// edited with external tools. Pages export as <slug>.json under the
// export dir; edits to those files are re-imported (with legacy
// migration) after a short debounce.
package bridge

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pagegrid/internal/domain"
	"pagegrid/internal/service"
)

const debounce = 500 * time.Millisecond

// Bridge watches the export directory and keeps it in sync with the
// store.
type Bridge struct {
	layout *service.LayoutService
	pages  *service.PageService
	dir    string

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu        sync.Mutex
	selfWrite map[string]time.Time
}

// New creates a Bridge rooted at dir.
func New(layout *service.LayoutService, pages *service.PageService, dir string) *Bridge {
	return &Bridge{
		layout:    layout,
		pages:     pages,
		dir:       dir,
		selfWrite: make(map[string]time.Time),
	}
}

// PagePath returns the export file for a page.
func (b *Bridge) PagePath(p *domain.Page) string {
	return filepath.Join(b.dir, p.Slug+".json")
}

// ExportPage writes a page's canonical block list to its export file.
func (b *Bridge) ExportPage(p *domain.Page) error {
	data, err := b.layout.Export(p.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := b.PagePath(p)

	b.mu.Lock()
	b.selfWrite[path] = time.Now()
	b.mu.Unlock()

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ExportAll writes every page's export file.
func (b *Bridge) ExportAll() error {
	pages, err := b.pages.ListPages()
	if err != nil {
		return err
	}
	for i := range pages {
		if err := b.ExportPage(&pages[i]); err != nil {
			return err
		}
	}
	return nil
}

// Start begins watching the export directory. Each changed page file
// is re-imported once writes settle.
func (b *Bridge) Start(ctx context.Context) error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(b.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", b.dir, err)
	}
	b.watcher = watcher

	watchCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				path := event.Name
				if b.isSelfWrite(path) {
					continue
				}
				if t, exists := timers[path]; exists {
					t.Stop()
				}
				timers[path] = time.AfterFunc(debounce, func() {
					b.importFile(ctx, path)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[bridge] watch error: %v", err)
			}
		}
	}()

	log.Printf("[bridge] watching %s", b.dir)
	return nil
}

// Stop tears the watcher down.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if b.watcher != nil {
		b.watcher.Close()
		b.watcher = nil
	}
}

// isSelfWrite filters events caused by our own exports so an export
// does not bounce straight back as an import.
func (b *Bridge) isSelfWrite(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	at, ok := b.selfWrite[path]
	if !ok {
		return false
	}
	if time.Since(at) > 2*time.Second {
		delete(b.selfWrite, path)
		return false
	}
	return true
}

func (b *Bridge) importFile(ctx context.Context, path string) {
	slug := strings.TrimSuffix(filepath.Base(path), ".json")
	page, err := b.pages.ResolvePage(slug)
	if err != nil {
		log.Printf("[bridge] %s: no page for slug %q", path, slug)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[bridge] read %s: %v", path, err)
		return
	}
	if err := b.layout.Import(ctx, page.ID, data); err != nil {
		log.Printf("[bridge] import %s: %v", path, err)
		return
	}
	log.Printf("[bridge] re-imported %s", slug)
}
