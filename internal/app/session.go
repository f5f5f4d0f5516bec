// Package app wires the stores, services, bridge and scheduler into
// one editor session shared by the CLI, the TUI and the MCP server.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"pagegrid/internal/bridge"
	"pagegrid/internal/config"
	"pagegrid/internal/domain"
	"pagegrid/internal/grid"
	"pagegrid/internal/publish"
	"pagegrid/internal/service"
	"pagegrid/internal/storage"
)

// Session owns the shared resources of one running editor.
type Session struct {
	cfg *config.Config

	db        *storage.DB
	pageStore *storage.PageStore
	snapshots *storage.SnapshotStore

	Pages  *service.PageService
	Layout *service.LayoutService

	Bridge    *bridge.Bridge
	scheduler *service.SnapshotScheduler
	emitter   service.EventEmitter
}

// nopEmitter discards events; hosts that render (the TUI) install a
// real emitter instead.
type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}

// Option tweaks session construction.
type Option func(*Session)

// WithEmitter installs an event emitter wired to the hosting UI.
func WithEmitter(e service.EventEmitter) Option {
	return func(s *Session) { s.emitter = e }
}

// New opens the database and builds the service graph.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{cfg: cfg, emitter: nopEmitter{}}
	for _, opt := range opts {
		opt(s)
	}

	db, err := storage.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.db = db
	s.pageStore = storage.NewPageStore(db)
	s.snapshots = storage.NewSnapshotStore(db)

	blockStore := storage.NewBlockStore(db)
	s.Pages = service.NewPageService(s.pageStore, s.emitter)
	s.Layout = service.NewLayoutService(blockStore, s.snapshots, s.emitter)
	s.Bridge = bridge.New(s.Layout, s.Pages, cfg.ExportDir)

	return s, nil
}

// Start arms the background pieces: the export-file watcher and, when
// configured, the autosnapshot scheduler.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Bridge.Start(ctx); err != nil {
		return err
	}
	if spec := s.cfg.AutosnapshotSpec; spec != "" {
		s.scheduler = service.NewSnapshotScheduler(s.Layout)
		s.Layout.SetOnChange(s.scheduler.MarkDirty)
		if err := s.scheduler.Start(spec); err != nil {
			return fmt.Errorf("autosnapshot spec %q: %w", spec, err)
		}
	}
	return nil
}

// Close releases everything the session holds.
func (s *Session) Close() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.Bridge != nil {
		s.Bridge.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// CreatePage creates a page and seeds its default layout.
func (s *Session) CreatePage(ctx context.Context, name, slug string) (*domain.Page, error) {
	page, err := s.Pages.CreatePage(ctx, name, slug)
	if err != nil {
		return nil, err
	}
	if err := s.Layout.InitPage(ctx, page.ID); err != nil {
		return nil, err
	}
	return page, nil
}

// History lists a page's undo snapshots, oldest first.
func (s *Session) History(pageRef string) ([]storage.Snapshot, error) {
	page, err := s.Pages.ResolvePage(pageRef)
	if err != nil {
		return nil, err
	}
	return s.snapshots.List(page.ID)
}

// ClearHistory drops a page's undo snapshots. The layout itself is
// untouched.
func (s *Session) ClearHistory(pageRef string) error {
	page, err := s.Pages.ResolvePage(pageRef)
	if err != nil {
		return err
	}
	return s.snapshots.ClearPage(page.ID)
}

// PublishPage validates a page's layout and upserts it into the
// configured publish target, then marks the page published.
func (s *Session) PublishPage(ctx context.Context, pageRef string) (*domain.Page, error) {
	if s.cfg.Publish == nil {
		return nil, fmt.Errorf("no publish target configured")
	}
	page, err := s.Pages.ResolvePage(pageRef)
	if err != nil {
		return nil, err
	}

	blocks, err := s.Layout.Blocks(page.ID)
	if err != nil {
		return nil, err
	}
	rows := grid.DeriveRows(blocks)
	if err := grid.Validate(rows); err != nil {
		return nil, fmt.Errorf("layout of %s invalid: %w", page.Slug, err)
	}
	data, err := grid.MarshalBlocks(grid.Commit(rows))
	if err != nil {
		return nil, err
	}

	target, err := publish.New(publishSpec(s.cfg.Publish))
	if err != nil {
		return nil, err
	}
	defer target.Close()

	rec := &publish.Record{
		PageID:      page.ID,
		Slug:        page.Slug,
		Name:        page.Name,
		BlocksJSON:  string(data),
		PublishedAt: time.Now(),
	}
	if err := target.Publish(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.Pages.SetStatus(ctx, page.ID, domain.PageStatusPublished); err != nil {
		log.Printf("[app] page %s published but status update failed: %v", page.Slug, err)
	}
	page.Status = domain.PageStatusPublished
	return page, nil
}

func publishSpec(t *config.PublishTarget) publish.Spec {
	return publish.Spec{
		Driver:   t.Driver,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.Username,
		Password: t.Password,
		SSLMode:  t.SSLMode,
		Table:    t.Table,
	}
}
