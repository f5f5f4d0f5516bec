package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pagegrid/internal/domain"
)

// PageService manages page metadata.
type PageService struct {
	pages   domain.PageStore
	emitter EventEmitter
}

// NewPageService creates a PageService.
func NewPageService(pages domain.PageStore, emitter EventEmitter) *PageService {
	return &PageService{pages: pages, emitter: emitter}
}

// CreatePage creates a draft page. An empty slug is derived from the
// name.
func (s *PageService) CreatePage(ctx context.Context, name, slug string) (*domain.Page, error) {
	if name == "" {
		return nil, fmt.Errorf("page name required")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	p := &domain.Page{
		ID:     uuid.New().String(),
		Name:   name,
		Slug:   slug,
		Status: domain.PageStatusDraft,
	}
	if err := s.pages.CreatePage(p); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.emit(ctx, p.ID)
	return p, nil
}

// GetPage returns a page by ID.
func (s *PageService) GetPage(id string) (*domain.Page, error) {
	return s.pages.GetPage(id)
}

// ResolvePage looks a page up by ID first, then by slug, so CLI and
// MCP callers can use either.
func (s *PageService) ResolvePage(ref string) (*domain.Page, error) {
	if p, err := s.pages.GetPage(ref); err == nil {
		return p, nil
	}
	p, err := s.pages.GetPageBySlug(ref)
	if err != nil {
		return nil, fmt.Errorf("no page with id or slug %q", ref)
	}
	return p, nil
}

// ListPages returns all pages.
func (s *PageService) ListPages() ([]domain.Page, error) {
	return s.pages.ListPages()
}

// RenamePage updates a page's name and optionally its slug.
func (s *PageService) RenamePage(ctx context.Context, id, name, slug string) (*domain.Page, error) {
	p, err := s.pages.GetPage(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		p.Name = name
	}
	if slug != "" {
		p.Slug = slug
	}
	if err := s.pages.UpdatePage(p); err != nil {
		return nil, fmt.Errorf("rename page: %w", err)
	}
	s.emit(ctx, p.ID)
	return p, nil
}

// SetStatus transitions a page between draft and published.
func (s *PageService) SetStatus(ctx context.Context, id string, status domain.PageStatus) error {
	if status != domain.PageStatusDraft && status != domain.PageStatusPublished {
		return fmt.Errorf("unknown page status %q", status)
	}
	p, err := s.pages.GetPage(id)
	if err != nil {
		return err
	}
	p.Status = status
	if err := s.pages.UpdatePage(p); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	s.emit(ctx, p.ID)
	return nil
}

// DeletePage removes a page with its blocks and history.
func (s *PageService) DeletePage(ctx context.Context, id string) error {
	if err := s.pages.DeletePage(id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	s.emit(ctx, id)
	return nil
}

func (s *PageService) emit(ctx context.Context, pageID string) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, EventPageChanged, pageID)
	}
}

// Slugify lowercases a name and collapses everything non-alphanumeric
// into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
