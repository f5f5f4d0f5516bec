package service_test

import (
	"context"
	"fmt"
	"testing"

	"pagegrid/internal/domain"
	"pagegrid/internal/service"
)

// memPageStore is an in-memory domain.PageStore.
type memPageStore struct {
	byID map[string]domain.Page
}

func newMemPageStore() *memPageStore {
	return &memPageStore{byID: make(map[string]domain.Page)}
}

func (m *memPageStore) CreatePage(p *domain.Page) error {
	m.byID[p.ID] = *p
	return nil
}

func (m *memPageStore) GetPage(id string) (*domain.Page, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("page %s not found", id)
	}
	return &p, nil
}

func (m *memPageStore) GetPageBySlug(slug string) (*domain.Page, error) {
	for _, p := range m.byID {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("slug %s not found", slug)
}

func (m *memPageStore) ListPages() ([]domain.Page, error) {
	var pages []domain.Page
	for _, p := range m.byID {
		pages = append(pages, p)
	}
	return pages, nil
}

func (m *memPageStore) UpdatePage(p *domain.Page) error {
	if _, ok := m.byID[p.ID]; !ok {
		return fmt.Errorf("page %s not found", p.ID)
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *memPageStore) DeletePage(id string) error {
	delete(m.byID, id)
	return nil
}

func TestPageService_CreateDerivesSlug(t *testing.T) {
	store := newMemPageStore()
	svc := service.NewPageService(store, &service.MockEmitter{})

	p, err := svc.CreatePage(context.Background(), "My Landing Page", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "my-landing-page" {
		t.Errorf("slug = %q, want my-landing-page", p.Slug)
	}
	if p.Status != domain.PageStatusDraft {
		t.Errorf("status = %q, want draft", p.Status)
	}
	if p.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestPageService_CreateRequiresName(t *testing.T) {
	svc := service.NewPageService(newMemPageStore(), &service.MockEmitter{})
	if _, err := svc.CreatePage(context.Background(), "", ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestPageService_ResolveByIDOrSlug(t *testing.T) {
	store := newMemPageStore()
	svc := service.NewPageService(store, &service.MockEmitter{})
	p, _ := svc.CreatePage(context.Background(), "Pricing", "")

	byID, err := svc.ResolvePage(p.ID)
	if err != nil || byID.ID != p.ID {
		t.Fatalf("resolve by id: %v", err)
	}
	bySlug, err := svc.ResolvePage("pricing")
	if err != nil || bySlug.ID != p.ID {
		t.Fatalf("resolve by slug: %v", err)
	}
	if _, err := svc.ResolvePage("missing"); err == nil {
		t.Error("expected error for unknown ref")
	}
}

func TestPageService_SetStatus(t *testing.T) {
	store := newMemPageStore()
	svc := service.NewPageService(store, &service.MockEmitter{})
	p, _ := svc.CreatePage(context.Background(), "Home", "")

	if err := svc.SetStatus(context.Background(), p.ID, domain.PageStatusPublished); err != nil {
		t.Fatal(err)
	}
	got, _ := store.GetPage(p.ID)
	if got.Status != domain.PageStatusPublished {
		t.Errorf("status = %q, want published", got.Status)
	}

	if err := svc.SetStatus(context.Background(), p.ID, "archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Landing Page", "my-landing-page"},
		{"Hello,  World!", "hello-world"},
		{"--Already--Slugged--", "already-slugged"},
		{"Ünïcode Überall", "n-code-berall"},
		{"123 go", "123-go"},
	}
	for _, tt := range tests {
		if got := service.Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
