package domain

import "time"

// PageStatus tracks a page's lifecycle.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)

// Page is a document in the page builder: metadata plus an ordered list
// of blocks (stored separately via BlockStore).
type Page struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Status    PageStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PageStore persists page metadata.
type PageStore interface {
	CreatePage(p *Page) error
	GetPage(id string) (*Page, error)
	GetPageBySlug(slug string) (*Page, error)
	ListPages() ([]Page, error)
	UpdatePage(p *Page) error
	DeletePage(id string) error
}
