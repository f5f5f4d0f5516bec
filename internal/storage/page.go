package storage

import (
	"fmt"
	"time"

	"pagegrid/internal/domain"
)

// PageStore implements domain.PageStore using SQLite.
type PageStore struct {
	db *DB
}

func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

func (s *PageStore) CreatePage(p *domain.Page) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.PageStatusDraft
	}
	_, err := s.db.conn.Exec(
		`INSERT INTO pages (id, name, slug, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PageStore) GetPage(id string) (*domain.Page, error) {
	p := &domain.Page{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, slug, status, created_at, updated_at FROM pages WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Slug, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return p, nil
}

func (s *PageStore) GetPageBySlug(slug string) (*domain.Page, error) {
	p := &domain.Page{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, slug, status, created_at, updated_at FROM pages WHERE slug = ?`, slug,
	).Scan(&p.ID, &p.Name, &p.Slug, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get page by slug: %w", err)
	}
	return p, nil
}

func (s *PageStore) ListPages() ([]domain.Page, error) {
	rows, err := s.db.conn.Query(`SELECT id, name, slug, status, created_at, updated_at FROM pages ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *PageStore) UpdatePage(p *domain.Page) error {
	p.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE pages SET name = ?, slug = ?, status = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Slug, p.Status, p.UpdatedAt, p.ID,
	)
	return err
}

func (s *PageStore) DeletePage(id string) error {
	if _, err := s.db.conn.Exec(`DELETE FROM blocks WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("delete page blocks: %w", err)
	}
	if _, err := s.db.conn.Exec(`DELETE FROM snapshots WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("delete page snapshots: %w", err)
	}
	_, _ = s.db.conn.Exec(`DELETE FROM snapshot_state WHERE page_id = ?`, id)
	_, err := s.db.conn.Exec(`DELETE FROM pages WHERE id = ?`, id)
	return err
}
