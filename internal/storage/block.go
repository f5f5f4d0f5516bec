package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"pagegrid/internal/domain"
)

// BlockStore implements domain.BlockStore using SQLite. Blocks are read
// and written as whole page lists; the grid engine owns ordering and
// position, the store just persists the flattened result.
type BlockStore struct {
	db *DB
}

func NewBlockStore(db *DB) *BlockStore {
	return &BlockStore{db: db}
}

func (s *BlockStore) ListBlocks(pageID string) ([]domain.Block, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, type, config_json, sort_order, row_index, col_span, col_start
		 FROM blocks WHERE page_id = ? ORDER BY sort_order ASC`,
		pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.Block
	for rows.Next() {
		var b domain.Block
		var configJSON string
		if err := rows.Scan(&b.ID, &b.Type, &configJSON, &b.Order, &b.Row, &b.ColSpan, &b.ColStart); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		if err := json.Unmarshal([]byte(configJSON), &b.Config); err != nil {
			b.Config = map[string]any{}
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// ReplacePageBlocks atomically replaces all blocks for a page with the
// committed list. Every mutation persists through here, so the stored
// rows always reflect one canonical flatten.
func (s *BlockStore) ReplacePageBlocks(pageID string, blocks []domain.Block) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM blocks WHERE page_id = ?`, pageID); err != nil {
		return fmt.Errorf("delete blocks: %w", err)
	}

	now := time.Now()
	for _, b := range blocks {
		configJSON, err := json.Marshal(b.Config)
		if err != nil {
			return fmt.Errorf("encode config for block %s: %w", b.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO blocks (id, page_id, type, config_json, sort_order, row_index, col_span, col_start, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, pageID, b.Type, string(configJSON), b.Order, b.Row, b.ColSpan, b.ColStart, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert block %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}
