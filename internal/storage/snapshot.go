package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxSnapshots bounds the per-page history length.
const maxSnapshots = 40

// Snapshot is one undo history entry: the full flattened block list of
// a page at a point in time.
type Snapshot struct {
	ID         string    `json:"id"`
	PageID     string    `json:"pageId"`
	Seq        int       `json:"seq"`
	Label      string    `json:"label"`
	BlocksJSON string    `json:"blocksJson"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SnapshotStore manages linear undo history in SQLite. Each page keeps
// a sequence of snapshots and a current-position pointer; pushing while
// the pointer is mid-history discards the redo branch.
type SnapshotStore struct {
	db *DB
}

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// currentSeq returns the page's history position, or -1 when the page
// has no snapshots yet.
func (s *SnapshotStore) currentSeq(pageID string) (int, error) {
	var seq int
	err := s.db.Conn().QueryRow(
		`SELECT current_seq FROM snapshot_state WHERE page_id = ?`, pageID,
	).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read snapshot state: %w", err)
	}
	return seq, nil
}

func (s *SnapshotStore) setCurrentSeq(pageID string, seq int) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO snapshot_state (page_id, current_seq) VALUES (?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET current_seq = excluded.current_seq`,
		pageID, seq,
	)
	return err
}

// Push records a new snapshot after the current position, discarding
// any redo entries beyond it, and prunes the oldest entries past the
// history limit.
func (s *SnapshotStore) Push(pageID, label, blocksJSON string) (*Snapshot, error) {
	cur, err := s.currentSeq(pageID)
	if err != nil {
		return nil, err
	}

	// Drop the redo branch.
	if _, err := s.db.Conn().Exec(
		`DELETE FROM snapshots WHERE page_id = ? AND seq > ?`, pageID, cur,
	); err != nil {
		return nil, fmt.Errorf("truncate redo branch: %w", err)
	}

	snap := &Snapshot{
		ID:         uuid.New().String(),
		PageID:     pageID,
		Seq:        cur + 1,
		Label:      label,
		BlocksJSON: blocksJSON,
		CreatedAt:  time.Now(),
	}
	if _, err := s.db.Conn().Exec(
		`INSERT INTO snapshots (id, page_id, seq, label, blocks_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.PageID, snap.Seq, snap.Label, snap.BlocksJSON, snap.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	if err := s.setCurrentSeq(pageID, snap.Seq); err != nil {
		return nil, fmt.Errorf("update snapshot state: %w", err)
	}

	s.pruneIfNeeded(pageID)
	return snap, nil
}

// Undo moves the position one step back and returns the snapshot at
// the new position, or nil when there is nothing to undo.
func (s *SnapshotStore) Undo(pageID string) (*Snapshot, error) {
	cur, err := s.currentSeq(pageID)
	if err != nil {
		return nil, err
	}
	if cur <= 0 {
		return nil, nil
	}
	snap, err := s.getBySeq(pageID, cur-1)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	if err := s.setCurrentSeq(pageID, snap.Seq); err != nil {
		return nil, err
	}
	return snap, nil
}

// Redo moves the position one step forward and returns the snapshot at
// the new position, or nil when there is nothing to redo.
func (s *SnapshotStore) Redo(pageID string) (*Snapshot, error) {
	cur, err := s.currentSeq(pageID)
	if err != nil {
		return nil, err
	}
	snap, err := s.getBySeq(pageID, cur+1)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	if err := s.setCurrentSeq(pageID, snap.Seq); err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns a page's history oldest first.
func (s *SnapshotStore) List(pageID string) ([]Snapshot, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, page_id, seq, label, blocks_json, created_at
		 FROM snapshots WHERE page_id = ? ORDER BY seq ASC`, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var sn Snapshot
		if err := rows.Scan(&sn.ID, &sn.PageID, &sn.Seq, &sn.Label, &sn.BlocksJSON, &sn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, sn)
	}
	return snaps, rows.Err()
}

// ClearPage removes all history for a page.
func (s *SnapshotStore) ClearPage(pageID string) error {
	_, _ = s.db.Conn().Exec(`DELETE FROM snapshot_state WHERE page_id = ?`, pageID)
	_, err := s.db.Conn().Exec(`DELETE FROM snapshots WHERE page_id = ?`, pageID)
	return err
}

func (s *SnapshotStore) getBySeq(pageID string, seq int) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.db.Conn().QueryRow(
		`SELECT id, page_id, seq, label, blocks_json, created_at
		 FROM snapshots WHERE page_id = ? AND seq = ?`, pageID, seq,
	).Scan(&snap.ID, &snap.PageID, &snap.Seq, &snap.Label, &snap.BlocksJSON, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// pruneIfNeeded removes the oldest entries when a page's history grows
// past the limit. Sequence numbers are left as-is; only relative order
// matters.
func (s *SnapshotStore) pruneIfNeeded(pageID string) {
	var count int
	s.db.Conn().QueryRow(`SELECT COUNT(*) FROM snapshots WHERE page_id = ?`, pageID).Scan(&count)
	if count <= maxSnapshots {
		return
	}
	s.db.Conn().Exec(
		`DELETE FROM snapshots WHERE page_id = ? AND seq IN (
			SELECT seq FROM snapshots WHERE page_id = ? ORDER BY seq ASC LIMIT ?
		 )`,
		pageID, pageID, count-maxSnapshots,
	)
}
