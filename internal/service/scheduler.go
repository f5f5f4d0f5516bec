package service

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// SnapshotScheduler pushes a periodic "autosnapshot" for pages that
// changed since the last tick. It is a safety net on top of the
// per-mutation history, mainly for bursts of external edits arriving
// through the file bridge.
type SnapshotScheduler struct {
	layout *LayoutService

	mu    sync.Mutex
	dirty map[string]bool
	sched *cron.Cron
}

// NewSnapshotScheduler creates a scheduler; call Start to arm it.
func NewSnapshotScheduler(layout *LayoutService) *SnapshotScheduler {
	return &SnapshotScheduler{layout: layout, dirty: make(map[string]bool)}
}

// MarkDirty flags a page for the next autosnapshot. Safe to call from
// any goroutine; wire it to LayoutService.SetOnChange.
func (s *SnapshotScheduler) MarkDirty(pageID string) {
	s.mu.Lock()
	s.dirty[pageID] = true
	s.mu.Unlock()
}

// Start schedules the autosnapshot job with the given cron expression.
func (s *SnapshotScheduler) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return err
	}
	c.Start()
	s.sched = c
	log.Printf("[snapshot] autosnapshot scheduled: %s", spec)
	return nil
}

// Stop tears the scheduler down.
func (s *SnapshotScheduler) Stop() {
	if s.sched != nil {
		s.sched.Stop()
		s.sched = nil
	}
}

func (s *SnapshotScheduler) run() {
	s.mu.Lock()
	pages := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		pages = append(pages, id)
	}
	s.dirty = make(map[string]bool)
	s.mu.Unlock()

	for _, id := range pages {
		if err := s.layout.Snapshot(id, "autosnapshot"); err != nil {
			log.Printf("[snapshot] autosnapshot for %s failed: %v", id, err)
		}
	}
}
