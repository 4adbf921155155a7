// Package memory implements in-memory repositories for intake drafts.
package memory

import (
	"context"
	"sync"
	"time"

	"dogdiet/internal/domain"
)

// DB holds intake drafts keyed by session ID.
type DB struct {
	mu     sync.Mutex
	drafts map[int64]domain.IntakeDraft
}

// New creates a new in-memory store.
func New() *DB {
	return &DB{drafts: make(map[int64]domain.IntakeDraft)}
}

// Ensure interfaces are met.
var _ domain.DraftRepository = (*DB)(nil)

// GetDraft returns a copy of the draft for sessionID, or nil if none exists.
func (db *DB) GetDraft(ctx context.Context, sessionID int64) (*domain.IntakeDraft, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	d, ok := db.drafts[sessionID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// SaveDraft inserts or replaces the draft for d.SessionID.
func (db *DB) SaveDraft(ctx context.Context, d domain.IntakeDraft) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}
	db.drafts[d.SessionID] = d
	return nil
}

// DeleteDraft removes the draft for sessionID. Missing drafts are not an error.
func (db *DB) DeleteDraft(ctx context.Context, sessionID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.drafts, sessionID)
	return nil
}

// DeleteExpiredDrafts removes drafts last updated before the cutoff and
// returns how many were removed.
func (db *DB) DeleteExpiredDrafts(ctx context.Context, before time.Time) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for id, d := range db.drafts {
		if d.UpdatedAt.Before(before) {
			delete(db.drafts, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored drafts.
func (db *DB) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.drafts)
}
