// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// progressKeyPrefix namespaces import progress by source file.
const progressKeyPrefix = "import:legacy:progress:"

// ProgressTracker persists the resumable position of an import.
type ProgressTracker interface {
	// Load returns the saved progress for source, or nil when there is none.
	Load(ctx context.Context, source string) (*Progress, error)

	// Save persists progress for progress.Source.
	Save(ctx context.Context, progress *Progress) error

	// Clear removes saved progress for source.
	Clear(ctx context.Context, source string) error
}

// BadgerProgress implements ProgressTracker using BadgerDB for persistence.
type BadgerProgress struct {
	db *badger.DB
}

// NewBadgerProgress creates a progress tracker on an open BadgerDB.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// OpenBadgerProgress opens a BadgerDB in dir. An empty dir opens an
// in-memory store. The caller closes the returned DB.
func OpenBadgerProgress(dir string) (*BadgerProgress, *badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open progress store: %w", err)
	}
	return NewBadgerProgress(db), db, nil
}

func progressKey(source string) []byte {
	return []byte(progressKeyPrefix + source)
}

// Save persists the current import progress to BadgerDB.
func (p *BadgerProgress) Save(_ context.Context, progress *Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(progressKey(progress.Source), data)
	})
}

// Load retrieves saved progress. Returns nil, nil if none was saved.
func (p *BadgerProgress) Load(_ context.Context, source string) (*Progress, error) {
	var progress *Progress

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(progressKey(source))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			progress = &Progress{}
			return json.Unmarshal(val, progress)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return progress, nil
}

// Clear removes saved progress from BadgerDB.
func (p *BadgerProgress) Clear(_ context.Context, source string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(progressKey(source))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// InMemoryProgress implements ProgressTracker without persistence.
type InMemoryProgress struct {
	mu       sync.Mutex
	progress map[string]*Progress
}

// NewInMemoryProgress creates an in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{progress: make(map[string]*Progress)}
}

// Save stores a copy of progress.
func (p *InMemoryProgress) Save(_ context.Context, progress *Progress) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress[progress.Source] = copyProgress(progress)
	return nil
}

// Load returns a copy of the stored progress.
func (p *InMemoryProgress) Load(_ context.Context, source string) (*Progress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if stored, ok := p.progress[source]; ok {
		return copyProgress(stored), nil
	}
	return nil, nil
}

// Clear removes the stored progress.
func (p *InMemoryProgress) Clear(_ context.Context, source string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.progress, source)
	return nil
}

func copyProgress(p *Progress) *Progress {
	c := *p
	c.LastIDs = make(map[string]int64, len(p.LastIDs))
	for k, v := range p.LastIDs {
		c.LastIDs[k] = v
	}
	return &c
}
