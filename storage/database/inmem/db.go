// Package inmem is an in-process entry store for tests and demos.
package inmem

import (
	"sync"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = core.NewShutdownError("inmem: entry store is closed")

type (
	DB struct {
		entry *entryTable
	}

	entryTable struct {
		sync.RWMutex
		pkCount int
		closed  bool
		table   map[int]*entry.StudyEntry
	}
)

func Open() *DB {
	return &DB{
		entry: &entryTable{table: make(map[int]*entry.StudyEntry)},
	}
}

// Close drops every entry. The store cannot be used afterwards.
func (db *DB) Close() error {
	db.entry.Lock()
	defer db.entry.Unlock()

	db.entry.closed = true
	db.entry.table = nil
	return nil
}
