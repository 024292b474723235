package service

import (
	"sync"

	"github.com/google/uuid"
)

// noteLocks is a keyed lock table providing per-note mutual exclusion.
// A UI-driven create/cancel and an asynchronously dispatched fire for the
// same note must not interleave their read-modify-write sequences, but
// operations on different notes proceed fully in parallel, so a global
// lock is deliberately avoided.
//
// Entries are reference-counted and removed when the last holder releases,
// keeping the table bounded by the number of in-flight operations.
type noteLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*noteLockEntry
}

type noteLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newNoteLocks() *noteLocks {
	return &noteLocks{
		locks: make(map[uuid.UUID]*noteLockEntry),
	}
}

// lock acquires the mutex for the given note ID, creating the entry on
// first use. The returned function releases the mutex and drops the entry
// once no other holders remain.
func (l *noteLocks) lock(noteID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[noteID]
	if !ok {
		entry = &noteLockEntry{}
		l.locks[noteID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, noteID)
		}
		l.mu.Unlock()
	}
}
