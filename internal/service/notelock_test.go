package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNoteLocksMutualExclusion(t *testing.T) {
	locks := newNoteLocks()
	noteID := uuid.New()

	const workers = 20
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(noteID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestNoteLocksIndependentNotes(t *testing.T) {
	locks := newNoteLocks()

	// Holding one note's lock must not block another note's.
	unlockA := locks.lock(uuid.New())
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.lock(uuid.New())
		unlockB()
		close(done)
	}()
	<-done
}

func TestNoteLocksEntryCleanup(t *testing.T) {
	locks := newNoteLocks()
	noteID := uuid.New()

	unlock := locks.lock(noteID)
	unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}
