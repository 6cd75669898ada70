package queue

import (
	"sync"
	"testing"
)

func TestItemLocksEvictAfterRelease(t *testing.T) {
	l := newItemLocks()

	release := l.acquire("item-1")

	l.mu.Lock()
	held := len(l.locks)
	l.mu.Unlock()
	if held != 1 {
		t.Fatalf("locks held = %d, want 1", held)
	}

	release()

	l.mu.Lock()
	held = len(l.locks)
	l.mu.Unlock()
	if held != 0 {
		t.Errorf("locks held = %d, want 0 after release", held)
	}
}

func TestItemLocksSerializeSameID(t *testing.T) {
	l := newItemLocks()

	const goroutines = 32
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := l.acquire("item-1")
			counter++
			release()
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Errorf("counter = %d, want %d", counter, goroutines)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Errorf("locks map not drained, %d entries left", len(l.locks))
	}
}
