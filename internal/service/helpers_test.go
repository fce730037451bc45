package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_SerializesSameKey(t *testing.T) {
	locks := newUserLocks()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("U1")
			defer unlock()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load(), "only one holder per key at a time")
	assert.Equal(t, 0, locks.size(), "released keys are dropped")
}

func TestUserLocks_DifferentKeysDoNotContend(t *testing.T) {
	locks := newUserLocks()

	unlockA := locks.lock("U1")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.lock("U2")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on U2 blocked behind U1")
	}
	assert.Equal(t, 1, locks.size())
}
