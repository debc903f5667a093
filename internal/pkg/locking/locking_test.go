package locking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSerializesSameKey(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Acquire(ctx, "profile:alice")
			require.NoError(t, err)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLocalLockerIndependentKeys(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	unlockA, err := locker.Acquire(ctx, "profile:a")
	require.NoError(t, err)
	defer unlockA()

	// a held lock on another key must not block this one
	unlockB, err := locker.Acquire(ctx, "profile:b")
	require.NoError(t, err)
	unlockB()
}
