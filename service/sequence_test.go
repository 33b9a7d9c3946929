package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGate_DiscardsStale(t *testing.T) {
	var g SequenceGate

	first := g.Next()
	second := g.Next()
	require.Less(t, first, second)

	// The newer response lands first; the older one must be dropped.
	assert.True(t, g.Apply(second))
	assert.False(t, g.Apply(first))
	assert.Equal(t, second, g.Applied())
}

func TestSequenceGate_InOrder(t *testing.T) {
	var g SequenceGate

	assert.True(t, g.Apply(g.Next()))
	assert.True(t, g.Apply(g.Next()))
	assert.False(t, g.Apply(2), "same number twice")
}

func TestSequenceGate_ConcurrentNextIsUnique(t *testing.T) {
	var g SequenceGate
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[uint64]bool)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := g.Next()
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}
