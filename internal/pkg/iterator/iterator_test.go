package iterator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundEmpty(t *testing.T) {
	it := New[string]()
	assert.Nil(t, it.Round())
	assert.Equal(t, 0, it.Len())
}

func TestRoundRotates(t *testing.T) {
	it := New("a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, it.Round())
	assert.Equal(t, []string{"b", "c", "a"}, it.Round())
	assert.Equal(t, []string{"c", "a", "b"}, it.Round())
	assert.Equal(t, []string{"a", "b", "c"}, it.Round())
}

// TestConcurrentRound tests that concurrent callers spread their first
// choice evenly over the items
func TestConcurrentRound(t *testing.T) {
	it := New(0, 1, 2, 3)
	var mu sync.Mutex
	counts := make(map[int]int)
	var wg sync.WaitGroup
	for range 400 {
		wg.Go(func() {
			r := it.Round()
			mu.Lock()
			counts[r[0]]++
			mu.Unlock()
		})
	}
	wg.Wait()
	for i := range 4 {
		assert.Equal(t, 100, counts[i])
	}
}
