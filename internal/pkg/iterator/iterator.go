package iterator

import "sync/atomic"

// Iterator hands out rounds over Items, each starting one item later than
// the previous. It is safe for concurrent use.
type Iterator[T any] struct {
	Items []T
	index atomic.Uint64
}

func New[T any](items ...T) *Iterator[T] {
	return &Iterator[T]{Items: items}
}

// Round returns every item once and advances the cursor by one so the
// following round starts elsewhere.
func (it *Iterator[T]) Round() []T {
	n := uint64(len(it.Items))
	if n == 0 {
		return nil
	}
	start := (it.index.Add(1) - 1) % n
	out := make([]T, 0, n)
	for k := range n {
		out = append(out, it.Items[(start+k)%n])
	}
	return out
}

func (it *Iterator[T]) Len() int {
	return len(it.Items)
}
