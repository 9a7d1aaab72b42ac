// Package queue provides the ordered result container filled by trie enumerations.
//
// Items are appended at the rear and removed from the front. The queue
// places no bound on its length: producers that want a capped result stop
// enqueuing on their own.
package queue

import "iter"

// Queue is a slice-backed FIFO sequence.
type Queue[T any] struct {
	items []T
	head  int
}

// New creates an empty queue with room for capacity items.
func New[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[T]{items: make([]T, 0, capacity)}
}

// FromSlice creates a queue holding a copy of items in order.
func FromSlice[T any](items []T) *Queue[T] {
	q := New[T](len(items))
	q.items = append(q.items, items...)
	return q
}

// Enqueue adds item to the rear.
func (q *Queue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue removes and returns the front item.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	if q.IsEmpty() {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// reclaim the consumed front once it dominates the backing array
	if q.head > 32 && q.head*2 > len(q.items) {
		q.items = append(q.items[:0:0], q.items[q.head:]...)
		q.head = 0
	}
	return item, true
}

// Peek returns the front item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.IsEmpty() {
		var zero T
		return zero, false
	}
	return q.items[q.head], true
}

func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Items returns a copy of the queued items in append order.
func (q *Queue[T]) Items() []T {
	out := make([]T, q.Len())
	copy(out, q.items[q.head:])
	return out
}

// All iterates over the queued items with their position from the front.
func (q *Queue[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range q.items[q.head:] {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Clone returns an independent copy of q.
func (q *Queue[T]) Clone() *Queue[T] {
	return FromSlice(q.items[q.head:])
}

// Equal reports whether both queues hold the same items in the same order.
func (q *Queue[T]) Equal(other *Queue[T], eq func(a, b T) bool) bool {
	if other == nil || q.Len() != other.Len() {
		return false
	}
	a, b := q.items[q.head:], other.items[other.head:]
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}
