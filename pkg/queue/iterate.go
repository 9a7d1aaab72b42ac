package queue

// Each calls fn for every item, front to rear.
func (q *Queue[T]) Each(fn func(item T)) {
	for _, item := range q.items[q.head:] {
		fn(item)
	}
}

// Until calls fn for every item and stops once fn returns true.
func (q *Queue[T]) Until(fn func(item T) bool) {
	for _, item := range q.items[q.head:] {
		if fn(item) {
			return
		}
	}
}

// Find returns the first item satisfying fn.
func (q *Queue[T]) Find(fn func(item T) bool) (T, bool) {
	for _, item := range q.items[q.head:] {
		if fn(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Where returns a new queue with the items satisfying fn.
func (q *Queue[T]) Where(fn func(item T) bool) *Queue[T] {
	out := New[T](0)
	for _, item := range q.items[q.head:] {
		if fn(item) {
			out.Enqueue(item)
		}
	}
	return out
}

// Take returns a new queue with at most n items from the front.
func (q *Queue[T]) Take(n int) *Queue[T] {
	if n < 0 {
		n = 0
	}
	n = min(n, q.Len())
	return FromSlice(q.items[q.head : q.head+n])
}

// And reports whether fn holds for every item. True for an empty queue.
func (q *Queue[T]) And(fn func(item T) bool) bool {
	for _, item := range q.items[q.head:] {
		if !fn(item) {
			return false
		}
	}
	return true
}

// Or reports whether fn holds for at least one item.
func (q *Queue[T]) Or(fn func(item T) bool) bool {
	_, ok := q.Find(fn)
	return ok
}

// Map builds a queue of fn applied to every item of q.
func Map[T, U any](q *Queue[T], fn func(item T) U) *Queue[U] {
	out := New[U](q.Len())
	for _, item := range q.items[q.head:] {
		out.Enqueue(fn(item))
	}
	return out
}

// Reduce folds the items front to rear starting from initial.
func Reduce[T, A any](q *Queue[T], initial A, fn func(acc A, item T) A) A {
	acc := initial
	for _, item := range q.items[q.head:] {
		acc = fn(acc, item)
	}
	return acc
}
