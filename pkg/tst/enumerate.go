package tst

import "github.com/bastiangx/wordtrie/pkg/queue"

// VisitFunc receives a stored key and its value. Returning false stops the
// traversal.
type VisitFunc[V any] func(key string, value V) bool

// Keys returns every stored key in rune order.
func (t *Trie[V]) Keys() *queue.Queue[string] {
	return t.KeysWithPrefix("")
}

// KeysWithPrefix returns the stored keys starting with prefix, including
// prefix itself when stored, in rune order.
func (t *Trie[V]) KeysWithPrefix(prefix string) *queue.Queue[string] {
	keys := queue.New[string](0)
	t.VisitPrefix(prefix, func(key string, _ V) bool {
		keys.Enqueue(key)
		return true
	})
	return keys
}

// KeysWithPrefixLimit returns the first limit keys of KeysWithPrefix(prefix).
// The traversal stops as soon as limit keys are collected. A zero limit
// yields an empty queue, a negative one an ErrInvalidLimit.
func (t *Trie[V]) KeysWithPrefixLimit(prefix string, limit int) (*queue.Queue[string], error) {
	if limit < 0 {
		return nil, &ArgumentError{Op: "keys with prefix", Arg: "limit", Cause: ErrInvalidLimit}
	}

	keys := queue.New[string](min(limit, t.size))
	if limit == 0 {
		return keys, nil
	}

	t.VisitPrefix(prefix, func(key string, _ V) bool {
		keys.Enqueue(key)
		return keys.Len() < limit
	})
	return keys, nil
}

// Walk visits every stored key and value in rune order.
func (t *Trie[V]) Walk(fn VisitFunc[V]) {
	t.VisitPrefix("", fn)
}

// VisitPrefix visits the keys starting with prefix in rune order until fn
// returns false.
func (t *Trie[V]) VisitPrefix(prefix string, fn VisitFunc[V]) {
	if prefix == "" {
		t.root.collect(nil, fn)
		return
	}

	runes := []rune(prefix)
	n := t.root.find(runes)
	if n == nil {
		return
	}
	if n.hasValue && !fn(prefix, n.value) {
		return
	}
	n.mid.collect(runes, fn)
}

// KeysThatMatch returns the stored keys of the same length as pattern whose
// characters equal the pattern's, position by position, except where the
// pattern holds the wildcard. Keys come in rune order.
func (t *Trie[V]) KeysThatMatch(pattern string) (*queue.Queue[string], error) {
	keys := queue.New[string](0)
	err := t.VisitMatches(pattern, func(key string, _ V) bool {
		keys.Enqueue(key)
		return true
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// VisitMatches visits the keys matching pattern, as selected by
// KeysThatMatch, until fn returns false.
func (t *Trie[V]) VisitMatches(pattern string, fn VisitFunc[V]) error {
	if pattern == "" {
		return &ArgumentError{Op: "match", Arg: "pattern", Cause: ErrInvalidPattern}
	}

	runes := []rune(pattern)
	m := matcher[V]{pattern: runes, wildcard: t.wildcard, fn: fn}
	m.match(t.root, make([]rune, 0, len(runes)), 0)
	return nil
}

// collect emits every valued node below n, prefixed with prefix. Siblings
// share the prefix backing array; emitted keys are copied out by string().
func (n *node[V]) collect(prefix []rune, fn VisitFunc[V]) bool {
	if n == nil {
		return true
	}
	if !n.left.collect(prefix, fn) {
		return false
	}

	key := append(prefix, n.char)
	if n.hasValue && !fn(string(key), n.value) {
		return false
	}
	if !n.mid.collect(key, fn) {
		return false
	}
	return n.right.collect(prefix, fn)
}

type matcher[V any] struct {
	pattern  []rune
	wildcard rune
	fn       VisitFunc[V]
}

func (m *matcher[V]) match(n *node[V], prefix []rune, pos int) bool {
	if n == nil {
		return true
	}

	c := m.pattern[pos]
	anyChar := c == m.wildcard

	if (anyChar || c < n.char) && !m.match(n.left, prefix, pos) {
		return false
	}

	if anyChar || c == n.char {
		key := append(prefix, n.char)
		if pos == len(m.pattern)-1 {
			if n.hasValue && !m.fn(string(key), n.value) {
				return false
			}
		} else if !m.match(n.mid, key, pos+1) {
			return false
		}
	}

	if anyChar || c > n.char {
		return m.match(n.right, prefix, pos)
	}
	return true
}
