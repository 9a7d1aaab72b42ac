/*
Package tst implements a ternary search trie mapping string keys to values.

Every node stores one character and three links. A lookup compares the
next key character with the node's character and continues left when it
is smaller, right when it is larger, and down the middle link (consuming
the character) when it is equal. The tree shape depends on insertion
order; no rebalancing takes place.

A search miss over N random keys costs about ln N character comparisons,
a hit or an insertion one comparison per key character plus the sibling
hops along the way.

Keys are compared rune by rune. Enumerations return keys in rune order
through a queue.Queue:

	t := tst.New[int]()
	_ = t.Put("she", 1)
	_ = t.Put("shells", 2)
	t.KeysWithPrefix("sh").Items() // [she shells]

A Trie is not safe for concurrent use. Writers must be serialized with
each other and with readers by the caller.
*/
package tst

// DefaultWildcard matches any single character in KeysThatMatch patterns.
const DefaultWildcard = '.'

// Trie is a ternary search trie. The zero value is not usable, create one with New.
type Trie[V any] struct {
	root     *node[V]
	size     int
	wildcard rune
}

// Option configures a Trie.
type Option[V any] func(*Trie[V])

// WithWildcard replaces the pattern symbol matching any single character.
func WithWildcard[V any](r rune) Option[V] {
	return func(t *Trie[V]) {
		t.wildcard = r
	}
}

// New creates an empty trie.
func New[V any](opts ...Option[V]) *Trie[V] {
	t := &Trie[V]{wildcard: DefaultWildcard}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsEmpty reports whether the trie holds no keys.
func (t *Trie[V]) IsEmpty() bool {
	return t.root == nil
}

// Len returns the number of keys stored.
func (t *Trie[V]) Len() int {
	return t.size
}

// Wildcard returns the rune KeysThatMatch treats as "any character".
func (t *Trie[V]) Wildcard() rune {
	return t.wildcard
}

// Put associates value with key, replacing the value of an existing key.
// Empty keys are rejected.
func (t *Trie[V]) Put(key string, value V) error {
	if key == "" {
		return &ArgumentError{Op: "put", Arg: "key", Cause: ErrEmptyKey}
	}

	runes := []rune(key)
	link, pos := &t.root, 0
	for {
		n := *link
		c := runes[pos]
		if n == nil {
			n = &node[V]{char: c}
			*link = n
		}

		switch {
		case c < n.char:
			link = &n.left
		case c > n.char:
			link = &n.right
		case pos < len(runes)-1:
			link = &n.mid
			pos++
		default:
			if n.setValue(value) {
				t.size++
			}
			return nil
		}
	}
}

// Get returns the value stored for key.
func (t *Trie[V]) Get(key string) (V, bool) {
	n := t.root.find([]rune(key))
	if n == nil || !n.hasValue {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Contains reports whether key is stored.
func (t *Trie[V]) Contains(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// LongestPrefixOf returns the longest stored key that is a prefix of
// query, or "" if there is none.
func (t *Trie[V]) LongestPrefixOf(query string) string {
	runes := []rune(query)
	length := 0

	cur, pos := t.root, 0
	for cur != nil && pos < len(runes) {
		c := runes[pos]
		switch {
		case c < cur.char:
			cur = cur.left
		case c > cur.char:
			cur = cur.right
		default:
			pos++
			if cur.hasValue {
				length = pos
			}
			cur = cur.mid
		}
	}
	return string(runes[:length])
}
