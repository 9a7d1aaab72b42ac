package tst

// node holds one character of a key position. left and right lead to
// siblings with a smaller and larger character at the same position, mid
// to the next position of keys sharing this character.
type node[V any] struct {
	char     rune
	value    V
	hasValue bool

	left, mid, right *node[V]
}

func (n *node[V]) setValue(value V) (added bool) {
	added = !n.hasValue
	n.value = value
	n.hasValue = true
	return added
}

// find descends from n along key without creating nodes and returns the
// node holding the last character of key.
func (n *node[V]) find(key []rune) *node[V] {
	if len(key) == 0 {
		return nil
	}

	cur, pos := n, 0
	for cur != nil {
		c := key[pos]
		switch {
		case c < cur.char:
			cur = cur.left
		case c > cur.char:
			cur = cur.right
		case pos < len(key)-1:
			cur = cur.mid
			pos++
		default:
			return cur
		}
	}
	return nil
}
