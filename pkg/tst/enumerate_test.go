package tst

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrieKeys(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	expected := slices.Clone(shellKeys)
	slices.Sort(expected)

	assert.Equal(t, expected, trie.Keys().Items())
	assert.Equal(t, trie.Keys().Items(), trie.KeysWithPrefix("").Items())
}

func TestTrieKeysWithPrefix(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	for _, tc := range []struct {
		prefix   string
		expected []string
	}{
		{prefix: "she", expected: []string{"she", "shells"}},
		{prefix: "sh", expected: []string{"she", "shells", "shore"}},
		{prefix: "s", expected: []string{"sea", "sells", "she", "shells", "shore"}},
		{prefix: "shells", expected: []string{"shells"}},
		{prefix: "shellsx", expected: []string{}},
		{prefix: "x", expected: []string{}},
		{prefix: "t", expected: []string{"the"}},
	} {
		t.Run(tc.prefix, func(t *testing.T) {
			assert.Equal(t, tc.expected, trie.KeysWithPrefix(tc.prefix).Items())
		})
	}
}

func TestTrieKeysWithPrefixLimit(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	keys, err := trie.KeysWithPrefixLimit("sh", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"she"}, keys.Items())

	for _, prefix := range []string{"", "s", "sh", "she", "x"} {
		all := trie.KeysWithPrefix(prefix).Items()

		for limit := 0; limit <= len(all)+2; limit++ {
			t.Run(fmt.Sprintf("%q/%d", prefix, limit), func(t *testing.T) {
				keys, err := trie.KeysWithPrefixLimit(prefix, limit)
				require.NoError(t, err)
				assert.Equal(t, all[:min(limit, len(all))], keys.Items())
			})
		}
	}
}

func TestTrieKeysWithPrefixLimitStopsEarly(t *testing.T) {
	t.Parallel()

	trie := New[int]()
	for i := range 1000 {
		require.NoError(t, trie.Put(fmt.Sprintf("key%04d", i), i))
	}

	visited := 0
	trie.VisitPrefix("key", func(_ string, _ int) bool {
		visited++
		return visited < 3
	})
	assert.Equal(t, 3, visited)

	keys, err := trie.KeysWithPrefixLimit("key", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"key0000", "key0001", "key0002"}, keys.Items())
}

func TestTrieKeysWithPrefixNegativeLimit(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	keys, err := trie.KeysWithPrefixLimit("sh", -1)
	require.ErrorIs(t, err, ErrInvalidLimit)
	assert.Nil(t, keys)
}

func TestTrieWalk(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	got := map[string]int{}
	trie.Walk(func(key string, value int) bool {
		got[key] = value
		return true
	})

	require.Len(t, got, len(shellKeys))
	for i, key := range shellKeys {
		assert.Equal(t, i, got[key], key)
	}
}

func TestTrieKeysThatMatch(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	for _, tc := range []struct {
		pattern  string
		expected []string
	}{
		{pattern: "s.a", expected: []string{"sea"}},
		{pattern: "sh.", expected: []string{"she"}},
		{pattern: "...", expected: []string{"sea", "she", "the"}},
		{pattern: "..", expected: []string{"by"}},
		{pattern: "s....", expected: []string{"sells", "shore"}},
		{pattern: "......", expected: []string{"shells"}},
		{pattern: "shells", expected: []string{"shells"}},
		{pattern: "sh", expected: []string{}},
		{pattern: ".......", expected: []string{}},
		{pattern: "x..", expected: []string{}},
	} {
		t.Run(tc.pattern, func(t *testing.T) {
			keys, err := trie.KeysThatMatch(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, keys.Items())
		})
	}
}

func TestTrieKeysThatMatchAgreesWithBruteForce(t *testing.T) {
	t.Parallel()

	words := []string{
		"car", "cat", "cart", "care", "dog", "dot", "do", "a", "ab", "abc",
		"bat", "bar", "bard", "zen", "zero", "card", "cord", "word", "ward",
	}
	trie := New[struct{}]()
	for _, w := range words {
		require.NoError(t, trie.Put(w, struct{}{}))
	}

	matches := func(key, pattern string) bool {
		if len(key) != len(pattern) {
			return false
		}
		for i := range key {
			if pattern[i] != '.' && pattern[i] != key[i] {
				return false
			}
		}
		return true
	}

	for _, pattern := range []string{"c.r", "ca.", "..r", "...", "....", "c..d", ".a.d", "w.rd", ".", "..", "z..o", "d.g"} {
		var expected []string
		for _, w := range words {
			if matches(w, pattern) {
				expected = append(expected, w)
			}
		}
		slices.Sort(expected)
		if expected == nil {
			expected = []string{}
		}

		keys, err := trie.KeysThatMatch(pattern)
		require.NoError(t, err)
		assert.Equal(t, expected, keys.Items(), pattern)
	}
}

func TestTrieKeysThatMatchInvalidPattern(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	keys, err := trie.KeysThatMatch("")
	require.ErrorIs(t, err, ErrInvalidPattern)
	assert.Nil(t, keys)
}

func TestTrieKeysThatMatchCustomWildcard(t *testing.T) {
	t.Parallel()

	trie := New(WithWildcard[int]('?'))
	for i, key := range []string{"a.c", "abc", "axc"} {
		require.NoError(t, trie.Put(key, i))
	}

	assert.Equal(t, '?', trie.Wildcard())

	keys, err := trie.KeysThatMatch("a?c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c", "abc", "axc"}, keys.Items())

	keys, err = trie.KeysThatMatch("a.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c"}, keys.Items())
}

func TestTrieVisitMatchesStops(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	var got []string
	err := trie.VisitMatches("...", func(key string, _ int) bool {
		got = append(got, key)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sea"}, got)
}

func TestTrieEnumerationIsSortedForAnyInsertionOrder(t *testing.T) {
	t.Parallel()

	words := strings.Fields("the quick brown fox jumps over the lazy dog then quickly jumped over lazier dogs")
	sorted := slices.Compact(slices.Sorted(slices.Values(words)))

	for _, order := range [][]string{words, sorted, reversed(sorted)} {
		trie := New[int]()
		for i, w := range order {
			require.NoError(t, trie.Put(w, i))
		}

		assert.Equal(t, sorted, trie.Keys().Items())
		assert.Equal(t, len(sorted), trie.Len())
	}
}

func reversed(s []string) []string {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}
