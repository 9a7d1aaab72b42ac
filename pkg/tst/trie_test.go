package tst

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shellKeys = []string{"she", "sells", "sea", "shells", "by", "the", "shore"}

func newShellTrie(t *testing.T) *Trie[int] {
	t.Helper()

	trie := New[int]()
	for i, key := range shellKeys {
		require.NoError(t, trie.Put(key, i))
	}
	return trie
}

func TestTrieEmpty(t *testing.T) {
	t.Parallel()

	trie := New[string]()

	assert.True(t, trie.IsEmpty())
	assert.Equal(t, 0, trie.Len())
	assert.False(t, trie.Contains("a"))
	assert.Equal(t, "", trie.LongestPrefixOf("abc"))
	assert.True(t, trie.Keys().IsEmpty())

	_, ok := trie.Get("a")
	assert.False(t, ok)
}

func TestTriePutGet(t *testing.T) {
	t.Parallel()

	trie := New[int]()
	inserted := map[string]int{}

	for i, key := range shellKeys {
		require.NoError(t, trie.Put(key, i))
		inserted[key] = i

		// everything inserted so far stays reachable
		for k, v := range inserted {
			got, ok := trie.Get(k)
			require.True(t, ok, k)
			assert.Equal(t, v, got, k)
			assert.True(t, trie.Contains(k), k)
		}
	}

	assert.False(t, trie.IsEmpty())
	assert.Equal(t, len(shellKeys), trie.Len())
}

func TestTrieContains(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	for _, tc := range []struct {
		key      string
		expected bool
	}{
		{key: "sells", expected: true},
		{key: "sell", expected: false},
		{key: "sellsx", expected: false},
		{key: "s", expected: false},
		{key: "shore", expected: true},
		{key: "shorex", expected: false},
		{key: "a", expected: false},
		{key: "z", expected: false},
		{key: "", expected: false},
	} {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.expected, trie.Contains(tc.key))
		})
	}
}

func TestTriePutOverwrites(t *testing.T) {
	t.Parallel()

	trie := New[string]()
	require.NoError(t, trie.Put("sea", "first"))
	require.NoError(t, trie.Put("sea", "second"))

	got, ok := trie.Get("sea")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, trie.Len())
}

func TestTriePutPrefixOfExistingKey(t *testing.T) {
	t.Parallel()

	trie := New[int]()
	require.NoError(t, trie.Put("shells", 1))
	assert.False(t, trie.Contains("she"))

	require.NoError(t, trie.Put("she", 2))
	assert.True(t, trie.Contains("she"))
	assert.True(t, trie.Contains("shells"))
	assert.Equal(t, 2, trie.Len())
}

func TestTriePutZeroValue(t *testing.T) {
	t.Parallel()

	trie := New[int]()
	require.NoError(t, trie.Put("by", 0))

	got, ok := trie.Get("by")
	require.True(t, ok)
	assert.Equal(t, 0, got)
}

func TestTriePutEmptyKey(t *testing.T) {
	t.Parallel()

	trie := New[int]()
	err := trie.Put("", 1)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmptyKey)

	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "key", argErr.Arg)
	assert.True(t, trie.IsEmpty())
	assert.Equal(t, 0, trie.Len())
}

func TestTrieUnicodeKeys(t *testing.T) {
	t.Parallel()

	trie := New[int]()
	for i, key := range []string{"カメラ", "カ", "マ", "naïve", "nai"} {
		require.NoError(t, trie.Put(key, i))
	}

	assert.True(t, trie.Contains("カ"))
	assert.True(t, trie.Contains("naïve"))
	assert.False(t, trie.Contains("カメ"))
	assert.Equal(t, "カ", trie.LongestPrefixOf("カメ"))
	assert.Equal(t, []string{"nai", "naïve"}, trie.KeysWithPrefix("na").Items())
}

func TestTrieLongestPrefixOf(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	for _, tc := range []struct {
		query    string
		expected string
	}{
		{query: "shell", expected: "she"},
		{query: "shells", expected: "shells"},
		{query: "shellsort", expected: "shells"},
		{query: "she", expected: "she"},
		{query: "sh", expected: ""},
		{query: "seashore", expected: "sea"},
		{query: "bypass", expected: "by"},
		{query: "quick", expected: ""},
		{query: "", expected: ""},
	} {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.expected, trie.LongestPrefixOf(tc.query))
		})
	}
}

func TestTrieLongestPrefixOfMatchesBruteForce(t *testing.T) {
	t.Parallel()

	trie := newShellTrie(t)

	for _, query := range []string{"shells", "shellfish", "sea", "seas", "theory", "t", "b", "bye", "shoreline"} {
		expected := ""
		for k := len(query); k > 0; k-- {
			if trie.Contains(query[:k]) {
				expected = query[:k]
				break
			}
		}
		assert.Equal(t, expected, trie.LongestPrefixOf(query), query)
	}
}
