package queue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestQueueFIFO(t *testing.T) {
	t.Parallel()

	q := New[string](2)
	assert.True(t, q.IsEmpty())

	_, ok := q.Dequeue()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)

	for _, s := range []string{"by", "sea", "she"} {
		q.Enqueue(s)
	}
	assert.Equal(t, 3, q.Len())

	front, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, "by", front)

	item, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "by", item)
	assert.Equal(t, []string{"sea", "she"}, q.Items())
}

func TestQueueDequeueReclaimsFront(t *testing.T) {
	t.Parallel()

	q := New[int](0)
	for i := range 200 {
		q.Enqueue(i)
	}
	for i := range 150 {
		item, ok := q.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, item)
	}

	assert.Equal(t, 50, q.Len())
	front, _ := q.Peek()
	assert.Equal(t, 150, front)
	assert.Len(t, q.Items(), 50)
}

func TestQueueAll(t *testing.T) {
	t.Parallel()

	q := FromSlice([]string{"a", "b", "c"})
	q.Dequeue()

	var got []string
	for i, s := range q.All() {
		got = append(got, strings.Repeat(s, i+1))
	}
	assert.Equal(t, []string{"b", "cc"}, got)
}

func TestQueueHelpers(t *testing.T) {
	t.Parallel()

	q := FromSlice([]string{"sea", "sells", "she", "shells", "shore"})
	startsSh := func(s string) bool { return strings.HasPrefix(s, "sh") }

	assert.Equal(t, []string{"she", "shells", "shore"}, q.Where(startsSh).Items())
	assert.Equal(t, []string{"sea", "sells"}, q.Take(2).Items())
	assert.Empty(t, q.Take(-1).Items())
	assert.Equal(t, 5, q.Take(10).Len())

	found, ok := q.Find(startsSh)
	require.True(t, ok)
	assert.Equal(t, "she", found)

	assert.True(t, q.Or(startsSh))
	assert.False(t, q.And(startsSh))
	assert.True(t, New[string](0).And(startsSh))

	var seen []string
	q.Until(func(s string) bool {
		seen = append(seen, s)
		return s == "she"
	})
	assert.Equal(t, []string{"sea", "sells", "she"}, seen)

	total := 0
	q.Each(func(s string) { total += len(s) })
	assert.Equal(t, 22, total)

	lengths := Map(q, func(s string) int { return len(s) })
	assert.Equal(t, []int{3, 5, 3, 6, 5}, lengths.Items())
	assert.Equal(t, "seasellssheshellsshore", Reduce(q, "", func(acc, s string) string { return acc + s }))
}

func TestQueueCloneAndEqual(t *testing.T) {
	t.Parallel()

	eq := func(a, b string) bool { return a == b }
	q := FromSlice([]string{"by", "the"})
	clone := q.Clone()

	assert.True(t, q.Equal(clone, eq))

	clone.Enqueue("shore")
	assert.False(t, q.Equal(clone, eq))
	assert.Equal(t, 2, q.Len())
	assert.False(t, q.Equal(nil, eq))
}

func TestQueueMsgpack(t *testing.T) {
	t.Parallel()

	q := FromSlice([]string{"old", "she", "shells"})
	q.Dequeue()

	data, err := msgpack.Marshal(q)
	require.NoError(t, err)

	var plain []string
	require.NoError(t, msgpack.Unmarshal(data, &plain))
	assert.Equal(t, []string{"she", "shells"}, plain)

	decoded := New[string](0)
	require.NoError(t, msgpack.Unmarshal(data, decoded))
	assert.Equal(t, []string{"she", "shells"}, decoded.Items())
}
