package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_QueuePerChat(t *testing.T) {
	d := newDispatcher()

	q, created := d.push(1, textUpdateIn(1, "first"))
	require.True(t, created)

	same, created := d.push(1, textUpdateIn(1, "second"))
	assert.False(t, created)
	assert.Same(t, q, same)

	_, created = d.push(2, textUpdateIn(2, "other"))
	assert.True(t, created)
	assert.Equal(t, 2, d.size())

	u, ok := d.pop(q)
	require.True(t, ok)
	assert.Equal(t, "first", u.Message.Text)

	u, ok = d.pop(q)
	require.True(t, ok)
	assert.Equal(t, "second", u.Message.Text)

	_, ok = d.pop(q)
	assert.False(t, ok)
}

func TestDispatcher_PushNeverBlocks(t *testing.T) {
	d := newDispatcher()

	var q *chatQueue
	for range 1000 {
		q, _ = d.push(1, textUpdate("/help"))
	}

	assert.Len(t, q.pending, 1000)
}

func TestDispatcher_Release(t *testing.T) {
	d := newDispatcher()

	q, _ := d.push(1, textUpdateIn(1, "a"))

	assert.False(t, d.release(1, q), "queue with pending updates is kept")

	_, _ = d.pop(q)
	assert.True(t, d.release(1, q))
	assert.Zero(t, d.size())

	fresh, created := d.push(1, textUpdateIn(1, "b"))
	assert.True(t, created)
	assert.NotSame(t, q, fresh)
}
