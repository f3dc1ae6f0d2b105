package querykit

import (
	"context"
	"testing"

	"github.com/querykit/querykit/query"
	"github.com/querykit/querykit/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](t *testing.T, it *Iterator[T]) []T {
	t.Helper()
	var out []T
	for it.Next() {
		out = append(out, it.Value())
	}
	require.NoError(t, it.Err())
	return out
}

func TestIter_YieldsAllRowsAcrossBatches(t *testing.T) {
	mem := sessiontest.NewMemory(userRows(5)...)
	e := New(mem)
	stmt := query.New("SELECT id, name FROM users ORDER BY id").WithBatchSize(2)

	it, err := Iter(context.Background(), e, stmt, scanUser)
	require.NoError(t, err)
	streamed := drain(t, it)

	all, err := All(context.Background(), e, query.New("SELECT id, name FROM users ORDER BY id"), scanUser)
	require.NoError(t, err)

	assert.Equal(t, all.Items(), streamed, "batch size must never affect content or order")
	assert.Equal(t, 2, mem.Calls[0].BatchSize)
	assert.Equal(t, 1, mem.ClosedCursors, "exhaustion must release the cursor")
}

func TestIter_DefaultBatchSize(t *testing.T) {
	mem := sessiontest.NewMemory(userRows(3)...)
	e := New(mem)

	it, err := Iter(context.Background(), e, query.New("SELECT id, name FROM users"), scanUser)
	require.NoError(t, err)
	defer it.Close()

	assert.Equal(t, DefaultBatchSize, mem.Calls[0].BatchSize)
}

func TestIter_EmptyResult(t *testing.T) {
	mem := sessiontest.NewMemory()
	e := New(mem)

	it, err := Iter(context.Background(), e, query.New("SELECT id, name FROM users"), scanUser)
	require.NoError(t, err)

	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	assert.Equal(t, 1, mem.ClosedCursors)
}

func TestIter_EarlyCloseReleasesCursor(t *testing.T) {
	mem := sessiontest.NewMemory(userRows(5)...)
	e := New(mem)
	stmt := query.New("SELECT id, name FROM users").WithBatchSize(2)

	it, err := Iter(context.Background(), e, stmt, scanUser)
	require.NoError(t, err)

	require.True(t, it.Next())
	require.NoError(t, it.Close())

	assert.Equal(t, 1, mem.ClosedCursors)
	assert.False(t, it.Next(), "a closed iterator must not restart")
	assert.NoError(t, it.Close(), "close is idempotent")
	assert.Equal(t, 1, mem.ClosedCursors)
}
