package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInsertAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Insert(ctx, CollectionClasses, Fields{"name": "BSIT 2A"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := m.Get(ctx, CollectionClasses, id)
	require.NoError(t, err)
	assert.Equal(t, "BSIT 2A", doc.Fields["name"])
}

func TestMemoryGetMissingReturnsNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), CollectionClasses, "missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryQueryFiltersByEquality(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Insert(ctx, CollectionUsers, Fields{"role": "student", "classId": "c1"})
	require.NoError(t, err)
	_, err = m.Insert(ctx, CollectionUsers, Fields{"role": "student", "classId": "c2"})
	require.NoError(t, err)
	_, err = m.Insert(ctx, CollectionUsers, Fields{"role": "teacher"})
	require.NoError(t, err)

	docs, err := m.Query(ctx, CollectionUsers, Fields{"role": "student", "classId": "c1"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestMemoryUpdateMergesFields(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Insert(ctx, CollectionUsers, Fields{"hasAccount": false, "name": "Ana"})
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, CollectionUsers, id, Fields{"hasAccount": true, "authIdentityId": "uid-1"}))

	doc, err := m.Get(ctx, CollectionUsers, id)
	require.NoError(t, err)
	assert.Equal(t, true, doc.Fields["hasAccount"])
	assert.Equal(t, "uid-1", doc.Fields["authIdentityId"])
	assert.Equal(t, "Ana", doc.Fields["name"])
}

func TestMemoryUpdateMissingReturnsNotFound(t *testing.T) {
	m := NewMemory()
	err := m.Update(context.Background(), CollectionUsers, "missing", Fields{"hasAccount": true})
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryDeleteIsIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Insert(ctx, CollectionClasses, Fields{"name": "BSIT 2A"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, CollectionClasses, id))
	require.NoError(t, m.Delete(ctx, CollectionClasses, id))

	_, err = m.Get(ctx, CollectionClasses, id)
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryCopiesFieldsOnReadAndWrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	in := Fields{"name": "original"}
	id, err := m.Insert(ctx, CollectionClasses, in)
	require.NoError(t, err)
	in["name"] = "mutated after insert"

	doc, err := m.Get(ctx, CollectionClasses, id)
	require.NoError(t, err)
	assert.Equal(t, "original", doc.Fields["name"])

	doc.Fields["name"] = "mutated after read"
	again, err := m.Get(ctx, CollectionClasses, id)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Fields["name"])
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Insert(ctx, CollectionClasses, Fields{"name": "x"})
	assert.Error(t, err)
}
