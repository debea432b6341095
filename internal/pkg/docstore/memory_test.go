package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "things", "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "things", "t1", map[string]interface{}{"name": "one", "count": 1}, false))

	doc, err := store.Get(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", doc.ID)

	var got struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "one", got.Name)
	assert.Equal(t, 1, got.Count)

	require.NoError(t, store.Delete(ctx, "things", "t1"))
	_, err = store.Get(ctx, "things", "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing document is not an error.
	assert.NoError(t, store.Delete(ctx, "things", "t1"))
}

func TestMemoryStore_SetMergePreservesOtherFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "things", "t1", map[string]interface{}{"a": 1, "b": 2}, false))
	require.NoError(t, store.Set(ctx, "things", "t1", map[string]interface{}{"b": 3}, true))

	doc, err := store.Get(ctx, "things", "t1")
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, doc.DataTo(&got))
	assert.EqualValues(t, 1, got["a"])
	assert.EqualValues(t, 3, got["b"])

	// Without merge the document is replaced wholesale.
	require.NoError(t, store.Set(ctx, "things", "t1", map[string]interface{}{"c": 4}, false))
	doc, err = store.Get(ctx, "things", "t1")
	require.NoError(t, err)
	got = nil
	require.NoError(t, doc.DataTo(&got))
	assert.NotContains(t, got, "a")
	assert.EqualValues(t, 4, got["c"])
}

func TestMemoryStore_UpdateRequiresExistingDocument(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Update(ctx, "things", "missing", map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "things", "t1", map[string]interface{}{"a": 1}, false))
	require.NoError(t, store.Update(ctx, "things", "t1", map[string]interface{}{"a": 2, "b": "x"}))

	doc, err := store.Get(ctx, "things", "t1")
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, doc.DataTo(&got))
	assert.EqualValues(t, 2, got["a"])
	assert.Equal(t, "x", got["b"])
}

func TestMemoryStore_Query(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reqs", "r1", map[string]interface{}{"status": "pending", "date": "2026-01-10"}, false))
	require.NoError(t, store.Set(ctx, "reqs", "r2", map[string]interface{}{"status": "approved", "date": "2026-03-01"}, false))
	require.NoError(t, store.Set(ctx, "reqs", "r3", map[string]interface{}{"status": "rejected", "date": "2026-06-15"}, false))

	docs, err := store.Query(ctx, "reqs", Where("status", OpEqual, "pending"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "r1", docs[0].ID)

	docs, err = store.Query(ctx, "reqs", Where("status", OpIn, []string{"pending", "approved"}))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.Query(ctx, "reqs",
		Where("date", OpGreaterOrEqual, "2026-02-01"),
		Where("date", OpLessOrEqual, "2026-12-31"),
	)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.Query(ctx, "reqs")
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestMemoryStore_AppendToArrayAndIncrement(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.AppendToArray(ctx, "accounts", "missing", "items", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "accounts", "a1", map[string]interface{}{"balance": 21}, false))
	require.NoError(t, store.AppendToArray(ctx, "accounts", "a1", "items", "first"))
	require.NoError(t, store.AppendToArray(ctx, "accounts", "a1", "items", "second"))
	require.NoError(t, store.Increment(ctx, "accounts", "a1", "balance", -5))

	doc, err := store.Get(ctx, "accounts", "a1")
	require.NoError(t, err)
	var got struct {
		Balance int      `json:"balance"`
		Items   []string `json:"items"`
	}
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, 16, got.Balance)
	assert.Equal(t, []string{"first", "second"}, got.Items)
}

func TestMemoryStore_TransactionRollsBackOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "things", "t1", map[string]interface{}{"a": 1}, false))

	boom := errors.New("boom")
	err := store.RunTransaction(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Set(ctx, "things", "t2", map[string]interface{}{"b": 2}, false); err != nil {
			return err
		}
		if err := tx.Update(ctx, "things", "t1", map[string]interface{}{"a": 99}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Get(ctx, "things", "t2")
	assert.ErrorIs(t, err, ErrNotFound, "writes inside a failed transaction must not persist")

	doc, err := store.Get(ctx, "things", "t1")
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, doc.DataTo(&got))
	assert.EqualValues(t, 1, got["a"], "updates inside a failed transaction must not persist")
}

func TestMemoryStore_TransactionCommits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.RunTransaction(ctx, func(ctx context.Context, tx Store) error {
		return tx.Set(ctx, "things", "t1", map[string]interface{}{"a": 1}, false)
	})
	require.NoError(t, err)

	_, err = store.Get(ctx, "things", "t1")
	assert.NoError(t, err)
}
