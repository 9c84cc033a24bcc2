// Package storetest holds the behavioural tests every document.Store
// implementation must pass.
package storetest

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/query"
)

// Run executes the suite. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) document.Store) {
	t.Run("CRUD", func(t *testing.T) { testCRUD(t, newStore(t)) })
	t.Run("UpdateMerges", func(t *testing.T) { testUpdateMerges(t, newStore(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
	t.Run("DeleteIsIdempotent", func(t *testing.T) { testDeleteIdempotent(t, newStore(t)) })
	t.Run("ListOrderAndLimit", func(t *testing.T) { testListOrderAndLimit(t, newStore(t)) })
	t.Run("ListFilterAndCount", func(t *testing.T) { testListFilterAndCount(t, newStore(t)) })
	t.Run("CollectionsAreIsolated", func(t *testing.T) { testIsolation(t, newStore(t)) })
	t.Run("InvalidParams", func(t *testing.T) { testInvalidParams(t, newStore(t)) })
	t.Run("ReturnedFieldsAreCopies", func(t *testing.T) { testCopies(t, newStore(t)) })
}

func testCRUD(t *testing.T, store document.Store) {
	ctx := context.Background()

	id, err := store.Create(ctx, "team", document.Fields{
		"name":      "A. Test",
		"role":      "faculty",
		"interests": "Testing",
		"image":     "http://x/y.png",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	item, err := store.Get(ctx, "team", id)
	require.NoError(t, err)
	assert.Equal(t, id, item.ID)
	assert.Equal(t, "A. Test", item.Fields["name"])
	assert.Equal(t, "faculty", item.Fields["role"])

	items, err := store.List(ctx, "team", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)

	require.NoError(t, store.Update(ctx, "team", id, document.Fields{"role": "student"}))
	item, err = store.Get(ctx, "team", id)
	require.NoError(t, err)
	assert.Equal(t, "student", item.Fields["role"])

	require.NoError(t, store.Delete(ctx, "team", id))
	_, err = store.Get(ctx, "team", id)
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
}

func testUpdateMerges(t *testing.T, store document.Store) {
	ctx := context.Background()

	id, err := store.Create(ctx, "messages", document.Fields{"name": "N", "message": "hi", "read": false})
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, "messages", id, document.Fields{"read": true}))

	item, err := store.Get(ctx, "messages", id)
	require.NoError(t, err)
	assert.Equal(t, "N", item.Fields["name"])
	assert.Equal(t, "hi", item.Fields["message"])
	assert.Equal(t, true, item.Fields["read"])
}

func testUpdateMissing(t *testing.T, store document.Store) {
	err := store.Update(context.Background(), "news", "missing", document.Fields{"title": "x"})
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
}

func testDeleteIdempotent(t *testing.T, store document.Store) {
	ctx := context.Background()

	_, err := store.Create(ctx, "news", document.Fields{"title": "kept"})
	require.NoError(t, err)

	assert.NoError(t, store.Delete(ctx, "news", "abc123"))
	assert.NoError(t, store.Delete(ctx, "empty", "abc123"))

	n, err := store.Count(ctx, "news", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func testListOrderAndLimit(t *testing.T, store document.Store) {
	ctx := context.Background()

	for _, p := range []document.Fields{
		{"title": "B", "year": 2022.0},
		{"title": "A", "year": 2024.0},
		{"title": "C", "year": 2023.0},
	} {
		_, err := store.Create(ctx, "publications", p)
		require.NoError(t, err)
	}

	items, err := store.List(ctx, "publications", query.New().AddOrderBy("year", true))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"A", "C", "B"}, titles(items))

	items, err = store.List(ctx, "publications", query.New().AddOrderBy("year", false).WithLimit(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, titles(items))

	items, err = store.List(ctx, "publications", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, titles(items), "store order is insertion order")
}

func testListFilterAndCount(t *testing.T, store document.Store) {
	ctx := context.Background()

	for _, m := range []document.Fields{
		{"name": "one", "read": false},
		{"name": "two", "read": true},
		{"name": "three", "read": false},
	} {
		_, err := store.Create(ctx, "messages", m)
		require.NoError(t, err)
	}

	unread := query.New().AddWhere("read", "=", false)
	items, err := store.List(ctx, "messages", unread)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "three"}, names(items))

	n, err := store.Count(ctx, "messages", unread)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.Count(ctx, "messages", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func testIsolation(t *testing.T, store document.Store) {
	ctx := context.Background()

	id, err := store.Create(ctx, "news", document.Fields{"title": "n"})
	require.NoError(t, err)

	_, err = store.Get(ctx, "team", id)
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))

	items, err := store.List(ctx, "team", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testInvalidParams(t *testing.T, store document.Store) {
	_, err := store.List(context.Background(), "news", query.New().AddOrderBy("date desc; --", false))
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
}

func testCopies(t *testing.T, store document.Store) {
	ctx := context.Background()

	in := document.Fields{"title": "original"}
	id, err := store.Create(ctx, "news", in)
	require.NoError(t, err)
	in["title"] = "mutated input"

	item, err := store.Get(ctx, "news", id)
	require.NoError(t, err)
	item.Fields["title"] = "mutated output"

	again, err := store.Get(ctx, "news", id)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Fields["title"])
}

func titles(items []document.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i], _ = it.Fields["title"].(string)
	}
	return out
}

func names(items []document.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i], _ = it.Fields["name"].(string)
	}
	return out
}
