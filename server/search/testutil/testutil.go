// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vudl/hierarchy/server/types"
)

// TestSearchOperations performs a complete test of Index -> Get -> Find -> Match -> Delete.
func TestSearchOperations(t require.TestingT, search types.SearchAPI, ctx context.Context) {
	first := types.Document{
		"id":                  "vudl:1",
		"modeltype_str_mv":    []string{"vudl-system:CoreModel", "vudl-system:FolderCollection"},
		"hierarchy_parent_id": []string{"vudl:0"},
		"title":               "First",
	}
	second := types.Document{
		"id":                  "vudl:2",
		"modeltype_str_mv":    []string{"vudl-system:CoreModel", "vudl-system:DataModel"},
		"hierarchy_parent_id": []string{"vudl:0", "vudl:1"},
		"title":               "Second / with slash",
	}

	// Index
	require.NoError(t, search.Index(ctx, first), "index failed")
	require.NoError(t, search.Index(ctx, second), "index failed")

	// Get
	got, err := search.Get(ctx, "vudl:2")
	require.NoError(t, err, "get failed")
	assert.Equal(t, "vudl:2", got.ID())
	assert.Equal(t, "Second / with slash", got.String("title"))
	assert.Equal(t, []string{"vudl:0", "vudl:1"}, got.Strings("hierarchy_parent_id"))

	_, err = search.Get(ctx, "vudl:404")
	assert.True(t, types.IsNotFound(err), "missing document should be reported as not found")

	// Find
	ids, err := search.Find(ctx, "hierarchy_parent_id", "vudl:0")
	require.NoError(t, err, "find failed")
	assert.Equal(t, []string{"vudl:1", "vudl:2"}, ids)

	ids, err = search.Find(ctx, "title", "Second / with slash")
	require.NoError(t, err, "find failed")
	assert.Equal(t, []string{"vudl:2"}, ids)

	// Match
	ids, err = search.Match(ctx,
		types.Term{Field: "hierarchy_parent_id", Value: "vudl:0"},
		types.Term{Field: "modeltype_str_mv", Value: "vudl-system:DataModel"},
	)
	require.NoError(t, err, "match failed")
	assert.Equal(t, []string{"vudl:2"}, ids)

	ids, err = search.Match(ctx)
	require.NoError(t, err, "match without terms failed")
	assert.Equal(t, []string{"vudl:1", "vudl:2"}, ids, "no terms should match every document")

	// Reindex replaces previous values
	second["hierarchy_parent_id"] = []string{"vudl:1"}
	require.NoError(t, search.Index(ctx, second), "reindex failed")

	ids, err = search.Find(ctx, "hierarchy_parent_id", "vudl:0")
	require.NoError(t, err, "find failed")
	assert.Equal(t, []string{"vudl:1"}, ids)

	// Delete
	require.NoError(t, search.Delete(ctx, "vudl:2"), "delete failed")
	require.NoError(t, search.Delete(ctx, "vudl:2"), "repeated delete failed")

	_, err = search.Get(ctx, "vudl:2")
	assert.True(t, types.IsNotFound(err), "get should fail after delete")

	ids, err = search.Find(ctx, "hierarchy_parent_id", "vudl:1")
	require.NoError(t, err, "find failed")
	assert.Empty(t, ids)

	ids, err = search.Match(ctx)
	require.NoError(t, err, "match without terms failed")
	assert.Equal(t, []string{"vudl:1"}, ids)

	// Invalid input
	assert.Error(t, search.Index(ctx, types.Document{"title": "no id"}))
}
