// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

//nolint:testifylint
package local

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vudl/hierarchy/server/datastore"
	"github.com/vudl/hierarchy/server/search/testutil"
	"github.com/vudl/hierarchy/server/types"
)

func newIndex(t *testing.T, opts ...datastore.Option) *Index {
	t.Helper()

	dstore, err := datastore.New(opts...)
	require.NoError(t, err)

	index := New(dstore)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func TestSearchOperations(t *testing.T) {
	testutil.TestSearchOperations(t, newIndex(t), t.Context())
}

func TestSearchOperationsBadger(t *testing.T) {
	testutil.TestSearchOperations(t, newIndex(t, datastore.WithFsProvider(t.TempDir())), t.Context())
}

func TestLabelCounts(t *testing.T) {
	ctx := t.Context()
	index := newIndex(t)

	require.NoError(t, index.Index(ctx, types.Document{"id": "a", "topic": []string{"x", "y"}}))
	require.NoError(t, index.Index(ctx, types.Document{"id": "b", "topic": []string{"x"}}))

	labels, err := index.Labels(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), labels[label("topic", "x")])
	assert.Equal(t, uint64(1), labels[label("topic", "y")])
	assert.Equal(t, uint64(1), labels[label("id", "a")])

	// reindexing the same document does not double count
	require.NoError(t, index.Index(ctx, types.Document{"id": "b", "topic": []string{"x"}}))

	labels, err = index.Labels(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), labels[label("topic", "x")])

	require.NoError(t, index.Delete(ctx, "a"))

	labels, err = index.Labels(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), labels[label("topic", "x")])
	assert.NotContains(t, labels, label("topic", "y"))
}

func TestLongValuesAreStoredButNotLabelled(t *testing.T) {
	ctx := t.Context()
	index := newIndex(t)

	long := strings.Repeat("word ", 100)
	require.NoError(t, index.Index(ctx, types.Document{"id": "a", "fulltext": []string{long}}))

	doc, err := index.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{long}, doc.Strings("fulltext"))

	ids, err := index.Find(ctx, "fulltext", long)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "vudl:1", escape("vudl:1"))
	assert.Equal(t, "a%2Fb", escape("a/b"))
	assert.Equal(t, "%2E%2E", escape(".."))
	assert.Equal(t, "a.b", escape("a.b"))
}

func TestMatchWithoutTermsOnEmptyIndex(t *testing.T) {
	ids, err := newIndex(t).Match(t.Context())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
