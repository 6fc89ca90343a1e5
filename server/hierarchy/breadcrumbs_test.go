// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vudl/hierarchy/server/object"
	"github.com/vudl/hierarchy/server/store/testutil"
)

func node(pid, title string, parents ...object.TreeNode) object.TreeNode {
	if parents == nil {
		parents = []object.TreeNode{}
	}

	return object.TreeNode{PID: pid, Title: title, Parents: parents}
}

func TestBreadcrumbTrails(t *testing.T) {
	top := node("vudl:1", "Top")
	tree := node("vudl:10", "Item",
		node("vudl:11", "Left", top),
		node("vudl:12", "Right", top),
	)

	trails := BreadcrumbTrails(tree)
	assert.Equal(t, [][]Crumb{
		{{PID: "vudl:1", Title: "Top"}, {PID: "vudl:11", Title: "Left"}},
		{{PID: "vudl:1", Title: "Top"}, {PID: "vudl:12", Title: "Right"}},
	}, trails)
}

func TestBreadcrumbTrailsMultipleTops(t *testing.T) {
	tree := node("vudl:10", "Item",
		node("vudl:2", "Second", node("vudl:1", "First")),
		node("vudl:3", "Third"),
	)

	trails := BreadcrumbTrails(tree)
	require.Len(t, trails, 2)
	assert.Equal(t, []Crumb{{PID: "vudl:1", Title: "First"}, {PID: "vudl:2", Title: "Second"}}, trails[0])
	assert.Equal(t, []Crumb{{PID: "vudl:3", Title: "Third"}}, trails[1])
}

func TestBreadcrumbTrailsTopLevelObject(t *testing.T) {
	assert.Empty(t, BreadcrumbTrails(node("vudl:1", "Top")))
}

func TestBreadcrumbTrailsDedupesRepeatedEdges(t *testing.T) {
	shared := node("vudl:5", "Shared", node("vudl:1", "Top"))
	tree := node("vudl:10", "Item",
		node("vudl:11", "Left", shared),
		node("vudl:12", "Right", shared),
	)

	trails := BreadcrumbTrails(tree)
	assert.Len(t, trails, 2)
}

func TestBreadcrumbTrailsFromResolvedCycle(t *testing.T) {
	repo := testutil.NewRepository(
		testutil.NewObject("vudl:1", "One", "vudl:2"),
		testutil.NewObject("vudl:2", "Two", "vudl:1"),
	)

	record, err := New(repo).GetHierarchy(t.Context(), "vudl:1", false)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		BreadcrumbTrails(record.ParentTree())
	})
}
