// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

//nolint:testifylint
package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pids(records []*Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.PID())
	}

	return out
}

// diamond: child -> (a, b) -> top
func diamond() (child, a, b, top *Record) {
	top = newRecord("vudl:1", "Top", ModelCollection, ModelFolder)
	a = newRecord("vudl:2", "A", ModelCollection, ModelFolder)
	b = newRecord("vudl:3", "B", ModelCollection, ModelFolder)
	child = newRecord("vudl:4", "Child", ModelCollection, ModelResource)

	a.AddParent(top)
	b.AddParent(top)
	child.AddParent(a)
	child.AddParent(b)

	return child, a, b, top
}

func TestHierarchyTopsWithoutParents(t *testing.T) {
	r := newRecord("vudl:1", "Alone")

	tops := r.HierarchyTops()
	assert.Len(t, tops, 1)
	assert.Same(t, r, tops[0])
}

func TestHierarchyTopsDeduplicated(t *testing.T) {
	child, _, _, top := diamond()

	tops := child.HierarchyTops()
	assert.Len(t, tops, 1)
	assert.Same(t, top, tops[0])
}

func TestHierarchyTopsMultipleRoots(t *testing.T) {
	child := newRecord("vudl:10", "")
	first := newRecord("vudl:1", "")
	second := newRecord("vudl:2", "")
	middle := newRecord("vudl:3", "")

	middle.AddParent(second)
	child.AddParent(first)
	child.AddParent(middle)
	child.AddParent(second)

	assert.Equal(t, []string{"vudl:1", "vudl:2"}, pids(child.HierarchyTops()))
}

func TestAllParents(t *testing.T) {
	child, _, _, _ := diamond()

	assert.Equal(t, []string{"vudl:2", "vudl:1", "vudl:3"}, child.AllParents())
	assert.Empty(t, newRecord("vudl:9", "").AllParents())
}

func TestAllParentsCycleExcludesSelf(t *testing.T) {
	root := newRecord("vudl:1", "")
	parent := newRecord("vudl:2", "")
	grand := newRecord("vudl:3", "")

	root.AddParent(parent)
	parent.AddParent(grand)
	grand.AddParent(root)

	assert.Equal(t, []string{"vudl:2", "vudl:3"}, root.AllParents())
	assert.Empty(t, root.HierarchyTops())
}

func TestParentTreeKeepsEveryPath(t *testing.T) {
	child, _, _, _ := diamond()

	tree := child.ParentTree()
	assert.Equal(t, "vudl:4", tree.PID)
	assert.Equal(t, "Child", tree.Title)
	assert.Len(t, tree.Parents, 2)
	assert.Equal(t, "vudl:2", tree.Parents[0].PID)
	assert.Equal(t, "vudl:3", tree.Parents[1].PID)

	// the shared top appears once under each path
	assert.Equal(t, "vudl:1", tree.Parents[0].Parents[0].PID)
	assert.Equal(t, "vudl:1", tree.Parents[1].Parents[0].PID)
	assert.Empty(t, tree.Parents[1].Parents[0].Parents)
	assert.NotNil(t, tree.Parents[1].Parents[0].Parents)
}

func TestParentTreeTerminatesOnCycle(t *testing.T) {
	root := newRecord("vudl:1", "Root")
	parent := newRecord("vudl:2", "Parent")

	root.AddParent(parent)
	parent.AddParent(root)

	tree := root.ParentTree()
	assert.Equal(t, "vudl:2", tree.Parents[0].PID)
	assert.Equal(t, "vudl:1", tree.Parents[0].Parents[0].PID)
	assert.Empty(t, tree.Parents[0].Parents[0].Parents)
}

func TestHierarchyTopsLoopReachedFromTwoSides(t *testing.T) {
	root := newRecord("vudl:1", "Root")
	a := newRecord("vudl:2", "A")
	b := newRecord("vudl:3", "B")
	c := newRecord("vudl:4", "C")
	topA := newRecord("vudl:5", "Top A")
	topB := newRecord("vudl:6", "Top B")

	// a and b are each other's parent; c only reaches the loop through b
	root.AddParent(a)
	root.AddParent(c)
	a.AddParent(b)
	a.AddParent(topA)
	b.AddParent(a)
	b.AddParent(topB)
	c.AddParent(b)

	assert.Equal(t, []string{"vudl:6", "vudl:5"}, pids(root.HierarchyTops()))
	assert.Equal(t, []string{"vudl:5", "vudl:6"}, pids(c.HierarchyTops()))
	assert.Equal(t, []string{"vudl:5", "vudl:6"}, pids(b.HierarchyTops()))
}
