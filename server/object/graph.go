// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package object

// TreeNode is one node of a breadcrumb tree. Parents mirror Record.Parents.
type TreeNode struct {
	PID     string     `json:"pid"`
	Title   string     `json:"title"`
	Parents []TreeNode `json:"parents"`
}

// HierarchyTops returns the ancestors that have no parents of their own, in
// depth-first order and deduplicated by identity. A record without parents is its
// own top.
func (r *Record) HierarchyTops() []*Record {
	memo := make(map[*Record][]*Record)
	onPath := make(map[*Record]bool)

	tops, _ := r.hierarchyTops(memo, onPath)

	return tops
}

// hierarchyTops also reports whether the result is complete. It is not when a
// loop was cut short at an ancestor on the current path; such results are not
// memoized because another path may reach the loop from a different side.
func (r *Record) hierarchyTops(memo map[*Record][]*Record, onPath map[*Record]bool) ([]*Record, bool) {
	if len(r.parents) == 0 {
		return []*Record{r}, true
	}

	if tops, ok := memo[r]; ok {
		return tops, true
	}

	onPath[r] = true
	defer delete(onPath, r)

	var tops []*Record

	seen := make(map[*Record]bool)
	complete := true

	for _, parent := range r.parents {
		// a parent already on the path closes a loop and has no top of its own
		if onPath[parent] {
			complete = false

			continue
		}

		parentTops, parentComplete := parent.hierarchyTops(memo, onPath)
		complete = complete && parentComplete

		for _, top := range parentTops {
			if !seen[top] {
				seen[top] = true

				tops = append(tops, top)
			}
		}
	}

	if complete {
		memo[r] = tops
	}

	return tops, complete
}

// AllParents flattens every ancestor PID into a first-seen ordered list without
// duplicates. The record's own PID is never part of the result.
func (r *Record) AllParents() []string {
	var result []string

	seen := map[string]bool{r.pid: true}

	var walk func(*Record)
	walk = func(node *Record) {
		for _, parent := range node.parents {
			if seen[parent.pid] {
				continue
			}

			seen[parent.pid] = true

			result = append(result, parent.pid)
			walk(parent)
		}
	}
	walk(r)

	return result
}

// ParentTree builds a breadcrumb tree. Unlike AllParents it is not deduplicated:
// an ancestor reachable through several paths appears once per path. A record
// that is already on the current path is emitted without parents.
func (r *Record) ParentTree() TreeNode {
	return r.parentTree(make(map[*Record]bool))
}

func (r *Record) parentTree(onPath map[*Record]bool) TreeNode {
	node := TreeNode{
		PID:     r.pid,
		Title:   r.Title(),
		Parents: []TreeNode{},
	}

	if onPath[r] {
		return node
	}

	onPath[r] = true
	defer delete(onPath, r)

	for _, parent := range r.parents {
		node.Parents = append(node.Parents, parent.parentTree(onPath))
	}

	return node
}
