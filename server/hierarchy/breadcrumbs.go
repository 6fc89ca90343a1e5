// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"slices"

	"github.com/vudl/hierarchy/server/object"
)

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	PID   string `json:"pid"`
	Title string `json:"title"`
}

// BreadcrumbTrails expands a parent tree into every path from a top-level
// ancestor down to, but not including, the tree's own object. Trails are ordered
// by top in first-seen order and then breadth first.
func BreadcrumbTrails(tree object.TreeNode) [][]Crumb {
	titles := make(map[string]string)
	children := make(map[string][]string)

	var tops []string

	var walk func(node object.TreeNode)
	walk = func(node object.TreeNode) {
		titles[node.PID] = node.Title

		if len(node.Parents) == 0 && !slices.Contains(tops, node.PID) {
			tops = append(tops, node.PID)
		}

		for _, parent := range node.Parents {
			if !slices.Contains(children[parent.PID], node.PID) {
				children[parent.PID] = append(children[parent.PID], node.PID)
			}

			walk(parent)
		}
	}
	walk(tree)

	var trails [][]Crumb

	for _, top := range tops {
		if top == tree.PID {
			continue
		}

		queue := [][]Crumb{{{PID: top, Title: titles[top]}}}
		for len(queue) > 0 {
			path := queue[0]
			queue = queue[1:]

			last := path[len(path)-1].PID
			for _, child := range children[last] {
				if child == tree.PID {
					trails = append(trails, path)

					continue
				}

				if slices.ContainsFunc(path, func(c Crumb) bool { return c.PID == child }) {
					continue
				}

				next := append(slices.Clone(path), Crumb{PID: child, Title: titles[child]})
				queue = append(queue, next)
			}
		}
	}

	return trails
}
