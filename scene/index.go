// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"maps"
	"slices"

	"cogentcore.org/core/tree"
)

// Index maps node names to nodes under a scene root. It is built once
// after instantiation so that lookups by name do not walk the graph.
type Index struct {
	root  *Node
	nodes map[string]*Node
}

// NewIndex builds the name index of all descendants of the given root.
// When several nodes share a name, the first one in depth-first
// pre-order wins, which is the node [Node.FindByName] would return.
func NewIndex(root *Node) *Index {
	ix := &Index{root: root, nodes: map[string]*Node{}}
	if root == nil {
		return ix
	}
	root.WalkDown(func(k tree.Node) bool {
		kn := AsNode(k)
		if kn == nil || kn == root {
			return tree.Continue
		}
		if _, has := ix.nodes[kn.Name]; !has {
			ix.nodes[kn.Name] = kn
		}
		return tree.Continue
	})
	return ix
}

// Root returns the root node the index was built from.
func (ix *Index) Root() *Node {
	if ix == nil {
		return nil
	}
	return ix.root
}

// Lookup returns the node with the given name and whether it exists.
// Destroyed nodes are reported as absent.
func (ix *Index) Lookup(name string) (*Node, bool) {
	if ix == nil {
		return nil, false
	}
	n, ok := ix.nodes[name]
	if !ok || n.IsDestroyed() {
		return nil, false
	}
	return n, true
}

// Len returns the number of distinct names in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.nodes)
}

// Names returns the sorted names in the index.
func (ix *Index) Names() []string {
	if ix == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(ix.nodes))
}
