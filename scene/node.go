// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the in-memory scene graph that imported
// models are instantiated into: named nodes with poses, renderers
// with mesh bounds and materials, and box colliders.
package scene

import (
	"cogentcore.org/core/tree"
)

//go:generate core generate

// Node is one element of the scene graph. A node with a non-nil
// [Renderer] is renderable; all other nodes only group and transform
// their children. Names are not required to be unique.
type Node struct {
	tree.NodeBase

	// Pose is the transform of this node relative to its parent.
	Pose Pose

	// Visible is whether this node and its children are shown.
	Visible bool

	// Renderer is the mesh renderer of this node, if it has one.
	Renderer *Renderer

	// Collider is the box collider attached to this node, if any.
	Collider *BoxCollider
}

func (n *Node) Init() {
	n.Pose.Defaults()
	n.Visible = true
}

// NewNamed returns a new [Node] with the given name, added as the last
// child of the given parent if one is given.
func NewNamed(name string, parent ...*Node) *Node {
	var n *Node
	if len(parent) > 0 && parent[0] != nil {
		n = NewNode(parent[0])
	} else {
		n = NewNode()
	}
	n.Name = name
	return n
}

// AsNode returns the given tree node as a [Node], or nil if it is not one.
func AsNode(k tree.Node) *Node {
	n, _ := k.(*Node)
	return n
}

// ParentNode returns the parent of this node as a [Node], or nil.
func (n *Node) ParentNode() *Node {
	return AsNode(n.Parent)
}

// ChildNode returns the child at the given index as a [Node],
// or nil if out of range.
func (n *Node) ChildNode(i int) *Node {
	return AsNode(n.Child(i))
}

// IsDestroyed returns whether the node has been destroyed,
// directly or through one of its ancestors.
func (n *Node) IsDestroyed() bool {
	return n.This == nil
}

// FindByName returns the first descendant of this node, in depth-first
// pre-order, whose name is exactly the given name. The node itself is
// not considered.
func (n *Node) FindByName(name string) *Node {
	var found *Node
	n.WalkDown(func(k tree.Node) bool {
		if found != nil {
			return tree.Break
		}
		kn := AsNode(k)
		if kn != nil && kn != n && kn.Name == name {
			found = kn
			return tree.Break
		}
		return tree.Continue
	})
	return found
}

// Renderers returns this node and all descendants that have a
// [Renderer], in depth-first pre-order.
func (n *Node) Renderers() []*Node {
	var rs []*Node
	n.WalkDown(func(k tree.Node) bool {
		if kn := AsNode(k); kn != nil && kn.Renderer != nil {
			rs = append(rs, kn)
		}
		return tree.Continue
	})
	return rs
}
