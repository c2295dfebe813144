// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/math32"
)

// BoxCollider is an axis aligned box collision volume.
type BoxCollider struct {

	// Center is the center of the box.
	Center math32.Vector3

	// Size is the full extent of the box along each axis.
	Size math32.Vector3
}

// PointIn transforms the given point from the local space of this node
// into the local space of the given ancestor, which is the space its
// children are posed in. A nil ancestor transforms all the way up to the
// root of the graph.
func (n *Node) PointIn(p math32.Vector3, ancestor *Node) math32.Vector3 {
	for cur := n; cur != nil && cur != ancestor; cur = cur.ParentNode() {
		p = cur.Pose.TransformPoint(p)
	}
	return p
}

// BoundsIn returns the mesh bounding box of this node's renderer,
// transformed into the local space of the given ancestor.
// It returns an empty box if the node has no renderer.
func (n *Node) BoundsIn(ancestor *Node) math32.Box3 {
	bb := math32.B3Empty()
	if n.Renderer == nil || n.Renderer.Bounds.IsEmpty() {
		return bb
	}
	mb := n.Renderer.Bounds
	corners := [8]math32.Vector3{
		math32.Vec3(mb.Min.X, mb.Min.Y, mb.Min.Z),
		math32.Vec3(mb.Min.X, mb.Min.Y, mb.Max.Z),
		math32.Vec3(mb.Min.X, mb.Max.Y, mb.Min.Z),
		math32.Vec3(mb.Max.X, mb.Min.Y, mb.Min.Z),
		math32.Vec3(mb.Max.X, mb.Max.Y, mb.Max.Z),
		math32.Vec3(mb.Max.X, mb.Max.Y, mb.Min.Z),
		math32.Vec3(mb.Max.X, mb.Min.Y, mb.Max.Z),
		math32.Vec3(mb.Min.X, mb.Max.Y, mb.Max.Z),
	}
	for _, c := range corners {
		bb.ExpandByPoint(n.PointIn(c, ancestor))
	}
	return bb
}

// UnionBounds returns the union of the bounds of all renderers in the
// subtree of this node, including the node itself, in the local space
// of this node, along with the number of renderers found.
// The box is empty when there are no renderers.
func (n *Node) UnionBounds() (math32.Box3, int) {
	bb := math32.B3Empty()
	count := 0
	for _, r := range n.Renderers() {
		rb := r.BoundsIn(n)
		if rb.IsEmpty() {
			continue
		}
		bb.ExpandByBox(rb)
		count++
	}
	return bb, count
}
