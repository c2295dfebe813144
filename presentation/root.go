// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package presentation tracks the model that is currently presented:
// the presentation parent node, the root node of the instantiated model
// under it, and an optional pivot node at the center of the model.
package presentation

import (
	"log/slog"

	"cogentcore.org/anatomy/scene"
	"cogentcore.org/core/math32"
	"cogentcore.org/core/tree"
)

const (
	// ParentName is the name of the presentation parent node.
	ParentName = "ModelParent"

	// CenterName is the name of the pivot node.
	CenterName = "ModelCenter"
)

// Root is the presentation state of one viewer. It is owned by the
// caller and passed to every stage of a load attempt; it is not safe
// for concurrent use, and only one load attempt may use it at a time.
type Root struct {
	parent *scene.Node
	root   *scene.Node
	center *scene.Node
	index  *scene.Index
}

// New returns a new empty presentation state.
func New() *Root {
	return &Root{}
}

// Parent returns the presentation parent node, creating it on first use.
func (pr *Root) Parent() *scene.Node {
	if pr.parent == nil || pr.parent.IsDestroyed() {
		pr.parent = scene.NewNamed(ParentName)
	}
	return pr.parent
}

// SetRoot sets the root node of the presented model and rebuilds
// the name index of its parts.
func (pr *Root) SetRoot(n *scene.Node) {
	pr.root = n
	pr.index = scene.NewIndex(n)
}

// Root returns the root node of the presented model, or nil.
func (pr *Root) Root() *scene.Node {
	if pr.root != nil && pr.root.IsDestroyed() {
		pr.root = nil
		pr.index = nil
	}
	return pr.root
}

// Index returns the name index of the parts of the presented model,
// or nil if there is none.
func (pr *Root) Index() *scene.Index {
	if pr.Root() == nil {
		return nil
	}
	return pr.index
}

// DeleteCurrent destroys the presented model, if any, along with the
// pivot node, and resets the position and rotation of the parent.
// It does nothing more if there is no model.
func (pr *Root) DeleteCurrent() {
	if root := pr.Root(); root != nil {
		root.Delete()
	}
	if pr.center != nil {
		pr.center.Delete()
		pr.center = nil
	}
	pr.root = nil
	pr.index = nil
	if pr.parent != nil {
		pr.parent.Pose.ResetPosRot()
	}
}

// CenterNode returns the pivot node, creating it on first use: it is
// placed at the center of the bounds of all renderers under the parent,
// takes the rotation of the model root, and becomes the parent of the
// model root, so that rotating it turns the model around its center
// instead of around the authored pivot. The model root is compensated
// so that it does not move. It returns nil if there is no model.
func (pr *Root) CenterNode() *scene.Node {
	if pr.center != nil && !pr.center.IsDestroyed() {
		return pr.center
	}
	root := pr.Root()
	if root == nil {
		slog.Error("presentation: cannot create center node without a model")
		return nil
	}
	parent := pr.Parent()
	bb, n := parent.UnionBounds()
	center := scene.NewNamed(CenterName, parent)
	if n > 0 {
		center.Pose.Pos = bb.Center()
	}
	center.Pose.Quat = root.Pose.Quat

	// express the root pose relative to the pivot so it stays in place
	pos := root.PointIn(math32.Vector3{}, parent)
	root.Pose.Pos = center.Pose.InverseTransformPoint(pos)
	inv := center.Pose.Quat.Inverse()
	root.Pose.Quat = inv.Mul(root.Pose.Quat)
	tree.MoveToParent(root, center)
	pr.center = center
	return center
}

// DestroyCenterNode moves the model root back under the parent and
// destroys the pivot node, if any. Only the hierarchy is restored:
// the model root keeps its local pose.
func (pr *Root) DestroyCenterNode() {
	if root := pr.Root(); root != nil {
		tree.MoveToParent(root, pr.Parent())
	}
	if pr.center != nil {
		pr.center.Delete()
		pr.center = nil
	}
}

// HasCenterNode returns whether the pivot node currently exists.
func (pr *Root) HasCenterNode() bool {
	return pr.center != nil && !pr.center.IsDestroyed()
}

// SetActive shows or hides the whole presented model by setting the
// visibility of the parent. The visibility of the parts is kept, so
// showing the model again restores the preset.
func (pr *Root) SetActive(active bool) {
	pr.Parent().Visible = active
}

// IsActive returns whether the presented model is shown.
func (pr *Root) IsActive() bool {
	return pr.Parent().Visible
}
