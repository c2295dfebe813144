// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package postload prepares a freshly instantiated model for
// presentation: it records the model root, adds a collider, places
// the model in front of the viewer, and applies the model preset.
package postload

import (
	"log/slog"

	"cogentcore.org/anatomy/catalog"
	"cogentcore.org/anatomy/failure"
	"cogentcore.org/anatomy/presentation"
	"cogentcore.org/anatomy/preset"
	"cogentcore.org/anatomy/scene"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
)

// Distance is the distance in front of the viewer
// at which a model is placed.
var Distance float32 = 1.0

// Viewer is the point of view the model is placed in front of.
type Viewer interface {

	// Position returns the position of the viewer.
	Position() math32.Vector3

	// Forward returns the direction the viewer is facing.
	Forward() math32.Vector3
}

// FixedViewer is a [Viewer] that does not move.
// A nil FixedViewer is at the origin with no direction,
// so positioning is skipped for it.
type FixedViewer struct {
	Pos math32.Vector3
	Fwd math32.Vector3
}

func (fv *FixedViewer) Position() math32.Vector3 {
	if fv == nil {
		return math32.Vector3{}
	}
	return fv.Pos
}

func (fv *FixedViewer) Forward() math32.Vector3 {
	if fv == nil {
		return math32.Vector3{}
	}
	return fv.Fwd
}

// Initializer prepares an instantiated model for presentation.
type Initializer struct {

	// Root is the presentation state the model was instantiated in.
	Root *presentation.Root

	// Viewer is the viewer to place the model in front of.
	// Positioning is skipped if it is nil.
	Viewer Viewer

	// Materials creates the default material.
	Materials scene.MaterialSystem

	// Presets applies the preset of the model.
	Presets *preset.Applier
}

// Initialize prepares the model that was just instantiated under the
// presentation parent, using the given record for the preset. It only
// fails when there is no model under the parent; every other problem
// is logged and the remaining steps still run.
func (in *Initializer) Initialize(rc *catalog.Record) error {
	parent := in.Root.Parent()
	root := parent.ChildNode(0)
	if root == nil {
		return failure.Errorf(failure.Instantiate, "initialize", "no model under %s", parent.Name)
	}
	in.Root.SetRoot(root)

	in.addCollider(root)
	in.place(parent)
	in.applyVisual(rc)
	return nil
}

// addCollider attaches a box collider enclosing all of the renderers
// of the model to its root, in the local space of the root.
func (in *Initializer) addCollider(root *scene.Node) {
	bb, n := root.UnionBounds()
	if n == 0 {
		slog.Warn("postload: no renderers, skipping collider", "root", root.Name)
		return
	}
	root.Collider = &scene.BoxCollider{Center: bb.Center(), Size: bb.Size()}
}

// place moves the parent to [Distance] in front of the viewer,
// considering only the horizontal part of the viewer direction.
func (in *Initializer) place(parent *scene.Node) {
	if in.Viewer == nil {
		slog.Error("postload: no viewer, cannot adjust model position")
		return
	}
	fwd := in.Viewer.Forward()
	fwd.Y = 0
	if fwd.Length() == 0 {
		slog.Warn("postload: viewer has no horizontal direction, cannot adjust model position")
		return
	}
	fwd = fwd.Normal()
	parent.Pose.Pos = in.Viewer.Position().Add(fwd.MulScalar(Distance))
}

// applyVisual gives every renderer the default opaque material
// and then applies the preset of the record.
func (in *Initializer) applyVisual(rc *catalog.Record) {
	mat, err := in.Materials.NewMaterial(scene.Opaque)
	if err != nil {
		slog.Error("postload: cannot create default material", "err", err)
		return
	}
	for _, n := range in.Root.Parent().Renderers() {
		in.Materials.Assign(n.Renderer, mat)
	}
	if in.Presets == nil {
		return
	}
	rep, err := in.Presets.Apply(rc, in.Root.Index())
	switch {
	case errors.Is(err, preset.ErrNotFound):
		slog.Warn("postload: skipping preset", "err", err)
	case err != nil:
		slog.Error("postload: cannot apply preset", "err", err)
	default:
		slog.Info("postload: applied preset", "preset", rep.Name,
			"applied", len(rep.Applied), "missing", len(rep.Missing))
	}
}
