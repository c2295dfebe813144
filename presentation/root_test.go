// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package presentation

import (
	"testing"

	"cogentcore.org/anatomy/scene"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addModel instantiates a small model under the parent of pr, with its
// authored pivot away from its geometric center.
func addModel(pr *Root) (*scene.Node, *scene.Node) {
	root := scene.NewNamed("Scene", pr.Parent())
	root.Pose.Pos.Set(1, 0, 0)
	root.Pose.Quat = math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.Pi/4)
	part := scene.NewNamed("part", root)
	part.Pose.Pos.Set(0, 2, 0)
	part.Renderer = &scene.Renderer{Bounds: math32.B3(-1, -1, -1, 1, 1, 1)}
	return root, part
}

func assertVecNear(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4)
	assert.InDelta(t, want.Y, got.Y, 1e-4)
	assert.InDelta(t, want.Z, got.Z, 1e-4)
}

func TestParent(t *testing.T) {
	pr := New()
	p := pr.Parent()
	require.NotNil(t, p)
	assert.Equal(t, ParentName, p.Name)
	assert.Same(t, p, pr.Parent())
	assert.Nil(t, pr.Root())
	assert.Nil(t, pr.Index())
}

func TestDeleteCurrent(t *testing.T) {
	pr := New()
	pr.DeleteCurrent() // no model yet

	root, part := addModel(pr)
	pr.SetRoot(root)
	_, ok := pr.Index().Lookup("part")
	assert.True(t, ok)

	pr.Parent().Pose.Pos.Set(3, 4, 5)
	pr.Parent().Pose.Quat = math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), 1)
	pr.DeleteCurrent()
	assert.Nil(t, pr.Root())
	assert.Nil(t, pr.Index())
	assert.True(t, root.IsDestroyed())
	assert.True(t, part.IsDestroyed())
	assert.Equal(t, 0, pr.Parent().NumChildren())
	assert.True(t, pr.Parent().Pose.IsIdentityPosRot())

	pr.DeleteCurrent()
	assert.Nil(t, pr.Root())
}

func TestCenterNode(t *testing.T) {
	pr := New()
	assert.Nil(t, pr.CenterNode())

	root, part := addModel(pr)
	pr.SetRoot(root)
	before := part.BoundsIn(pr.Parent())

	center := pr.CenterNode()
	require.NotNil(t, center)
	assert.Equal(t, CenterName, center.Name)
	assert.Same(t, pr.Parent(), center.ParentNode())
	assert.Same(t, center, root.ParentNode())
	assert.True(t, pr.HasCenterNode())
	assertVecNear(t, before.Center(), center.Pose.Pos)
	assert.Equal(t, math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.Pi/4), center.Pose.Quat)

	// the model does not move when the pivot is inserted
	after := part.BoundsIn(pr.Parent())
	assertVecNear(t, before.Min, after.Min)
	assertVecNear(t, before.Max, after.Max)

	// second call returns the same pivot
	assert.Same(t, center, pr.CenterNode())

	pr.DestroyCenterNode()
	assert.False(t, pr.HasCenterNode())
	assert.True(t, center.IsDestroyed())
	assert.Same(t, pr.Parent(), root.ParentNode())
	assert.False(t, root.IsDestroyed())

	// can be created again
	again := pr.CenterNode()
	require.NotNil(t, again)
	assert.NotSame(t, center, again)
	assert.Same(t, again, root.ParentNode())

	pr.DeleteCurrent()
	assert.True(t, again.IsDestroyed())
	assert.False(t, pr.HasCenterNode())
	assert.Equal(t, 0, pr.Parent().NumChildren())
}

func TestSetActive(t *testing.T) {
	pr := New()
	assert.True(t, pr.IsActive())

	root, part := addModel(pr)
	pr.SetRoot(root)
	part.Visible = false

	pr.SetActive(false)
	assert.False(t, pr.IsActive())
	assert.False(t, pr.Parent().Visible)
	assert.True(t, root.Visible)

	pr.SetActive(true)
	assert.True(t, pr.IsActive())
	assert.False(t, part.Visible)

	// the parent keeps its visibility across model replacement
	pr.SetActive(false)
	pr.DeleteCurrent()
	assert.False(t, pr.IsActive())
}
