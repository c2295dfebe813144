// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltfimport

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"cogentcore.org/anatomy/scene"
	"cogentcore.org/core/math32"
	"github.com/h2non/filetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heartJSON = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "Patient", "nodes": [0]}],
  "nodes": [
    {"name": "Body", "children": [1, 2], "translation": [0, 1, 0]},
    {"name": "Heart", "mesh": 0, "scale": [2, 2, 2]},
    {"mesh": 1, "matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 3,4,5,1]}
  ],
  "meshes": [
    {"name": "HeartMesh", "primitives": [{"attributes": {"POSITION": 0}}, {"attributes": {"POSITION": 1}}]},
    {"name": "Vessel", "primitives": [{"attributes": {"NORMAL": 0}}]}
  ],
  "accessors": [
    {"componentType": 5126, "count": 3, "type": "VEC3", "min": [-1, -1, -1], "max": [1, 1, 1]},
    {"componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [2, 0.5, 0.5]}
  ]
}`

// glb wraps the given glTF JSON in a binary glTF container.
func glb(json string) []byte {
	chunk := []byte(json)
	for len(chunk)%4 != 0 {
		chunk = append(chunk, ' ')
	}
	var b bytes.Buffer
	b.WriteString("glTF")
	binary.Write(&b, binary.LittleEndian, uint32(2))
	binary.Write(&b, binary.LittleEndian, uint32(12+8+len(chunk)))
	binary.Write(&b, binary.LittleEndian, uint32(len(chunk)))
	b.WriteString("JSON")
	b.Write(chunk)
	return b.Bytes()
}

func TestIsGLB(t *testing.T) {
	data := glb(heartJSON)
	assert.True(t, IsGLB(data))
	assert.True(t, filetype.Is(data, Extension))
	assert.False(t, IsGLB([]byte("glTF")))
	assert.False(t, IsGLB([]byte(heartJSON)))
	assert.False(t, filetype.Is([]byte("not a model file at all"), Extension))
}

func TestImport(t *testing.T) {
	im := New()
	p, err := im.Import(context.Background(), glb(heartJSON), "heart.glb")
	require.NoError(t, err)
	doc := p.(*Document)
	assert.Equal(t, "heart.glb", doc.URI)
	assert.Len(t, doc.Doc.Nodes, 3)

	_, err = im.Import(context.Background(), []byte(heartJSON), "heart.gltf")
	assert.ErrorContains(t, err, "not a binary glTF")

	_, err = im.Import(context.Background(), glb(`{"asset": {"version": "2.0"}}`), "empty.glb")
	assert.ErrorContains(t, err, "no scenes")

	_, err = im.Import(context.Background(), glb(`{"asset": `), "broken.glb")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = im.Import(ctx, glb(heartJSON), "heart.glb")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstantiate(t *testing.T) {
	im := New()
	p, err := im.Import(context.Background(), glb(heartJSON), "heart.glb")
	require.NoError(t, err)

	parent := scene.NewNamed("ModelParent")
	root, err := im.Instantiate(context.Background(), p, parent)
	require.NoError(t, err)
	assert.Equal(t, "Patient", root.Name)
	assert.Same(t, parent, root.ParentNode())

	body := root.FindByName("Body")
	require.NotNil(t, body)
	assert.Equal(t, math32.Vec3(0, 1, 0), body.Pose.Pos)
	assert.Nil(t, body.Renderer)

	heart := root.FindByName("Heart")
	require.NotNil(t, heart)
	assert.Same(t, body, heart.ParentNode())
	assert.Equal(t, math32.Vec3(2, 2, 2), heart.Pose.Scale)
	require.NotNil(t, heart.Renderer)
	assert.Equal(t, "HeartMesh", heart.Renderer.MeshName)
	assert.Equal(t, math32.Vec3(-1, -1, -1), heart.Renderer.Bounds.Min)
	assert.Equal(t, math32.Vec3(2, 1, 1), heart.Renderer.Bounds.Max)

	vessel := root.FindByName("Node2")
	require.NotNil(t, vessel)
	assert.Equal(t, math32.Vec3(3, 4, 5), vessel.Pose.Pos)
	assert.Equal(t, math32.Vec3(1, 1, 1), vessel.Pose.Scale)
	assert.InDelta(t, 1, vessel.Pose.Quat.W, 1e-6)
	require.NotNil(t, vessel.Renderer)
	assert.Equal(t, math32.Box3{}, vessel.Renderer.Bounds)

	assert.Len(t, parent.Renderers(), 2)
}

func TestInstantiateErrors(t *testing.T) {
	im := New()
	parent := scene.NewNamed("ModelParent")
	_, err := im.Instantiate(context.Background(), "not a document", parent)
	assert.Error(t, err)

	p, err := im.Import(context.Background(), glb(`{
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "a", "children": [0]}]
}`), "cycle.glb")
	require.NoError(t, err)
	_, err = im.Instantiate(context.Background(), p, parent)
	assert.ErrorContains(t, err, "more than once")

	p, err = im.Import(context.Background(), glb(`{"scenes": [{"nodes": [4]}]}`), "range.glb")
	require.NoError(t, err)
	_, err = im.Instantiate(context.Background(), p, parent)
	assert.ErrorContains(t, err, "out of range")
}

func TestDecompose(t *testing.T) {
	q := math32.NewQuatAxisAngle(math32.Vec3(0, 0, 1), math32.Pi/2)
	// rotation of 90 degrees around z, scaled by 2, translated by (1, 2, 3)
	m := [16]float64{0, 2, 0, 0, -2, 0, 0, 0, 0, 0, 2, 0, 1, 2, 3, 1}
	var ps scene.Pose
	decompose(&ps, m)
	assert.Equal(t, math32.Vec3(1, 2, 3), ps.Pos)
	assert.InDelta(t, 2, ps.Scale.X, 1e-5)
	assert.InDelta(t, 2, ps.Scale.Z, 1e-5)
	assert.InDelta(t, q.X, ps.Quat.X, 1e-5)
	assert.InDelta(t, q.Y, ps.Quat.Y, 1e-5)
	assert.InDelta(t, q.Z, ps.Quat.Z, 1e-5)
	assert.InDelta(t, q.W, ps.Quat.W, 1e-5)
}
