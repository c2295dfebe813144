// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gltfimport provides an [acquire.Importer] for binary glTF
// (.glb) files, using github.com/qmuntal/gltf for parsing.
package gltfimport

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"cogentcore.org/anatomy/acquire"
	"cogentcore.org/anatomy/scene"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/h2non/filetype"
	"github.com/qmuntal/gltf"
)

// Extension is the file type extension registered for binary glTF.
const Extension = "glb"

// glbMagic is the magic number at the start of every binary glTF file.
var glbMagic = []byte("glTF")

func init() {
	filetype.AddMatcher(filetype.NewType(Extension, "model/gltf-binary"), IsGLB)
}

// IsGLB returns whether the given header starts with the binary glTF
// magic number and a supported container version.
func IsGLB(buf []byte) bool {
	if len(buf) < 12 || !bytes.HasPrefix(buf, glbMagic) {
		return false
	}
	return buf[4] == 2 && buf[5] == 0 && buf[6] == 0 && buf[7] == 0
}

// DefaultSceneName is the name of the root node of scenes without a name.
const DefaultSceneName = "Scene"

// Importer imports binary glTF files.
type Importer struct{}

// New returns a new glTF [Importer].
func New() *Importer {
	return &Importer{}
}

// Document is the parsed form of a glTF file returned by [Importer.Import].
type Document struct {
	URI string
	Doc *gltf.Document
}

func (im *Importer) Import(ctx context.Context, data []byte, uri string) (acquire.Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filetype.Is(data, Extension) {
		return nil, fmt.Errorf("gltfimport: %s is not a binary glTF file", uri)
	}
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltfimport: decoding %s: %w", uri, err)
	}
	if len(doc.Scenes) == 0 {
		return nil, fmt.Errorf("gltfimport: %s has no scenes", uri)
	}
	slog.Info("gltfimport: parsed", "uri", uri, "nodes", len(doc.Nodes), "meshes", len(doc.Meshes))
	return &Document{URI: uri, Doc: doc}, nil
}

// Instantiate creates a root node for the default scene of the document
// under the given parent, with one node per glTF node below it.
func (im *Importer) Instantiate(ctx context.Context, p acquire.Parsed, parent *scene.Node) (*scene.Node, error) {
	gd, ok := p.(*Document)
	if !ok || gd == nil || gd.Doc == nil {
		return nil, errors.New("gltfimport: not a parsed glTF document")
	}
	doc := gd.Doc
	si := 0
	if doc.Scene != nil {
		si = *doc.Scene
	}
	if si < 0 || si >= len(doc.Scenes) {
		return nil, fmt.Errorf("gltfimport: scene %d out of range", si)
	}
	sc := doc.Scenes[si]
	name := sc.Name
	if name == "" {
		name = DefaultSceneName
	}
	b := &builder{doc: doc, visited: make(map[int]bool)}
	root := scene.NewNamed(name, parent)
	for _, ni := range sc.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.node(ni, root); err != nil {
			return nil, err
		}
	}
	return root, nil
}

type builder struct {
	doc     *gltf.Document
	visited map[int]bool
}

// node creates the scene node for glTF node ni under parent,
// followed by its children.
func (b *builder) node(ni int, parent *scene.Node) error {
	if ni < 0 || ni >= len(b.doc.Nodes) {
		return fmt.Errorf("gltfimport: node %d out of range", ni)
	}
	if b.visited[ni] {
		return fmt.Errorf("gltfimport: node %d is referenced more than once", ni)
	}
	b.visited[ni] = true
	gn := b.doc.Nodes[ni]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("Node%d", ni)
	}
	n := scene.NewNamed(name, parent)
	setPose(&n.Pose, gn)
	if gn.Mesh != nil {
		r, err := b.renderer(*gn.Mesh)
		if err != nil {
			return err
		}
		n.Renderer = r
	}
	for _, ci := range gn.Children {
		if err := b.node(ci, n); err != nil {
			return err
		}
	}
	return nil
}

// renderer returns a renderer for mesh mi, with bounds from the
// min and max of the position accessors of its primitives.
func (b *builder) renderer(mi int) (*scene.Renderer, error) {
	if mi < 0 || mi >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("gltfimport: mesh %d out of range", mi)
	}
	m := b.doc.Meshes[mi]
	r := &scene.Renderer{MeshName: m.Name, Bounds: math32.B3Empty()}
	for _, pr := range m.Primitives {
		ai, ok := pr.Attributes[gltf.POSITION]
		if !ok || ai < 0 || ai >= len(b.doc.Accessors) {
			continue
		}
		acc := b.doc.Accessors[ai]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			slog.Warn("gltfimport: position accessor without bounds", "mesh", m.Name, "accessor", ai)
			continue
		}
		r.Bounds.ExpandByPoint(math32.Vec3(float32(acc.Min[0]), float32(acc.Min[1]), float32(acc.Min[2])))
		r.Bounds.ExpandByPoint(math32.Vec3(float32(acc.Max[0]), float32(acc.Max[1]), float32(acc.Max[2])))
	}
	if r.Bounds.IsEmpty() {
		r.Bounds = math32.Box3{}
	}
	return r, nil
}

// identityMatrix is the glTF default node matrix.
var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// setPose sets the pose from the transform of the glTF node,
// which is either a matrix or translation, rotation and scale.
func setPose(ps *scene.Pose, gn *gltf.Node) {
	if gn.Matrix != identityMatrix && gn.Matrix != ([16]float64{}) {
		decompose(ps, gn.Matrix)
		return
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	ps.Pos = math32.Vec3(float32(t[0]), float32(t[1]), float32(t[2]))
	ps.Quat = math32.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
	ps.Scale = math32.Vec3(float32(s[0]), float32(s[1]), float32(s[2]))
}

// decompose sets the pose from a column major affine matrix
// without shear.
func decompose(ps *scene.Pose, m [16]float64) {
	col := func(j int) math32.Vector3 {
		return math32.Vec3(float32(m[j*4]), float32(m[j*4+1]), float32(m[j*4+2]))
	}
	sx, sy, sz := col(0).Length(), col(1).Length(), col(2).Length()
	ps.Pos = math32.Vec3(float32(m[12]), float32(m[13]), float32(m[14]))
	ps.Scale = math32.Vec3(sx, sy, sz)
	scale := [3]float32{sx, sy, sz}
	for i, s := range scale {
		if s == 0 {
			scale[i] = 1
		}
	}
	// e(row, col) of the rotation part
	e := func(i, j int) float32 {
		return float32(m[j*4+i]) / scale[j]
	}
	var q math32.Quat
	tr := e(0, 0) + e(1, 1) + e(2, 2)
	switch {
	case tr > 0:
		s := 0.5 / math32.Sqrt(tr+1)
		q.W = 0.25 / s
		q.X = (e(2, 1) - e(1, 2)) * s
		q.Y = (e(0, 2) - e(2, 0)) * s
		q.Z = (e(1, 0) - e(0, 1)) * s
	case e(0, 0) > e(1, 1) && e(0, 0) > e(2, 2):
		s := 2 * math32.Sqrt(1+e(0, 0)-e(1, 1)-e(2, 2))
		q.W = (e(2, 1) - e(1, 2)) / s
		q.X = 0.25 * s
		q.Y = (e(0, 1) + e(1, 0)) / s
		q.Z = (e(0, 2) + e(2, 0)) / s
	case e(1, 1) > e(2, 2):
		s := 2 * math32.Sqrt(1+e(1, 1)-e(0, 0)-e(2, 2))
		q.W = (e(0, 2) - e(2, 0)) / s
		q.X = (e(0, 1) + e(1, 0)) / s
		q.Y = 0.25 * s
		q.Z = (e(1, 2) + e(2, 1)) / s
	default:
		s := 2 * math32.Sqrt(1+e(2, 2)-e(0, 0)-e(1, 1))
		q.W = (e(1, 0) - e(0, 1)) / s
		q.X = (e(0, 2) + e(2, 0)) / s
		q.Y = (e(1, 2) + e(2, 1)) / s
		q.Z = 0.25 * s
	}
	ps.Quat = q
}

var _ acquire.Importer = &Importer{}
