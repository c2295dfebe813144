// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preset

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/anatomy/catalog"
	"cogentcore.org/anatomy/scene"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testModel returns a model root with renderable parts lung, heart,
// and rib (nested under bones), plus a renderless group named bones.
func testModel() (*scene.Node, map[string]*scene.Node) {
	root := scene.NewNamed("Scene")
	parts := map[string]*scene.Node{}
	for _, nm := range []string{"lung", "heart"} {
		n := scene.NewNamed(nm, root)
		n.Renderer = &scene.Renderer{MeshName: nm}
		parts[nm] = n
	}
	bones := scene.NewNamed("bones", root)
	parts["bones"] = bones
	rib := scene.NewNamed("rib", bones)
	rib.Renderer = &scene.Renderer{MeshName: "rib"}
	parts["rib"] = rib
	return root, parts
}

func TestNormalizeAlpha(t *testing.T) {
	assert.Equal(t, float32(1), NormalizeAlpha(255))
	assert.Equal(t, scene.Opaque, VariantFor(NormalizeAlpha(255)))

	a := NormalizeAlpha(128)
	assert.InDelta(t, 0.502, a, 0.001)
	assert.Equal(t, scene.Transparent, VariantFor(a))

	assert.Equal(t, float32(0), NormalizeAlpha(0))
	assert.Equal(t, scene.Transparent, VariantFor(NormalizeAlpha(0)))
}

func TestApplyConfig(t *testing.T) {
	root, parts := testModel()
	ms := scene.NewMaterials()
	ap := NewApplier(ms)
	cfg := &Config{
		Name: "Default",
		Presets: []Entry{
			{Name: "lung", Display: 1, MLut: Color{R: 200, G: 100, B: 50, A: 128}},
			{Name: "lugn", Display: 1, MLut: Color{A: 255}},
			{Name: "heart", Display: 0, MLut: Color{R: 255, A: 255}},
			{Name: "bones", Display: 1, MLut: Color{A: 255}},
			{Name: "rib", Display: 7, MLut: Color{R: 1, G: 2, B: 3, A: 0}},
		},
	}
	rep := ap.ApplyConfig(cfg, scene.NewIndex(root))
	want := &Report{
		Name:       "Default",
		Applied:    []string{"lung", "heart", "rib"},
		Missing:    []string{"lugn"},
		NoRenderer: []string{"bones"},
	}
	if diff := cmp.Diff(want, rep); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	lung := parts["lung"].Renderer
	assert.Equal(t, scene.Transparent, lung.Material.Variant)
	c, _ := lung.Overrides.Color(scene.ColorProperty)
	assert.Equal(t, color.RGBA{200, 100, 50, 128}, c)
	a, _ := lung.Overrides.Float(scene.AlphaProperty)
	assert.InDelta(t, 0.502, a, 0.001)
	assert.True(t, parts["lung"].Visible)

	heart := parts["heart"].Renderer
	assert.Equal(t, scene.Opaque, heart.Material.Variant)
	a, _ = heart.Overrides.Float(scene.AlphaProperty)
	assert.Equal(t, float32(1), a)
	assert.False(t, parts["heart"].Visible)

	rib := parts["rib"]
	assert.True(t, rib.Visible)
	assert.Equal(t, scene.Transparent, rib.Renderer.Material.Variant)
	a, _ = rib.Renderer.Overrides.Float(scene.AlphaProperty)
	assert.Equal(t, float32(0), a)

	// lung and rib share the transparent material but diverge by override
	assert.Same(t, lung.Material, rib.Renderer.Material)
	assert.NotEqual(t, lung.EffectiveColor(), rib.Renderer.EffectiveColor())
}

func TestApplyConfigMaterialError(t *testing.T) {
	root, parts := testModel()
	ms := &scene.Materials{Shaders: map[scene.Variant]string{scene.Opaque: scene.OpaqueShader}}
	ap := NewApplier(ms)
	cfg := &Config{Presets: []Entry{
		{Name: "lung", Display: 1, MLut: Color{A: 10}},
		{Name: "heart", Display: 1, MLut: Color{A: 255}},
	}}
	rep := ap.ApplyConfig(cfg, scene.NewIndex(root))
	assert.Equal(t, []string{"heart"}, rep.Applied)
	assert.Nil(t, parts["lung"].Renderer.Material)
}

func writePreset(t *testing.T, folder, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, name+".json"), []byte(content), 0o644))
}

func TestApply(t *testing.T) {
	folder := t.TempDir()
	writePreset(t, folder, "bones", `{
	"Version": "1.0",
	"Name": "Bones only",
	"Presets": [
		{"Name": "lung", "Display": 0, "MLut": {"R": 10, "G": 20, "B": 30, "A": 255}},
		{"Name": "rib", "Display": 1, "MLut": {"R": 240, "G": 240, "B": 230, "A": 255}}
	]
}`)
	root, parts := testModel()
	idx := scene.NewIndex(root)
	ap := NewApplier(scene.NewMaterials())

	rc := &catalog.Record{Preset: "bones", Folder: folder, AssetPath: filepath.Join(folder, "m.glb")}
	rep, err := ap.Apply(rc, idx)
	require.NoError(t, err)
	assert.Equal(t, "Bones only", rep.Name)
	assert.Equal(t, []string{"lung", "rib"}, rep.Applied)
	assert.False(t, parts["lung"].Visible)

	// folder derived from the asset path
	rc = &catalog.Record{Preset: "bones", AssetPath: filepath.Join(folder, "m.glb")}
	_, err = ap.Apply(rc, idx)
	assert.NoError(t, err)

	rc.SetPreset("missing")
	_, err = ap.Apply(rc, idx)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = ap.Apply(&catalog.Record{Preset: "bones"}, idx)
	assert.True(t, errors.Is(err, ErrNotFound))

	writePreset(t, folder, "broken", "{")
	rc.SetPreset("broken")
	_, err = ap.Apply(rc, idx)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestSuggest(t *testing.T) {
	root, _ := testModel()
	idx := scene.NewIndex(root)
	assert.Equal(t, "lung", suggest("lugn", idx))
	assert.Equal(t, "", suggest("pancreas", idx))
}
