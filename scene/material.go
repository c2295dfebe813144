// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"image/color"
	"maps"

	"cogentcore.org/core/math32"
)

// Variant is the shading variant of a [Material].
type Variant int32

const (
	// Opaque is the simple lit opaque variant.
	Opaque Variant = iota

	// Transparent is the simple lit alpha blended variant.
	Transparent
)

func (v Variant) String() string {
	switch v {
	case Opaque:
		return "Opaque"
	case Transparent:
		return "Transparent"
	}
	return fmt.Sprintf("Variant(%d)", int32(v))
}

// Names of the per renderer material properties set by presets.
const (
	// ColorProperty is the main color of the surface.
	ColorProperty = "MainColor"

	// AlphaProperty is the normalized opacity of the surface.
	AlphaProperty = "Alpha"
)

// Material is a shared material definition. Several renderers may
// point to the same material and diverge through their own
// [PropertyBlock] overrides.
type Material struct {

	// Name is the name of the shading program of this material.
	Name string

	// Variant is the shading variant.
	Variant Variant

	// Color is the default main color, used where no override is set.
	Color color.RGBA
}

// PropertyBlock holds per renderer overrides of named material
// properties, applied at draw time without mutating the shared material.
type PropertyBlock struct {
	Colors map[string]color.RGBA
	Floats map[string]float32
}

// SetColor sets the named color property.
func (pb *PropertyBlock) SetColor(name string, c color.RGBA) {
	if pb.Colors == nil {
		pb.Colors = map[string]color.RGBA{}
	}
	pb.Colors[name] = c
}

// SetFloat sets the named float property.
func (pb *PropertyBlock) SetFloat(name string, v float32) {
	if pb.Floats == nil {
		pb.Floats = map[string]float32{}
	}
	pb.Floats[name] = v
}

// Color returns the named color property and whether it is set.
func (pb *PropertyBlock) Color(name string) (color.RGBA, bool) {
	c, ok := pb.Colors[name]
	return c, ok
}

// Float returns the named float property and whether it is set.
func (pb *PropertyBlock) Float(name string) (float32, bool) {
	v, ok := pb.Floats[name]
	return v, ok
}

// Clone returns a deep copy of the block.
func (pb PropertyBlock) Clone() PropertyBlock {
	return PropertyBlock{Colors: maps.Clone(pb.Colors), Floats: maps.Clone(pb.Floats)}
}

// Renderer draws the mesh of a node with a material.
type Renderer struct {

	// MeshName is the name of the mesh drawn by this renderer.
	MeshName string

	// Bounds is the bounding box of the mesh in the local space of the node.
	Bounds math32.Box3

	// Material is the material assigned to this renderer.
	Material *Material

	// Overrides are the per renderer property overrides.
	Overrides PropertyBlock
}

// EffectiveColor returns the color this renderer draws with:
// the override if set, otherwise the material color.
func (r *Renderer) EffectiveColor() color.RGBA {
	if c, ok := r.Overrides.Color(ColorProperty); ok {
		return c
	}
	if r.Material != nil {
		return r.Material.Color
	}
	return color.RGBA{}
}

// MaterialSystem creates and assigns materials and sets per renderer
// property overrides.
type MaterialSystem interface {

	// NewMaterial returns a freshly created material of the given variant.
	NewMaterial(v Variant) (*Material, error)

	// Material returns the shared material of the given variant,
	// creating it on first use.
	Material(v Variant) (*Material, error)

	// Assign sets the material drawn by the given renderer.
	Assign(r *Renderer, m *Material)

	// SetColor sets a named color override on the given renderer.
	SetColor(r *Renderer, name string, c color.RGBA)

	// SetFloat sets a named float override on the given renderer.
	SetFloat(r *Renderer, name string, v float32)
}

// Shading program names of the default material variants.
const (
	OpaqueShader      = "SimpleLit"
	TransparentShader = "SimpleLitTransparent"
)

// Materials is the default in-memory [MaterialSystem].
type Materials struct {

	// Shaders maps each variant to its shading program name.
	// Variants missing from the map cannot be created.
	Shaders map[Variant]string

	shared map[Variant]*Material
}

// NewMaterials returns a [Materials] with the default shaders.
func NewMaterials() *Materials {
	return &Materials{
		Shaders: map[Variant]string{
			Opaque:      OpaqueShader,
			Transparent: TransparentShader,
		},
	}
}

func (ms *Materials) NewMaterial(v Variant) (*Material, error) {
	name, ok := ms.Shaders[v]
	if !ok || name == "" {
		return nil, fmt.Errorf("scene: shader not found for material variant %v", v)
	}
	return &Material{Name: name, Variant: v, Color: color.RGBA{128, 128, 128, 255}}, nil
}

func (ms *Materials) Material(v Variant) (*Material, error) {
	if m, ok := ms.shared[v]; ok {
		return m, nil
	}
	m, err := ms.NewMaterial(v)
	if err != nil {
		return nil, err
	}
	if ms.shared == nil {
		ms.shared = map[Variant]*Material{}
	}
	ms.shared[v] = m
	return m, nil
}

func (ms *Materials) Assign(r *Renderer, m *Material) {
	r.Material = m
}

func (ms *Materials) SetColor(r *Renderer, name string, c color.RGBA) {
	r.Overrides.SetColor(name, c)
}

func (ms *Materials) SetFloat(r *Renderer, name string, v float32) {
	r.Overrides.SetFloat(name, v)
}

var _ MaterialSystem = &Materials{}
