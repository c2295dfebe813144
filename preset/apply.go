// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preset

import (
	"fmt"
	"log/slog"

	"cogentcore.org/anatomy/catalog"
	"cogentcore.org/anatomy/scene"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/fsx"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// ErrNotFound is returned by [Applier.Apply] when the preset file of
// a record cannot be located. Nothing is applied in that case.
var ErrNotFound = errors.New("preset file not found")

// SuggestThreshold is the minimum similarity for a node name to be
// suggested when a preset entry names a node that does not exist.
var SuggestThreshold = 0.5

// Report describes the outcome of applying a preset.
type Report struct {

	// Name is the display name of the preset.
	Name string

	// Applied are the names of the entries that were applied.
	Applied []string

	// Missing are the names of the entries that matched no node.
	Missing []string

	// NoRenderer are the names of the entries whose node
	// has no renderer, which are skipped.
	NoRenderer []string
}

// Applier applies presets to the nodes of a scene index.
type Applier struct {

	// Materials creates and assigns the materials.
	Materials scene.MaterialSystem
}

// NewApplier returns a new [Applier] using the given material system.
func NewApplier(ms scene.MaterialSystem) *Applier {
	return &Applier{Materials: ms}
}

// Apply reads the current preset of the given record from the model
// folder and applies it to the nodes of the given index. A missing
// preset file returns an error wrapping [ErrNotFound] without applying
// anything; callers treat that as a skip, not a load failure.
func (ap *Applier) Apply(rc *catalog.Record, idx *scene.Index) (*Report, error) {
	if rc == nil {
		return nil, fmt.Errorf("%w: no model", ErrNotFound)
	}
	path := rc.PresetPath()
	if path == "" {
		return nil, fmt.Errorf("%w: model folder is unknown for asset %q", ErrNotFound, rc.AssetPath)
	}
	if !errors.Log1(fsx.FileExists(path)) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	cfg, err := Open(path)
	if err != nil {
		return nil, err
	}
	return ap.ApplyConfig(cfg, idx), nil
}

// ApplyConfig applies each entry of the given preset, in order, to the
// node of the same name in the given index. Entries whose node is
// missing are logged and skipped; they never stop the remaining entries.
func (ap *Applier) ApplyConfig(cfg *Config, idx *scene.Index) *Report {
	rep := &Report{Name: cfg.Name}
	for _, e := range cfg.Presets {
		n, ok := idx.Lookup(e.Name)
		if !ok {
			if s := suggest(e.Name, idx); s != "" {
				slog.Error("preset: model object not found", "name", e.Name, "closest", s)
			} else {
				slog.Error("preset: model object not found", "name", e.Name)
			}
			rep.Missing = append(rep.Missing, e.Name)
			continue
		}
		if n.Renderer == nil {
			slog.Warn("preset: model object has no renderer", "name", e.Name)
			rep.NoRenderer = append(rep.NoRenderer, e.Name)
			continue
		}
		if err := ap.applyEntry(n, e); err != nil {
			slog.Error("preset: cannot apply entry", "name", e.Name, "err", err)
			continue
		}
		rep.Applied = append(rep.Applied, e.Name)
	}
	return rep
}

func (ap *Applier) applyEntry(n *scene.Node, e Entry) error {
	alpha := NormalizeAlpha(e.MLut.A)
	mat, err := ap.Materials.Material(VariantFor(alpha))
	if err != nil {
		return err
	}
	r := n.Renderer
	ap.Materials.Assign(r, mat)
	ap.Materials.SetColor(r, scene.ColorProperty, e.MLut.RGBA())
	ap.Materials.SetFloat(r, scene.AlphaProperty, alpha)
	n.Visible = e.Display != 0
	return nil
}

// NormalizeAlpha maps an 8 bit alpha to the 0..1 range.
func NormalizeAlpha(a uint8) float32 {
	return min(max(float32(a)/255, 0), 1)
}

// VariantFor returns the material variant for the given normalized
// alpha: opaque only when fully opaque.
func VariantFor(alpha float32) scene.Variant {
	if alpha >= 1 {
		return scene.Opaque
	}
	return scene.Transparent
}

// suggest returns the name in the index most similar to the given one,
// or "" if none is similar enough.
func suggest(name string, idx *scene.Index) string {
	best, bestSim := "", SuggestThreshold
	lev := metrics.NewLevenshtein()
	for _, cand := range idx.Names() {
		if sim := strutil.Similarity(name, cand, lev); sim >= bestSim {
			best, bestSim = cand, sim
		}
	}
	return best
}
