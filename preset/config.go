// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package preset applies named visual presets (per part color, opacity,
// and visibility) to an instantiated model.
package preset

import (
	"fmt"
	"image/color"

	"cogentcore.org/anatomy/catalog"
	"cogentcore.org/core/base/iox/jsonx"
)

// Config is the content of one preset file.
type Config struct {
	Version string

	// Name is the display name of the preset.
	Name string

	// Presets are the entries for each part of the model, in the
	// order they are applied.
	Presets []Entry
}

// Entry is the visual setting of one named part of the model.
type Entry struct {

	// Name is the name of the scene node the entry applies to.
	Name string

	// Display is whether the part is shown: 0 hides it, anything else shows it.
	Display int

	// MLut is the color of the part, including its opacity.
	MLut Color
}

// Color is an 8 bit per channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGBA returns the color as a [color.RGBA]. The channels are not
// premultiplied: they are passed through to the material as authored.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, c.A}
}

// Open reads the [Config] from the given file.
func Open(filename string) (*Config, error) {
	cfg := &Config{}
	if err := jsonx.Open(cfg, filename); err != nil {
		return nil, fmt.Errorf("preset: reading %q: %w", filename, err)
	}
	catalog.CheckVersion(filename, cfg.Version)
	return cfg, nil
}
