// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog discovers the patient models available in a storage
// root. Each model lives in its own folder:
//
//	<root>/models/<id>/<asset>.glb
//	<root>/models/<id>/model.json
//	<root>/models/<id>/<preset>.json
package catalog

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/anatomy/failure"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/fsx"
)

const (
	// ModelsDir is the name of the folder under the storage root
	// that contains one folder per model.
	ModelsDir = "models"

	// MetadataFile is the name of the patient metadata file
	// of a model folder.
	MetadataFile = "model.json"

	// AssetExt is the extension of the binary scene file.
	AssetExt = ".glb"

	// PresetExt is the extension of preset files.
	PresetExt = ".json"
)

// ModelsPath returns the path of the models folder of the given storage root.
func ModelsPath(storageRoot string) string {
	return filepath.Join(storageRoot, ModelsDir)
}

// Discover returns the records of all usable model folders under the
// given storage root, most recent study date first. Folders without
// exactly one asset file or without a readable metadata file are
// logged and skipped. An error is returned only if the models folder
// itself cannot be read.
func Discover(storageRoot string) ([]*Record, error) {
	dir := ModelsPath(storageRoot)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading models folder: %w", err)
	}
	var recs []*Record
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		rc, err := ReadFolder(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Error("skipping model folder", "folder", e.Name(), "err", err)
			continue
		}
		recs = append(recs, rc)
	}
	SortByStudyDate(recs)
	return recs, nil
}

// ReadFolder returns the record of the given model folder.
func ReadFolder(folder string) (*Record, error) {
	asset, err := findAsset(folder)
	if err != nil {
		return nil, err
	}
	mdPath := filepath.Join(folder, MetadataFile)
	if !errors.Log1(fsx.FileExists(mdPath)) {
		return nil, fmt.Errorf("metadata file not found: %s", mdPath)
	}
	md, err := OpenMetadata(mdPath)
	if err != nil {
		return nil, err
	}
	return md.Record(asset, folder), nil
}

// findAsset returns the path of the only asset file directly in the folder.
func findAsset(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", err
	}
	var assets []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), AssetExt) {
			continue
		}
		assets = append(assets, filepath.Join(folder, e.Name()))
	}
	switch len(assets) {
	case 0:
		return "", fmt.Errorf("%s file not found in %s", AssetExt, folder)
	case 1:
		return assets[0], nil
	}
	return "", fmt.Errorf("%d %s files found in %s, expected one", len(assets), AssetExt, folder)
}

// SortByStudyDate sorts the records by study date, most recent first.
// Dates are compared as plain strings, which is only chronological for
// fixed width formats such as ISO 8601. Equal dates keep their order.
func SortByStudyDate(recs []*Record) {
	slices.SortStableFunc(recs, func(a, b *Record) int {
		return cmp.Compare(b.StudyDate, a.StudyDate)
	})
}

// MostRecent returns the record with the most recent study date under
// the given storage root. It returns a [failure.NotFound] error if there
// is none.
func MostRecent(storageRoot string) (*Record, error) {
	recs, err := Discover(storageRoot)
	if err != nil {
		return nil, failure.New(failure.NotFound, "discover", err)
	}
	if len(recs) == 0 {
		return nil, failure.Errorf(failure.NotFound, "discover", "no model data found in %s", ModelsPath(storageRoot))
	}
	return recs[0], nil
}
