// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/iox/jsonx"
	"github.com/Masterminds/semver/v3"
)

// SupportedMajor is the major schema version of the sidecar
// files that this package understands.
const SupportedMajor = 1

// PatientMetadata is the content of the model.json file of a model folder.
type PatientMetadata struct {
	Version       string
	Patient       PatientInfo
	DefaultPreset string
}

// PatientInfo is the patient part of [PatientMetadata].
type PatientInfo struct {
	Name      string
	ID        string
	Birthday  string
	StudyDate string
}

// OpenMetadata reads the [PatientMetadata] from the given file.
func OpenMetadata(filename string) (*PatientMetadata, error) {
	md := &PatientMetadata{}
	if err := jsonx.Open(md, filename); err != nil {
		return nil, fmt.Errorf("catalog: reading metadata %q: %w", filename, err)
	}
	CheckVersion(filename, md.Version)
	return md, nil
}

// Record returns a new [Record] for the given asset and folder
// from this metadata.
func (md *PatientMetadata) Record(assetPath, folder string) *Record {
	return &Record{
		PatientName: md.Patient.Name,
		PatientID:   md.Patient.ID,
		Birthday:    md.Patient.Birthday,
		StudyDate:   md.Patient.StudyDate,
		Preset:      md.DefaultPreset,
		AssetPath:   assetPath,
		Folder:      folder,
		Version:     md.Version,
	}
}

// CheckVersion logs a warning if the given schema version of the given
// file cannot be parsed or is newer than [SupportedMajor]. A blank
// version is accepted silently. The file is still used either way.
func CheckVersion(filename, version string) {
	if isBlank(version) {
		return
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		slog.Warn("unparsable schema version", "file", filename, "version", version, "err", err)
		return
	}
	if v.Major() > SupportedMajor {
		slog.Warn("schema version is newer than supported", "file", filename, "version", version, "supported", SupportedMajor)
	}
}
