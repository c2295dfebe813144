// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"path/filepath"
	"strings"
)

// Record is everything needed to acquire and present one model,
// as discovered in one model folder.
type Record struct {

	// PatientName is the name of the patient.
	PatientName string `json:"patientName" yaml:"patient_name"`

	// PatientID is the identifier of the patient.
	PatientID string `json:"patientID" yaml:"patient_id"`

	// Birthday is the birth date of the patient. It may be blank:
	// observational study data does not always carry one.
	Birthday string `json:"birthday,omitempty" yaml:"birthday,omitempty"`

	// StudyDate is the date of the study the model was made from.
	// Records are ordered by it, as a plain string.
	StudyDate string `json:"studyDate" yaml:"study_date"`

	// Preset is the name of the preset currently applied,
	// without the .json extension.
	Preset string `json:"preset" yaml:"preset"`

	// AssetPath is the path of the binary scene file.
	AssetPath string `json:"assetPath" yaml:"asset_path"`

	// Folder is the path of the folder containing the model files.
	Folder string `json:"folder" yaml:"folder"`

	// Version is the schema version of the metadata file.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ID returns the name of the model folder, which identifies the model
// in the storage layout.
func (rc *Record) ID() string {
	return filepath.Base(rc.Folder)
}

// SetPreset switches the preset applied to this model.
func (rc *Record) SetPreset(preset string) {
	rc.Preset = preset
}

// PresetPath returns the path of the file of the current preset, which
// lives next to the asset. It is "" if the folder cannot be determined.
func (rc *Record) PresetPath() string {
	folder := rc.Folder
	if isBlank(folder) {
		if isBlank(rc.AssetPath) {
			return ""
		}
		folder = filepath.Dir(rc.AssetPath)
	}
	return filepath.Join(folder, rc.Preset+PresetExt)
}

// IsValid returns whether no required field is missing. Birthday is
// not required.
func (rc *Record) IsValid() bool {
	return !isBlank(rc.PatientName) &&
		!isBlank(rc.PatientID) &&
		!isBlank(rc.StudyDate) &&
		!isBlank(rc.Preset) &&
		!isBlank(rc.AssetPath)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
