// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadflow

import "fmt"

// State is the state of a load attempt.
type State int32

const (
	// Idle is the state before an attempt starts.
	Idle State = iota

	// Discovering is selecting the model to load from the catalog.
	Discovering

	// Acquiring is downloading, loading, and instantiating the model.
	Acquiring

	// Initializing is preparing the instantiated model for presentation.
	Initializing

	// Ready means the model is presented.
	Ready

	// Failed means the attempt failed and was rolled back.
	Failed

	// Cancelled means the attempt was cancelled.
	Cancelled
)

var stateNames = [...]string{"Idle", "Discovering", "Acquiring", "Initializing", "Ready", "Failed", "Cancelled"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

// IsTerminal returns whether no further transition leaves the state
// within the same attempt.
func (s State) IsTerminal() bool {
	return s == Ready || s == Failed || s == Cancelled
}
