// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acquire

import (
	"context"

	"cogentcore.org/anatomy/scene"
)

// Parsed is a validated, parsed scene file that is ready to be
// instantiated. Its content is specific to the [Importer].
type Parsed any

// Importer parses binary scene files and instantiates them
// into the scene graph.
type Importer interface {

	// Import validates and parses the given scene file bytes.
	// The uri is the location the bytes came from, for resolving
	// relative resources and for messages. Returning a nil [Parsed]
	// with a nil error reports a rejected file without a cause.
	Import(ctx context.Context, data []byte, uri string) (Parsed, error)

	// Instantiate builds the scene graph of the given parsed file as
	// a child of the given parent and returns its root node.
	// Returning a nil node with a nil error reports a failure
	// without a cause.
	Instantiate(ctx context.Context, p Parsed, parent *scene.Node) (*scene.Node, error)
}
