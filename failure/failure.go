// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package failure classifies the errors of a model load attempt into
// the small set of kinds that are reported to the user.
package failure

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the category of a load failure.
type Kind int32

const (
	// Unknown is an error that did not come from any load stage.
	Unknown Kind = iota

	// NotFound means there is no candidate model, or a required
	// sidecar file is missing or malformed.
	NotFound

	// Download means the remote asset could not be fetched or cached.
	Download

	// Load means the importer rejected the asset bytes.
	Load

	// Instantiate means the importer could not build the scene graph.
	Instantiate

	// Cancelled means the attempt was cancelled cooperatively.
	// It is never reported to the user.
	Cancelled
)

var kindNames = [...]string{"Unknown", "NotFound", "Download", "Load", "Instantiate", "Cancelled"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
	return kindNames[k]
}

// messages are the user facing messages for each kind.
var messages = map[Kind]string{
	Unknown:     "An unexpected error occurred",
	NotFound:    "No model data was found, or the model data is malformed",
	Download:    "An error occurred while downloading the model",
	Load:        "An error occurred while loading the model",
	Instantiate: "An error occurred while creating the model",
	Cancelled:   "",
}

// Message returns the user facing message for the given kind.
// It is empty for [Cancelled].
func Message(k Kind) string {
	return messages[k]
}

// Error is an error tagged with the stage it came from.
type Error struct {

	// Kind is the stage classification.
	Kind Kind

	// Op describes what was being done, such as "download" or "load".
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// New returns a new [Error] of the given kind.
// The cause may be nil when the stage reported failure without an error.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Errorf returns a new [Error] of the given kind whose cause
// is formatted from the given format and arguments.
func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return New(kind, op, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": failed"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target is an [Error] of the same kind,
// so that errors.Is(err, &failure.Error{Kind: failure.Load}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the kind of the given error. Context cancellation
// anywhere in the chain takes precedence over any stage tag, so a
// fetch aborted by cancellation is [Cancelled] rather than [Download].
// Deadlines are not cancellation: a timed out fetch keeps its stage kind.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// IsCancelled returns whether the given error is a cancellation.
func IsCancelled(err error) bool {
	return KindOf(err) == Cancelled
}

// Cause returns the innermost cause of the given error,
// for inclusion in user facing messages.
func Cause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
