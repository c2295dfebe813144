// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadflow runs model load attempts: it selects the most
// recent model from the catalog, acquires it, and initializes it for
// presentation, classifying and reporting failures and rolling back
// the presentation state when an attempt does not succeed.
package loadflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"cogentcore.org/anatomy/acquire"
	"cogentcore.org/anatomy/catalog"
	"cogentcore.org/anatomy/failure"
	"cogentcore.org/anatomy/postload"
	"cogentcore.org/anatomy/presentation"
	"cogentcore.org/anatomy/preset"
	"cogentcore.org/core/base/errors"
	"github.com/google/uuid"
)

// Reporter shows failure messages to the user.
type Reporter interface {
	Report(kind failure.Kind, message string)
}

// ReporterFunc is a function that implements [Reporter].
type ReporterFunc func(kind failure.Kind, message string)

func (rf ReporterFunc) Report(kind failure.Kind, message string) {
	rf(kind, message)
}

// Orchestrator runs load attempts. Only one attempt may run at a time.
type Orchestrator struct {

	// StorageRoot is the folder containing the models folder.
	StorageRoot string

	// Source, if set, is loaded instead of the asset of the selected
	// record, for example the URL of the same model on a server.
	Source string

	// Pipeline acquires the model.
	Pipeline *acquire.Pipeline

	// Init prepares the model for presentation.
	Init *postload.Initializer

	// Root is the presentation state models are loaded into.
	Root *presentation.Root

	// Reporter, if set, receives the message of each failure.
	Reporter Reporter

	// OnState, if set, is called on each state transition.
	OnState func(s State)

	state  atomic.Int32
	record *catalog.Record
}

// State returns the state of the current or last attempt.
func (or *Orchestrator) State() State {
	return State(or.state.Load())
}

// Record returns the record of the presented model, or nil.
func (or *Orchestrator) Record() *catalog.Record {
	if or.State() != Ready {
		return nil
	}
	return or.record
}

func (or *Orchestrator) setState(log *slog.Logger, s State) {
	or.state.Store(int32(s))
	log.Debug("loadflow: state", "state", s)
	if or.OnState != nil {
		or.OnState(s)
	}
}

// Run runs one load attempt. It returns nil when the model is presented
// or the attempt was cancelled; any other failure is reported, rolled
// back, and returned as a [failure.Error].
func (or *Orchestrator) Run(ctx context.Context) error {
	log := slog.With("attempt", uuid.NewString())
	or.record = nil
	or.setState(log, Idle)
	or.Root.DeleteCurrent()

	or.setState(log, Discovering)
	if err := ctx.Err(); err != nil {
		return or.fail(log, failure.New(failure.NotFound, "discover", err))
	}
	rc, err := catalog.MostRecent(or.StorageRoot)
	if err != nil {
		return or.fail(log, err)
	}
	if !rc.IsValid() {
		return or.fail(log, failure.Errorf(failure.NotFound, "discover", "malformed data in %s", rc.Folder))
	}
	src := rc.AssetPath
	if or.Source != "" {
		src = or.Source
	}
	log.Info("loadflow: selected model", "id", rc.ID(), "study", rc.StudyDate, "source", src)

	or.setState(log, Acquiring)
	root, err := or.Pipeline.Acquire(ctx, src, or.Root.Parent())
	if err != nil {
		return or.fail(log, err)
	}
	or.Root.SetRoot(root)
	if err := ctx.Err(); err != nil {
		return or.fail(log, failure.New(failure.Instantiate, "instantiate", err))
	}

	or.setState(log, Initializing)
	if err := or.Init.Initialize(rc); err != nil {
		return or.fail(log, err)
	}
	if err := ctx.Err(); err != nil {
		return or.fail(log, failure.New(failure.Instantiate, "initialize", err))
	}
	or.record = rc
	or.setState(log, Ready)
	log.Info("loadflow: model ready", "id", rc.ID())
	return nil
}

// fail classifies, reports, and rolls back the given failure.
// Cancellation is routed to cancel instead.
func (or *Orchestrator) fail(log *slog.Logger, err error) error {
	kind := failure.KindOf(err)
	if kind == failure.Cancelled {
		return or.cancel(log, err)
	}
	if kind == failure.Unknown {
		err = failure.New(failure.Unknown, "load", err)
	}
	msg := fmt.Sprintf("%s: %v", failure.Message(kind), failure.Cause(err))
	log.Error("loadflow: "+msg, "kind", kind, "err", err)
	if or.Reporter != nil {
		or.Reporter.Report(kind, msg)
	}
	or.Root.DeleteCurrent()
	or.setState(log, Failed)
	return err
}

// cancel silently removes anything the attempt instantiated.
func (or *Orchestrator) cancel(log *slog.Logger, err error) error {
	log.Info("loadflow: cancelled", "err", err)
	or.Root.DeleteCurrent()
	or.setState(log, Cancelled)
	return nil
}

// SwitchPreset applies the named preset to the presented model.
func (or *Orchestrator) SwitchPreset(name string) (*preset.Report, error) {
	rc := or.Record()
	if rc == nil {
		return nil, errors.New("loadflow: no model is presented")
	}
	if or.Init == nil || or.Init.Presets == nil {
		return nil, errors.New("loadflow: no preset applier")
	}
	old := rc.Preset
	rc.SetPreset(name)
	rep, err := or.Init.Presets.Apply(rc, or.Root.Index())
	if err != nil {
		rc.SetPreset(old)
		return nil, err
	}
	return rep, nil
}

// Watch runs an attempt now and again each time the catalog changes,
// until the context is done. A change during an attempt cancels it,
// and the next attempt starts only once it has returned.
func (or *Orchestrator) Watch(ctx context.Context) error {
	changes := make(chan string, 1)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- catalog.Watch(ctx, or.StorageRoot, func(path string) {
			select {
			case changes <- path:
			default:
			}
		})
	}()
	for {
		actx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- or.Run(actx)
		}()
		var attemptDone bool
		select {
		case <-ctx.Done():
		case path := <-changes:
			slog.Info("loadflow: catalog changed, reloading", "path", path)
		case err := <-watchErr:
			cancel()
			<-done
			return err
		case <-done:
			attemptDone = true
		}
		cancel()
		if !attemptDone {
			<-done
		} else {
			select {
			case <-ctx.Done():
			case path := <-changes:
				slog.Info("loadflow: catalog changed, reloading", "path", path)
			case err := <-watchErr:
				return err
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
