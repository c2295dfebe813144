// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDelay is how long [Watch] waits for the file events of one
// change to settle before reporting it, so that copying a whole model
// folder is reported once.
var WatchDelay = 500 * time.Millisecond

// Watch watches the models folder of the given storage root and each
// model folder in it, calling onChange with the path of the last
// changed file once events have settled for [WatchDelay]. It blocks
// until the context is done, and returns nil then.
func Watch(ctx context.Context, storageRoot string, onChange func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: creating watcher: %w", err)
	}
	defer w.Close()

	dir := ModelsPath(storageRoot)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("catalog: watching %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			addWatch(w, filepath.Join(dir, e.Name()))
		}
	}

	timer := time.NewTimer(WatchDelay)
	timer.Stop()
	defer timer.Stop()
	last := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == dir {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					addWatch(w, ev.Name)
				}
			}
			last = ev.Name
			timer.Reset(WatchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("catalog watcher", "err", err)
		case <-timer.C:
			onChange(last)
		}
	}
}

func addWatch(w *fsnotify.Watcher, folder string) {
	if err := w.Add(folder); err != nil {
		slog.Error("catalog: cannot watch model folder", "folder", folder, "err", err)
	}
}
