// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package acquire turns the source of a model, a local path or a remote
// URL, into a scene graph: it downloads and caches remote files, imports
// the file bytes, and instantiates the result under a parent node.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"cogentcore.org/anatomy/failure"
	"cogentcore.org/anatomy/scene"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/fsx"
)

// Manifest records completed downloads.
type Manifest interface {
	RecordDownload(ctx context.Context, url, path string, size int64) error
}

// Pipeline acquires models. Each step can be called on its own and
// is never retried internally.
type Pipeline struct {

	// CacheDir is the folder downloaded files are cached in.
	CacheDir string

	// Transport fetches remote files.
	Transport Transport

	// Importer parses and instantiates scene files.
	Importer Importer

	// Manifest, if set, records each completed download.
	Manifest Manifest
}

// IsRemote returns whether the given source is an absolute http
// or https URL, as opposed to a local path.
func IsRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// CacheName returns the name of the cache file for the given URL:
// the last element of its unescaped path. Names that would resolve
// outside of the cache folder are rejected.
func CacheName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	switch {
	case name == "." || name == "/" || name == "":
		return "", fmt.Errorf("no file name in url %q", rawURL)
	case name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return "", fmt.Errorf("invalid file name %q in url %q", name, rawURL)
	}
	return name, nil
}

// Acquire resolves the given source, imports it, and instantiates it
// under the given parent, returning the root of the new scene graph.
// Each step starts only after the previous one succeeded, and the
// context is checked before each of them.
func (pl *Pipeline) Acquire(ctx context.Context, src string, parent *scene.Node) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.New(failure.Cancelled, "acquire", err)
	}
	local, err := pl.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, failure.New(failure.Cancelled, "acquire", err)
	}
	parsed, err := pl.Import(ctx, local)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, failure.New(failure.Cancelled, "acquire", err)
	}
	return pl.Instantiate(ctx, parsed, parent)
}

// Resolve returns the local path of the given source. A local path is
// returned as is. A remote file is downloaded into the cache folder
// unless a file of the same name is already there, in which case it is
// used without any network access. Failures are [failure.Download] errors.
func (pl *Pipeline) Resolve(ctx context.Context, src string) (string, error) {
	if !IsRemote(src) {
		return src, nil
	}
	name, err := CacheName(src)
	if err != nil {
		return "", failure.New(failure.Download, "download", err)
	}
	local := filepath.Join(pl.CacheDir, name)
	if errors.Log1(fsx.FileExists(local)) {
		slog.Info("using cached model", "url", src, "path", local)
		return local, nil
	}
	if pl.Transport == nil {
		return "", failure.Errorf(failure.Download, "download", "no transport to fetch %s", src)
	}
	slog.Info("downloading model", "url", src)
	start := time.Now()
	data, err := pl.Transport.Fetch(ctx, src)
	if err != nil {
		return "", failure.New(failure.Download, "download", err)
	}
	if err := ctx.Err(); err != nil {
		return "", failure.New(failure.Download, "download", err)
	}
	if err := writeCache(pl.CacheDir, local, data); err != nil {
		return "", failure.New(failure.Download, "download", err)
	}
	slog.Info("saved model", "path", local, "bytes", len(data), "took", time.Since(start))
	if pl.Manifest != nil {
		errors.Log(pl.Manifest.RecordDownload(ctx, src, local, int64(len(data))))
	}
	return local, nil
}

// writeCache writes the data to a temporary file in dir and renames it
// to the final path, so that the final path only ever holds a whole file.
func writeCache(dir, final string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, final)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}

// Import reads the file at the given local path and parses it with the
// [Importer]. Any failure, including the importer rejecting the file
// without an error, is a [failure.Load] error.
func (pl *Pipeline) Import(ctx context.Context, local string) (Parsed, error) {
	data, err := os.ReadFile(local)
	if err != nil {
		return nil, failure.New(failure.Load, "load", err)
	}
	parsed, err := pl.Importer.Import(ctx, data, local)
	if err != nil {
		return nil, failure.New(failure.Load, "load", err)
	}
	if parsed == nil {
		return nil, failure.Errorf(failure.Load, "load", "the model file %s was rejected", local)
	}
	slog.Info("loaded model", "path", local)
	return parsed, nil
}

// Instantiate builds the scene graph of the parsed file under the given
// parent. Any failure, including the importer reporting failure without
// an error, is a [failure.Instantiate] error, and any nodes the importer
// added to the parent before failing are destroyed.
func (pl *Pipeline) Instantiate(ctx context.Context, parsed Parsed, parent *scene.Node) (*scene.Node, error) {
	before := slices.Clone(parent.Children)
	root, err := pl.Importer.Instantiate(ctx, parsed, parent)
	if err == nil && root == nil {
		err = errors.New("the importer did not create a scene")
	}
	if err != nil {
		for _, kid := range slices.Clone(parent.Children) {
			if !slices.Contains(before, kid) {
				kid.AsTree().Delete()
			}
		}
		return nil, failure.New(failure.Instantiate, "instantiate", err)
	}
	slog.Info("instantiated model", "root", root.Name)
	return root, nil
}
