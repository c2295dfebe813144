// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command anatomy loads patient anatomy models from a storage root,
// lists them, and serves them to viewers on other devices.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"cogentcore.org/anatomy/acquire"
	"cogentcore.org/anatomy/catalog"
	"cogentcore.org/anatomy/failure"
	"cogentcore.org/anatomy/gltfimport"
	"cogentcore.org/anatomy/loadflow"
	"cogentcore.org/anatomy/manifest"
	"cogentcore.org/anatomy/postload"
	"cogentcore.org/anatomy/presentation"
	"cogentcore.org/anatomy/preset"
	"cogentcore.org/anatomy/scene"
	"cogentcore.org/anatomy/server"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"cogentcore.org/core/math32"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

//go:generate core generate -add-types -add-funcs

// Config is the configuration information for the anatomy cli.
type Config struct {

	// Storage is the storage root containing the models folder.
	// It defaults to $ANATOMY_STORAGE, and then to ~/anatomy.
	Storage string `flag:"s,storage"`

	// Source is a local path or http(s) URL to load instead of the
	// asset of the most recent model, such as the URL of the same
	// model on an anatomy server.
	Source string `posarg:"0" required:"-"`

	// Cache is the folder downloaded models are cached in.
	// It defaults to the anatomy folder in the user cache folder.
	Cache string `flag:"cache"`

	// Preset is the preset to apply after loading,
	// instead of the default preset of the model.
	Preset string `flag:"p,preset"`

	// Format is the output format of the list and cache commands:
	// table or yaml.
	Format string `default:"table" flag:"f,format"`

	// Addr is the address the serve command listens on.
	Addr string `cmd:"serve" default:":8080"`
}

func main() { //types:skip
	errors.Log(loadEnv())
	opts := cli.DefaultOptions("anatomy", "Load, list, and serve patient anatomy models.")
	opts.DefaultFiles = []string{"anatomy.toml"}
	cli.Run(opts, &Config{}, Load, List, Watch, Serve, Cache)
}

// loadEnv loads the .env file in the current folder, if there is one.
func loadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// StorageRoot returns the expanded storage root.
func (c *Config) StorageRoot() (string, error) {
	root := c.Storage
	if root == "" {
		root = os.Getenv("ANATOMY_STORAGE")
	}
	if root == "" {
		root = "~/anatomy"
	}
	return homedir.Expand(root)
}

// CacheDir returns the expanded cache folder.
func (c *Config) CacheDir() (string, error) {
	if c.Cache != "" {
		return homedir.Expand(c.Cache)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "anatomy"), nil
}

// signalContext returns a context that is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// newOrchestrator returns an orchestrator loading into a new presentation
// state, with a viewer at the origin facing -Z. The returned function
// closes the download manifest.
func newOrchestrator(c *Config, out *termenv.Output) (*loadflow.Orchestrator, func(), error) {
	storage, err := c.StorageRoot()
	if err != nil {
		return nil, nil, err
	}
	cache, err := c.CacheDir()
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	pl := &acquire.Pipeline{CacheDir: cache, Transport: &acquire.HTTPTransport{}, Importer: gltfimport.New()}
	if mf, err := manifest.Open(filepath.Join(cache, manifest.Filename)); errors.Log(err) == nil {
		pl.Manifest = mf
		closer = func() { errors.Log(mf.Close()) }
	}
	ms := scene.NewMaterials()
	pr := presentation.New()
	or := &loadflow.Orchestrator{
		StorageRoot: storage,
		Source:      c.Source,
		Pipeline:    pl,
		Init: &postload.Initializer{
			Root:      pr,
			Viewer:    &postload.FixedViewer{Fwd: math32.Vec3(0, 0, -1)},
			Materials: ms,
			Presets:   preset.NewApplier(ms),
		},
		Root: pr,
		Reporter: loadflow.ReporterFunc(func(kind failure.Kind, msg string) {
			fmt.Fprintln(out, out.String(msg).Foreground(termenv.ANSIRed).Bold())
		}),
	}
	return or, closer, nil
}

// Load loads the most recent model, or the given source,
// and prints its scene tree.
func Load(c *Config) error { //cli:cmd -root
	out := termenv.NewOutput(os.Stdout)
	or, closer, err := newOrchestrator(c, out)
	if err != nil {
		return err
	}
	defer closer()
	ctx, cancel := signalContext()
	defer cancel()
	if err := or.Run(ctx); err != nil {
		return err
	}
	if or.State() != loadflow.Ready {
		fmt.Fprintln(out, out.String("cancelled").Faint())
		return nil
	}
	if c.Preset != "" {
		rep, err := or.SwitchPreset(c.Preset)
		if err != nil {
			return err
		}
		printReport(out, rep)
	}
	rc := or.Record()
	fmt.Fprintln(out, out.String(fmt.Sprintf("%s (%s) %s, preset %s", rc.PatientName, rc.PatientID, rc.StudyDate, rc.Preset)).Foreground(termenv.ANSIGreen).Bold())
	printTree(out, or.Root.Root(), 0)
	return nil
}

// List lists the models in the storage root, most recent first.
func List(c *Config) error {
	storage, err := c.StorageRoot()
	if err != nil {
		return err
	}
	recs, err := catalog.Discover(storage)
	if err != nil {
		return err
	}
	if c.Format == "yaml" {
		return writeYAML(os.Stdout, recs)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATIENT\tPATIENT ID\tSTUDY DATE\tPRESET")
	for _, rc := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rc.ID(), rc.PatientName, rc.PatientID, rc.StudyDate, rc.Preset)
	}
	return tw.Flush()
}

// Watch loads the most recent model, and loads again
// each time the models change, until interrupted.
func Watch(c *Config) error {
	out := termenv.NewOutput(os.Stdout)
	or, closer, err := newOrchestrator(c, out)
	if err != nil {
		return err
	}
	defer closer()
	or.OnState = func(s loadflow.State) {
		if s == loadflow.Ready {
			rc := or.Record()
			fmt.Fprintln(out, out.String("loaded "+rc.ID()).Foreground(termenv.ANSIGreen))
		}
	}
	ctx, cancel := signalContext()
	defer cancel()
	return or.Watch(ctx)
}

// Serve serves the models in the storage root over HTTP until interrupted.
func Serve(c *Config) error {
	storage, err := c.StorageRoot()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return server.New(storage).ListenAndServe(ctx, c.Addr)
}

// Cache lists the models downloaded into the cache folder.
func Cache(c *Config) error {
	cache, err := c.CacheDir()
	if err != nil {
		return err
	}
	st, err := manifest.Open(filepath.Join(cache, manifest.Filename))
	if err != nil {
		return err
	}
	defer st.Close()
	es, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if c.Format == "yaml" {
		return writeYAML(os.Stdout, es)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FETCHED\tSIZE\tURL\tPATH")
	for _, e := range es {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.FetchedAt.Local().Format("2006-01-02 15:04"), e.Size, e.URL, e.Path)
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func printReport(out *termenv.Output, rep *preset.Report) {
	fmt.Fprintf(out, "preset %s: %d applied\n", rep.Name, len(rep.Applied))
	for _, name := range rep.Missing {
		fmt.Fprintln(out, out.String("  missing "+name).Foreground(termenv.ANSIYellow))
	}
}

// printTree prints the given node and its descendants, one per line.
func printTree(out *termenv.Output, n *scene.Node, depth int) {
	if n == nil {
		return
	}
	line := strings.Repeat("  ", depth) + n.Name
	st := out.String(line)
	switch {
	case !n.Visible:
		st = st.Faint()
	case n.Renderer != nil:
		st = st.Foreground(termenv.ANSICyan)
	}
	fmt.Fprintln(out, st)
	for _, kid := range n.Children {
		printTree(out, scene.AsNode(kid), depth+1)
	}
}
