// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server serves the model catalog of a storage root over HTTP,
// so that viewers on other devices can list the models and download
// their asset, metadata, and preset files.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/anatomy/catalog"
	"cogentcore.org/core/base/errors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jinzhu/copier"
)

// Model is the description of one model in the catalog listing.
type Model struct {
	ID          string   `json:"id"`
	PatientName string   `json:"patientName"`
	PatientID   string   `json:"patientID"`
	Birthday    string   `json:"birthday,omitempty"`
	StudyDate   string   `json:"studyDate"`
	Preset      string   `json:"preset"`
	Asset       string   `json:"asset"`
	AssetURL    string   `json:"assetURL"`
	Presets     []string `json:"presets"`
}

// Event is one message of the model events stream. The first event of
// a connection has type "models"; each later change of the models
// folder sends an event of type "changed", with the ID of the changed
// model if the change was inside a model folder. Both carry the
// current listing.
type Event struct {
	Type   string   `json:"type"`
	ID     string   `json:"id,omitempty"`
	Models []*Model `json:"models"`
}

// Server serves the models of one storage root.
type Server struct {

	// StorageRoot is the folder containing the models folder.
	StorageRoot string

	router *mux.Router
}

// New returns a new [Server] for the given storage root.
func New(storageRoot string) *Server {
	sv := &Server{StorageRoot: storageRoot, router: mux.NewRouter()}
	sv.router.HandleFunc("/api/models", sv.listModels).Methods(http.MethodGet)
	sv.router.HandleFunc("/api/models/events", sv.modelEvents).Methods(http.MethodGet)
	sv.router.HandleFunc("/api/models/{id}", sv.getModel).Methods(http.MethodGet)
	sv.router.HandleFunc("/models/{id}/{file}", sv.serveFile).Methods(http.MethodGet, http.MethodHead)
	sv.router.Use(logRequests)
	return sv
}

func (sv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sv.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the given address until the context is done,
// then shuts down gracefully.
func (sv *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: sv, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		slog.Info("server: listening", "addr", addr, "storage", sv.StorageRoot)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(sctx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("server: request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// models returns the catalog listing.
func (sv *Server) models() ([]*Model, map[string]*catalog.Record, error) {
	recs, err := catalog.Discover(sv.StorageRoot)
	if err != nil {
		return nil, nil, err
	}
	ms := make([]*Model, 0, len(recs))
	byID := make(map[string]*catalog.Record, len(recs))
	for _, rc := range recs {
		m, err := NewModel(rc)
		if errors.Log(err) != nil {
			continue
		}
		ms = append(ms, m)
		byID[rc.ID()] = rc
	}
	return ms, byID, nil
}

// NewModel returns the listing of the given record.
func NewModel(rc *catalog.Record) (*Model, error) {
	m := &Model{}
	if err := copier.CopyWithOption(m, rc, copier.Option{CaseSensitive: true}); err != nil {
		return nil, err
	}
	m.ID = rc.ID()
	m.Asset = filepath.Base(rc.AssetPath)
	m.AssetURL = path.Join("/models", m.ID, m.Asset)
	m.Presets = presetNames(rc.Folder)
	return m, nil
}

// presetNames returns the names of the preset files in the given folder.
func presetNames(folder string) []string {
	entries, err := os.ReadDir(folder)
	if errors.Log(err) != nil {
		return nil
	}
	names := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == catalog.MetadataFile || !strings.EqualFold(filepath.Ext(name), catalog.PresetExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return names
}

func (sv *Server) listModels(w http.ResponseWriter, r *http.Request) {
	ms, _, err := sv.models()
	if err != nil {
		slog.Error("server: listing models", "err", err)
		http.Error(w, "models are not available", http.StatusInternalServerError)
		return
	}
	writeJSON(w, ms)
}

func (sv *Server) getModel(w http.ResponseWriter, r *http.Request) {
	ms, _, err := sv.models()
	if err != nil {
		slog.Error("server: listing models", "err", err)
		http.Error(w, "models are not available", http.StatusInternalServerError)
		return
	}
	id := mux.Vars(r)["id"]
	for _, m := range ms {
		if m.ID == id {
			writeJSON(w, m)
			return
		}
	}
	http.NotFound(w, r)
}

// serveFile serves one asset, metadata, or preset file of a model folder.
// Only plain file names directly in the folder of a discovered model
// are served.
func (sv *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, file := vars["id"], vars["file"]
	if !isPlainName(file) {
		http.NotFound(w, r)
		return
	}
	ext := strings.ToLower(filepath.Ext(file))
	if ext != catalog.AssetExt && ext != catalog.PresetExt {
		http.NotFound(w, r)
		return
	}
	_, byID, err := sv.models()
	if err != nil {
		http.Error(w, "models are not available", http.StatusInternalServerError)
		return
	}
	rc, ok := byID[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	fn := filepath.Join(rc.Folder, file)
	st, err := os.Stat(fn)
	if err != nil || st.IsDir() {
		http.NotFound(w, r)
		return
	}
	if ext == catalog.AssetExt {
		w.Header().Set("Content-Type", "model/gltf-binary")
	}
	http.ServeFile(w, r, fn)
}

var upgrader = websocket.Upgrader{}

// modelEvents streams [Event]s over a websocket connection, watching the
// models folder until the client goes away.
func (sv *Server) modelEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if errors.Log(err) != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ms, _, err := sv.models()
	if err != nil {
		slog.Error("server: listing models", "err", err)
		closeConn(conn, websocket.CloseInternalServerErr, "models are not available")
		return
	}
	if errors.Log(conn.WriteJSON(&Event{Type: "models", Models: ms})) != nil {
		return
	}

	changes := make(chan string, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- catalog.Watch(ctx, sv.StorageRoot, func(path string) {
			select {
			case changes <- path:
			default:
			}
		})
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errc:
			if err != nil {
				slog.Error("server: watching models", "err", err)
				closeConn(conn, websocket.CloseInternalServerErr, "models are not available")
			}
			return
		case p := <-changes:
			ms, _, err := sv.models()
			if errors.Log(err) != nil {
				continue
			}
			ev := &Event{Type: "changed", ID: changedID(sv.StorageRoot, p), Models: ms}
			if errors.Log(conn.WriteJSON(ev)) != nil {
				return
			}
		}
	}
}

// changedID returns the ID of the model folder containing the given
// changed path, or "" if it is not inside one.
func changedID(storageRoot, changed string) string {
	rel, err := filepath.Rel(catalog.ModelsPath(storageRoot), changed)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return strings.Split(filepath.ToSlash(rel), "/")[0]
}

func closeConn(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	errors.Log(conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)))
}

func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	errors.Log(json.NewEncoder(w).Encode(v))
}
