// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cogentcore.org/anatomy/catalog"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testStorage(t *testing.T) string {
	storage := t.TempDir()
	folder := filepath.Join(storage, catalog.ModelsDir, "case1")
	writeFile(t, filepath.Join(folder, "chest.glb"), "glTF-bytes")
	writeFile(t, filepath.Join(folder, catalog.MetadataFile), `{
	"Version": "1.0.0",
	"Patient": {"Name": "Taro", "ID": "P-001", "Birthday": "1980-01-01", "StudyDate": "2024-05-01"},
	"DefaultPreset": "default"
}`)
	writeFile(t, filepath.Join(folder, "default.json"), `{"Version": "1.0.0", "Name": "Default", "Presets": []}`)
	writeFile(t, filepath.Join(folder, "notes.txt"), "private")
	writeFile(t, filepath.Join(storage, "secret.json"), "{}")
	return storage
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(New(testStorage(t)))
	defer srv.Close()

	resp, body := get(t, srv, "/api/models")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var ms []*Model
	require.NoError(t, json.Unmarshal([]byte(body), &ms))
	require.Len(t, ms, 1)
	m := ms[0]
	assert.Equal(t, "case1", m.ID)
	assert.Equal(t, "Taro", m.PatientName)
	assert.Equal(t, "P-001", m.PatientID)
	assert.Equal(t, "2024-05-01", m.StudyDate)
	assert.Equal(t, "default", m.Preset)
	assert.Equal(t, "chest.glb", m.Asset)
	assert.Equal(t, "/models/case1/chest.glb", m.AssetURL)
	assert.Equal(t, []string{"default"}, m.Presets)

	resp, _ = get(t, srv, "/api/models/case1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, srv, "/api/models/none")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListModelsNoStorage(t *testing.T) {
	srv := httptest.NewServer(New(filepath.Join(t.TempDir(), "none")))
	defer srv.Close()
	resp, _ := get(t, srv, "/api/models")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServeFile(t *testing.T) {
	srv := httptest.NewServer(New(testStorage(t)))
	defer srv.Close()

	resp, body := get(t, srv, "/models/case1/chest.glb")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "model/gltf-binary", resp.Header.Get("Content-Type"))
	assert.Equal(t, "glTF-bytes", body)

	resp, _ = get(t, srv, "/models/case1/default.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, srv, "/models/case1/model.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, p := range []string{
		"/models/case1/notes.txt",
		"/models/case1/missing.json",
		"/models/none/chest.glb",
		"/models/case1/..%2Fsecret.json",
		"/models/..%2F..%2Fsecret.json/x.json",
	} {
		resp, _ = get(t, srv, p)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
	}
}

func TestIsPlainName(t *testing.T) {
	assert.True(t, isPlainName("a.glb"))
	assert.False(t, isPlainName(""))
	assert.False(t, isPlainName(".."))
	assert.False(t, isPlainName("../a.glb"))
	assert.False(t, isPlainName(`..\a.glb`))
}

func dialEvents(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/models/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestModelEvents(t *testing.T) {
	delay := catalog.WatchDelay
	catalog.WatchDelay = 50 * time.Millisecond
	defer func() { catalog.WatchDelay = delay }()

	storage := testStorage(t)
	srv := httptest.NewServer(New(storage))
	defer srv.Close()
	conn := dialEvents(t, srv)

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "models", ev.Type)
	require.Len(t, ev.Models, 1)
	assert.Equal(t, "case1", ev.Models[0].ID)

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	folder := filepath.Join(storage, catalog.ModelsDir, "case2")
	writeFile(t, filepath.Join(folder, "abdomen.glb"), "glTF-bytes")
	writeFile(t, filepath.Join(folder, catalog.MetadataFile), `{
	"Patient": {"Name": "Hanako", "ID": "P-002", "StudyDate": "2024-06-01"},
	"DefaultPreset": "default"
}`)

	for len(ev.Models) < 2 {
		ev = Event{}
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, "changed", ev.Type)
		assert.Equal(t, "case2", ev.ID)
	}
	assert.Equal(t, "case2", ev.Models[0].ID)
}

func TestModelEventsNoStorage(t *testing.T) {
	srv := httptest.NewServer(New(filepath.Join(t.TempDir(), "none")))
	defer srv.Close()
	conn := dialEvents(t, srv)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseInternalServerErr), err)
}

func TestChangedID(t *testing.T) {
	models := catalog.ModelsPath("/data")
	assert.Equal(t, "case1", changedID("/data", filepath.Join(models, "case1", "chest.glb")))
	assert.Equal(t, "case1", changedID("/data", filepath.Join(models, "case1")))
	assert.Equal(t, "", changedID("/data", models))
	assert.Equal(t, "", changedID("/data", "/other/file.glb"))
}
