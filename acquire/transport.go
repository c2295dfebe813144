// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Transport fetches remote files.
type Transport interface {

	// Fetch returns all of the bytes at the given url.
	// It must return promptly when the context is cancelled.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned by [HTTPTransport] for a response
// whose status is not a success.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// HTTPTransport is a [Transport] over HTTP(S).
type HTTPTransport struct {

	// Client is the client used for requests;
	// [http.DefaultClient] if nil.
	Client *http.Client
}

func (ht *HTTPTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := ht.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return io.ReadAll(resp.Body)
}

var _ Transport = &HTTPTransport{}
