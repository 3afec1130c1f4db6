// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fetch implements the conditional image download.
//
// A previously stored validation token is replayed as If-None-Match so an
// unchanged image short-circuits to a NotModified result without a body.
// The transport negotiates gzip explicitly and decodes it itself; image
// payloads rarely shrink, but the content server compresses BMP assets
// well.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Status is the terminal state of one fetch.
type Status int

const (
	// OK means a fresh payload was downloaded.
	OK Status = iota
	// NotModified means the stored token still matches; no payload.
	NotModified
	// Failed means the server answered with anything else.
	Failed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case NotModified:
		return "not modified"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result describes one completed fetch. Body is nil unless Status is OK;
// Token carries the validation token to store for the next cycle.
type Result struct {
	Status Status
	Body   []byte
	Token  string
}

// Client performs conditional downloads.
type Client struct {
	hc     *http.Client
	logger *log.Logger
}

// New returns a Client logging to logger. The timeout covers the whole
// download; the device would rather sleep than stall on a slow server.
func New(timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				// Gzip is negotiated and decoded by hand below so the
				// validation token is not invalidated by transparent
				// decompression.
				DisableCompression: true,
			},
		},
		logger: logger,
	}
}

// Fetch downloads url, replaying token as If-None-Match when non-empty.
// Network errors are returned as-is; a non-2xx, non-304 response is a hard
// failure for this cycle.
func (c *Client) Fetch(ctx context.Context, url, token string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", "gzip")
	if token != "" {
		req.Header.Set("If-None-Match", token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		c.logger.Printf("fetch: %s not modified, keeping cached render", url)
		return &Result{Status: NotModified, Token: token}, nil

	case resp.StatusCode == http.StatusOK:
		body := io.Reader(resp.Body)
		if resp.Header.Get("Content-Encoding") == "gzip" {
			gz, err := gzip.NewReader(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("fetch: bad gzip stream: %w", err)
			}
			defer gz.Close()
			body = gz
		}
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("fetch: reading body: %w", err)
		}
		newToken := resp.Header.Get("ETag")
		if newToken == "" {
			newToken = token
		}
		c.logger.Printf("fetch: %s -> %d bytes (etag %q)", url, len(data), newToken)
		return &Result{Status: OK, Body: data, Token: newToken}, nil

	default:
		return &Result{Status: Failed}, fmt.Errorf("fetch: unexpected status %d for %s", resp.StatusCode, url)
	}
}
