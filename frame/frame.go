// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame renders the current image to the panel.
//
// One render cycle is fully synchronous: pick the image source, decode it
// into the canonical raster, dither it into ink planes and hand them to
// the display. The device performs at most one cycle per wake, so no two
// cycles ever run concurrently and all large buffers live for exactly one
// cycle.
package frame

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spectraframe/spectraframe/bitplane"
	"github.com/spectraframe/spectraframe/config"
	"github.com/spectraframe/spectraframe/decode"
	"github.com/spectraframe/spectraframe/dither"
	"github.com/spectraframe/spectraframe/fetch"
	"github.com/spectraframe/spectraframe/palette"
	"github.com/spectraframe/spectraframe/raster"
)

// Status is the outcome of one render cycle.
type Status int

const (
	// Rendered means a frame was composed and flushed to the panel.
	Rendered Status = iota
	// Skipped means the remote image is unchanged; nothing was drawn and
	// the panel was left untouched.
	Skipped
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Rendered:
		return "rendered"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Fetcher is the network collaborator. *fetch.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url, token string) (*fetch.Result, error)
}

// ImageStore is the storage collaborator. *store.Store satisfies it.
type ImageStore interface {
	OpenCached() (io.ReadCloser, error)
	Token() string
	SetToken(token string) error
}

// Renderer owns one render cycle.
type Renderer struct {
	Display Display
	Store   ImageStore
	Fetcher Fetcher
	Config  *config.Config
	Logger  *log.Logger

	// Overlays are drawn over the image before quantization.
	Overlays []Overlay
}

// Render runs one complete cycle: source selection, decode, dither,
// composition, refresh, hibernate. On Skipped the display sequence is not
// issued. Failures surface as an error; the caller decides when to wake
// again, never to retry immediately.
func (r *Renderer) Render(ctx context.Context) (Status, error) {
	if err := r.Display.Init(); err != nil {
		return 0, fmt.Errorf("frame: display init: %w", err)
	}
	r.Display.SetRotation(r.Config.Rotation)

	bounds := r.Display.Bounds()
	cw, ch := bounds.Dx(), bounds.Dy()

	img, status, err := r.sourceImage(ctx, cw, ch)
	if err != nil {
		return 0, err
	}
	if status == Skipped {
		return Skipped, nil
	}

	r.drawOverlays(img)

	planes := dither.Planes(img)
	img = nil // raster is dead once dithering completes

	if err := r.Display.FillScreen(palette.White); err != nil {
		return 0, err
	}
	if err := r.compose(planes); err != nil {
		return 0, err
	}
	if err := r.Display.Display(); err != nil {
		return 0, err
	}
	if err := r.Display.Hibernate(); err != nil {
		return 0, err
	}
	return Rendered, nil
}

// sourceImage picks the image source: a cached image renders without any
// network access; otherwise a conditional fetch runs against the
// configured URL.
func (r *Renderer) sourceImage(ctx context.Context, cw, ch int) (*raster.Image, Status, error) {
	rc, err := r.Store.OpenCached()
	switch {
	case err == nil:
		defer rc.Close()
		img, err := decode.DecodeReader(rc, cw, ch)
		if err != nil {
			return nil, 0, fmt.Errorf("frame: decoding cached image: %w", err)
		}
		return img, Rendered, nil

	case !errors.Is(err, os.ErrNotExist):
		return nil, 0, fmt.Errorf("frame: opening cached image: %w", err)
	}

	if r.Fetcher == nil || r.Config.ImageURL == "" {
		return nil, 0, errors.New("frame: no cached image and no image URL configured")
	}

	res, err := r.Fetcher.Fetch(ctx, r.Config.ImageURL, r.Store.Token())
	if err != nil {
		return nil, 0, fmt.Errorf("frame: download: %w", err)
	}
	if res.Status == fetch.NotModified {
		return nil, Skipped, nil
	}
	if res.Token != "" {
		if err := r.Store.SetToken(res.Token); err != nil {
			r.Logger.Printf("frame: storing validation token: %v", err)
		}
	}

	img, err := decode.Decode(res.Body, cw, ch)
	if err != nil {
		return nil, 0, fmt.Errorf("frame: decoding download: %w", err)
	}
	return img, Rendered, nil
}

// compose positions the ink planes on the display. Planes smaller than the
// display center per axis; same-size planes draw at the origin.
func (r *Renderer) compose(planes *bitplane.Planes) error {
	bounds := r.Display.Bounds()

	x, y := 0, 0
	if planes.W < bounds.Dx() {
		x = (bounds.Dx() - planes.W) / 2
	}
	if planes.H < bounds.Dy() {
		y = (bounds.Dy() - planes.H) / 2
	}

	for _, ink := range palette.Inks() {
		if err := r.Display.DrawBitmap(x, y, planes.Plane(ink), ink); err != nil {
			return fmt.Errorf("frame: drawing %s plane: %w", ink, err)
		}
	}
	return nil
}
