// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spectraframe/spectraframe/bitplane"
	"github.com/spectraframe/spectraframe/config"
	"github.com/spectraframe/spectraframe/decode"
	"github.com/spectraframe/spectraframe/fetch"
	"github.com/spectraframe/spectraframe/palette"
	"github.com/spectraframe/spectraframe/raster"
)

// fakeDisplay records the panel call sequence.
type fakeDisplay struct {
	w, h int
	ops  []string
}

func (d *fakeDisplay) Init() error {
	d.ops = append(d.ops, "init")
	return nil
}

func (d *fakeDisplay) SetRotation(r int) {
	d.ops = append(d.ops, fmt.Sprintf("rotate %d", r))
}

func (d *fakeDisplay) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.w, d.h)
}

func (d *fakeDisplay) FillScreen(c palette.Color) error {
	d.ops = append(d.ops, fmt.Sprintf("fill %v", c))
	return nil
}

func (d *fakeDisplay) DrawBitmap(x, y int, bm *bitplane.Bitmap, c palette.Color) error {
	d.ops = append(d.ops, fmt.Sprintf("draw %v (%d,%d)", c, x, y))
	return nil
}

func (d *fakeDisplay) Display() error {
	d.ops = append(d.ops, "display")
	return nil
}

func (d *fakeDisplay) Hibernate() error {
	d.ops = append(d.ops, "hibernate")
	return nil
}

type fakeStore struct {
	data   []byte
	token  string
	stored []string
	setErr error
}

func (s *fakeStore) OpenCached() (io.ReadCloser, error) {
	if s.data == nil {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *fakeStore) Token() string { return s.token }

func (s *fakeStore) SetToken(token string) error {
	s.stored = append(s.stored, token)
	return s.setErr
}

type fakeFetcher struct {
	res      *fetch.Result
	err      error
	calls    int
	gotURL   string
	gotToken string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, token string) (*fetch.Result, error) {
	f.calls++
	f.gotURL = url
	f.gotToken = token
	return f.res, f.err
}

// whitePNG encodes a w x h all-white image.
func whitePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newTestRenderer(disp *fakeDisplay, st *fakeStore, f Fetcher) *Renderer {
	return &Renderer{
		Display: disp,
		Store:   st,
		Fetcher: f,
		Config:  &config.Config{ImageURL: "http://frames.example/current"},
		Logger:  log.New(io.Discard, "", 0),
	}
}

// fullCycle is the expected call sequence for a rendered frame on an
// unrotated display with same-size planes.
var fullCycle = []string{
	"init", "rotate 0", "fill white",
	"draw black (0,0)", "draw yellow (0,0)", "draw red (0,0)",
	"draw blue (0,0)", "draw green (0,0)",
	"display", "hibernate",
}

func TestRenderFromCache(t *testing.T) {
	disp := &fakeDisplay{w: 2, h: 2}
	st := &fakeStore{data: whitePNG(t, 2, 2)}
	f := &fakeFetcher{}
	r := newTestRenderer(disp, st, f)

	status, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if status != Rendered {
		t.Errorf("status = %v, want %v", status, Rendered)
	}
	if f.calls != 0 {
		t.Errorf("a cached image must render without network access, got %d fetches", f.calls)
	}
	if diff := cmp.Diff(disp.ops, fullCycle); diff != "" {
		t.Errorf("display sequence mismatch (-got +want):\n%s", diff)
	}
}

func TestRenderSkippedWhenNotModified(t *testing.T) {
	disp := &fakeDisplay{w: 2, h: 2}
	st := &fakeStore{token: `"v1"`}
	f := &fakeFetcher{res: &fetch.Result{Status: fetch.NotModified, Token: `"v1"`}}
	r := newTestRenderer(disp, st, f)

	status, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if status != Skipped {
		t.Errorf("status = %v, want %v", status, Skipped)
	}
	if f.gotToken != `"v1"` {
		t.Errorf("fetch token = %q, want the stored one", f.gotToken)
	}
	if len(st.stored) != 0 {
		t.Errorf("SetToken called %d times on a skipped cycle", len(st.stored))
	}
	// The panel must stay untouched: no fill, no draw, no refresh.
	want := []string{"init", "rotate 0"}
	if diff := cmp.Diff(disp.ops, want); diff != "" {
		t.Errorf("display sequence mismatch (-got +want):\n%s", diff)
	}
}

func TestRenderFetchesAndStoresToken(t *testing.T) {
	disp := &fakeDisplay{w: 2, h: 2}
	st := &fakeStore{}
	f := &fakeFetcher{res: &fetch.Result{
		Status: fetch.OK,
		Body:   whitePNG(t, 2, 2),
		Token:  `"v2"`,
	}}
	r := newTestRenderer(disp, st, f)

	status, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if status != Rendered {
		t.Errorf("status = %v, want %v", status, Rendered)
	}
	if f.gotURL != r.Config.ImageURL {
		t.Errorf("fetched %q, want %q", f.gotURL, r.Config.ImageURL)
	}
	if diff := cmp.Diff(st.stored, []string{`"v2"`}); diff != "" {
		t.Errorf("stored tokens mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(disp.ops, fullCycle); diff != "" {
		t.Errorf("display sequence mismatch (-got +want):\n%s", diff)
	}
}

func TestRenderFetchFailure(t *testing.T) {
	disp := &fakeDisplay{w: 2, h: 2}
	f := &fakeFetcher{err: errors.New("host unreachable")}
	r := newTestRenderer(disp, &fakeStore{}, f)

	if _, err := r.Render(context.Background()); err == nil {
		t.Fatal("Render succeeded with a failing fetch")
	}
}

func TestRenderDecodeFailure(t *testing.T) {
	disp := &fakeDisplay{w: 2, h: 2}
	body := append([]byte{0xFF, 0xD8}, bytes.Repeat([]byte{0x00}, 32)...)
	f := &fakeFetcher{res: &fetch.Result{Status: fetch.OK, Body: body}}
	r := newTestRenderer(disp, &fakeStore{}, f)

	_, err := r.Render(context.Background())
	if !errors.Is(err, decode.ErrDecodeFailed) {
		t.Fatalf("Render error = %v, want ErrDecodeFailed", err)
	}
}

func TestRenderNoSource(t *testing.T) {
	disp := &fakeDisplay{w: 2, h: 2}
	r := newTestRenderer(disp, &fakeStore{}, nil)

	if _, err := r.Render(context.Background()); err == nil {
		t.Fatal("Render succeeded with no cache and no fetcher")
	}
}

func TestComposeCentersSmallPlanes(t *testing.T) {
	disp := &fakeDisplay{w: 4, h: 4}
	r := newTestRenderer(disp, &fakeStore{}, nil)

	if err := r.compose(bitplane.NewPlanes(2, 2)); err != nil {
		t.Fatalf("compose: %v", err)
	}
	want := []string{
		"draw black (1,1)", "draw yellow (1,1)", "draw red (1,1)",
		"draw blue (1,1)", "draw green (1,1)",
	}
	if diff := cmp.Diff(disp.ops, want); diff != "" {
		t.Errorf("display sequence mismatch (-got +want):\n%s", diff)
	}
}

func TestDrawOverlays(t *testing.T) {
	r := newTestRenderer(&fakeDisplay{w: 64, h: 32}, &fakeStore{}, nil)
	r.Overlays = []Overlay{
		{Text: "50% (3.75V)", Corner: BottomLeft},
		{Text: ""}, // empty overlays are skipped
	}

	img := raster.New(64, 32)
	r.drawOverlays(img)

	touched := 0
	for _, p := range img.Pix {
		if p != raster.White {
			touched++
		}
	}
	if touched == 0 {
		t.Fatal("overlay drew nothing")
	}
	// The badge sits in the bottom-left corner; the top row stays background.
	for x := 0; x < 64; x++ {
		if img.At(x, 0) != raster.White {
			t.Fatalf("top row touched at x=%d", x)
		}
	}
}
