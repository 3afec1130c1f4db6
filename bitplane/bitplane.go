// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitplane implements the packed monochrome ink planes consumed by
// the panel drivers.
//
// The byte layout is a hard compatibility requirement with the display
// data format: rows are stored bottom-up relative to raster order
// (row y lands at H-1-y), bit 7 of each byte is the leftmost pixel, and
// rows are padded to a whole number of bytes.
package bitplane

import "github.com/spectraframe/spectraframe/palette"

// Bitmap is a one-bit-per-pixel ink coverage map.
type Bitmap struct {
	W, H   int
	Stride int // bytes per row, (W+7)/8
	Pix    []byte
}

// New returns a cleared bitmap for a w x h canvas.
func New(w, h int) *Bitmap {
	stride := (w + 7) / 8
	return &Bitmap{W: w, H: h, Stride: stride, Pix: make([]byte, stride*h)}
}

// Set marks the pixel at raster coordinates (x, y). Out-of-bounds
// coordinates are dropped.
func (b *Bitmap) Set(x, y int) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	flipped := b.H - 1 - y
	b.Pix[flipped*b.Stride+x/8] |= 1 << (7 - uint(x)%8)
}

// At reports whether the pixel at raster coordinates (x, y) is set.
// Out-of-bounds coordinates read as clear.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return false
	}
	flipped := b.H - 1 - y
	return b.Pix[flipped*b.Stride+x/8]&(1<<(7-uint(x)%8)) != 0
}

// Planes is one render cycle's output: an independently owned bitmap per
// ink color. White carries no plane; a pixel with no bit set in any plane
// renders as background.
type Planes struct {
	W, H int

	Black  *Bitmap
	Yellow *Bitmap
	Red    *Bitmap
	Blue   *Bitmap
	Green  *Bitmap
}

// NewPlanes returns cleared planes for a w x h canvas.
func NewPlanes(w, h int) *Planes {
	return &Planes{
		W:      w,
		H:      h,
		Black:  New(w, h),
		Yellow: New(w, h),
		Red:    New(w, h),
		Blue:   New(w, h),
		Green:  New(w, h),
	}
}

// Plane returns the bitmap for an ink color, or nil for white.
func (p *Planes) Plane(c palette.Color) *Bitmap {
	switch c {
	case palette.Black:
		return p.Black
	case palette.Yellow:
		return p.Yellow
	case palette.Red:
		return p.Red
	case palette.Blue:
		return p.Blue
	case palette.Green:
		return p.Green
	}
	return nil
}
