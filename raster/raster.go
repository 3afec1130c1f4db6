// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package raster implements the canonical RGB565 pixel buffer shared by the
// decode, scale and dither stages.
//
// A raster is always sized to the full panel canvas. Decoders fill it with
// the background color and overwrite the decoded region; out-of-bounds
// writes are dropped per pixel, so the buffer can never overrun no matter
// what a decoder delivers.
package raster

// White is the packed RGB565 background color.
const White uint16 = 0xFFFF

// Image is a dense width*height RGB565 raster.
type Image struct {
	W, H int
	Pix  []uint16
}

// New returns a canvas-sized raster filled with the background color.
func New(w, h int) *Image {
	img := &Image{W: w, H: h, Pix: make([]uint16, w*h)}
	img.Fill(White)
	return img
}

// Fill sets every pixel to p.
func (img *Image) Fill(p uint16) {
	for i := range img.Pix {
		img.Pix[i] = p
	}
}

// Set writes a packed pixel. Writes outside the canvas are dropped.
func (img *Image) Set(x, y int, p uint16) {
	if x < 0 || x >= img.W || y < 0 || y >= img.H {
		return
	}
	img.Pix[y*img.W+x] = p
}

// SetRGB writes an 8-bit per channel pixel. Writes outside the canvas are
// dropped.
func (img *Image) SetRGB(x, y int, r, g, b uint8) {
	img.Set(x, y, Pack(r, g, b))
}

// At returns the packed pixel at (x, y). Reads outside the canvas return
// the background color.
func (img *Image) At(x, y int) uint16 {
	if x < 0 || x >= img.W || y < 0 || y >= img.H {
		return White
	}
	return img.Pix[y*img.W+x]
}

// Pack converts 8-bit channels to packed 5-6-5.
func Pack(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// Unpack expands a packed 5-6-5 pixel to 8-bit channels. The low bits are
// left at zero, mirroring how the panel pipeline treats RGB565 sources.
func Unpack(p uint16) (r, g, b uint8) {
	r = uint8(p>>11&0x1F) << 3
	g = uint8(p>>5&0x3F) << 2
	b = uint8(p&0x1F) << 3
	return
}
