// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package palette defines the fixed six-color ink set of Spectra 6 panels
// and nearest-color matching in RGB space.
//
// The palette is ordered; index 1 (white) is the background color and the
// only entry without an ink bit-plane. The ordering is part of the data
// contract with the dither and display packages and must not change.
package palette

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an index into the Spectra 6 palette.
type Color uint8

// Palette entries, in panel order.
const (
	Black Color = iota
	White
	Yellow
	Red
	Blue
	Green

	// NumColors is the number of palette entries.
	NumColors = 6
)

// String returns the color name.
func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// RGB is an 8-bit per channel color triple.
type RGB struct {
	R, G, B uint8
}

// NRGBA returns the triple as an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Palette is an ordered set of exactly six RGB triples.
type Palette [NumColors]RGB

// Spectra6 is the datasheet palette of the panel. It is the palette the
// dither package matches against; it is constant and never mutated.
var Spectra6 = Palette{
	{0, 0, 0},       // black
	{255, 255, 255}, // white
	{230, 230, 0},   // yellow
	{204, 0, 0},     // red
	{0, 51, 204},    // blue
	{0, 204, 0},     // green
}

// measured is the palette as it comes out of the physical panel, sampled
// with a colorimeter. Used only for blending preview palettes; the inks
// render far less saturated than the datasheet values.
var measured = Palette{
	{30, 28, 38},    // black
	{232, 230, 225}, // white
	{208, 190, 71},  // yellow
	{156, 72, 75},   // red
	{61, 59, 94},    // blue
	{58, 91, 70},    // green
}

// Nearest returns the palette entry closest to the given channel values by
// squared Euclidean distance. Channels may lie outside [0,255]; callers
// clamp before calling when that matters.
//
// Ties resolve to the lowest index: entries are scanned in order 0..5 and
// only a strictly smaller distance replaces the running minimum. White is
// the initial candidate, matching the panel's background default.
func (p *Palette) Nearest(r, g, b int) Color {
	best := White
	bestDist := int64(1) << 62
	for i := 0; i < NumColors; i++ {
		dr := int64(r - int(p[i].R))
		dg := int64(g - int(p[i].G))
		db := int64(b - int(p[i].B))
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = Color(i)
		}
	}
	return best
}

// Blended returns a preview palette interpolated between the measured panel
// response and the datasheet colors. saturation 0 yields the measured
// palette, 1 the datasheet palette. Values outside [0,1] are clamped.
//
// This only affects how previews reproduce the inks; the matching palette
// used for quantization stays Spectra6.
func Blended(saturation float64) Palette {
	if saturation < 0 {
		saturation = 0
	} else if saturation > 1 {
		saturation = 1
	}
	var out Palette
	for i := 0; i < NumColors; i++ {
		m := colorful.Color{
			R: float64(measured[i].R) / 255,
			G: float64(measured[i].G) / 255,
			B: float64(measured[i].B) / 255,
		}
		d := colorful.Color{
			R: float64(Spectra6[i].R) / 255,
			G: float64(Spectra6[i].G) / 255,
			B: float64(Spectra6[i].B) / 255,
		}
		c := m.BlendRgb(d, saturation).Clamped()
		out[i] = RGB{
			R: uint8(c.R*255 + 0.5),
			G: uint8(c.G*255 + 0.5),
			B: uint8(c.B*255 + 0.5),
		}
	}
	return out
}

// Inks lists the palette colors that own a bit-plane, in plane order.
// White is absent: it is represented by a cleared bit in every plane.
func Inks() [5]Color {
	return [5]Color{Black, Yellow, Red, Blue, Green}
}
