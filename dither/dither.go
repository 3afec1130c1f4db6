// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dither quantizes a canonical raster into per-ink bit-planes using
// Floyd-Steinberg error diffusion.
//
// Diffusion error is carried in two row-length buffers per channel instead
// of a full-frame accumulator, bounding auxiliary memory to O(width). At
// the start of row y the "current" buffer holds the error accumulated for
// that row, the "next" buffer the error already destined for row y+1; the
// buffers swap after each row and error pushed below the last row is
// dropped.
package dither

import (
	"github.com/spectraframe/spectraframe/bitplane"
	"github.com/spectraframe/spectraframe/palette"
	"github.com/spectraframe/spectraframe/raster"
)

// errRows is one channel's pair of diffusion buffers.
type errRows struct {
	cur, next []int32
}

func newErrRows(w int) *errRows {
	return &errRows{cur: make([]int32, w), next: make([]int32, w)}
}

// swap promotes the pending row and clears the new pending row.
func (e *errRows) swap() {
	e.cur, e.next = e.next, e.cur
	for i := range e.next {
		e.next[i] = 0
	}
}

func clamp255(v int32) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

// Planes quantizes src against the Spectra 6 palette and returns one
// bit-plane per ink color. src must be canvas sized; the ditherer performs
// no bounds adaptation of its own.
func Planes(src *raster.Image) *bitplane.Planes {
	w, h := src.W, src.H
	planes := bitplane.NewPlanes(w, h)

	er := newErrRows(w)
	eg := newErrRows(w)
	eb := newErrRows(w)

	pal := &palette.Spectra6

	for y := 0; y < h; y++ {
		row := src.Pix[y*w : y*w+w]
		for x := 0; x < w; x++ {
			pr, pg, pb := raster.Unpack(row[x])

			r := clamp255(int32(pr) + er.cur[x])
			g := clamp255(int32(pg) + eg.cur[x])
			b := clamp255(int32(pb) + eb.cur[x])

			c := pal.Nearest(r, g, b)
			if bm := planes.Plane(c); bm != nil {
				bm.Set(x, y)
			}

			errR := int32(r - int(pal[c].R))
			errG := int32(g - int(pal[c].G))
			errB := int32(b - int(pal[c].B))

			if x+1 < w {
				er.cur[x+1] += errR * 7 / 16
				eg.cur[x+1] += errG * 7 / 16
				eb.cur[x+1] += errB * 7 / 16
			}
			if x > 0 {
				er.next[x-1] += errR * 3 / 16
				eg.next[x-1] += errG * 3 / 16
				eb.next[x-1] += errB * 3 / 16
			}
			er.next[x] += errR * 5 / 16
			eg.next[x] += errG * 5 / 16
			eb.next[x] += errB * 5 / 16
			if x+1 < w {
				er.next[x+1] += errR * 1 / 16
				eg.next[x+1] += errG * 1 / 16
				eb.next[x+1] += errB * 1 / 16
			}
		}
		er.swap()
		eg.swap()
		eb.swap()
	}

	return planes
}
