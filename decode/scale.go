// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package decode

import (
	"math"

	"github.com/spectraframe/spectraframe/raster"
)

// FitGeometry computes the contain-fit placement for a srcW x srcH content
// extent on a cw x ch canvas: one uniform scale factor (never cropping,
// always preserving aspect ratio) and the centered offsets, clamped to 0.
func FitGeometry(srcW, srcH, cw, ch int) (scaledW, scaledH, offX, offY int) {
	scale := math.Min(float64(cw)/float64(srcW), float64(ch)/float64(srcH))
	scaledW = int(float64(srcW) * scale)
	scaledH = int(float64(srcH) * scale)
	offX = (cw - scaledW) / 2
	offY = (ch - scaledH) / 2
	if offX < 0 {
		offX = 0
	}
	if offY < 0 {
		offY = 0
	}
	return
}

// scaleToFit resamples the srcW x srcH top-left content region of src into
// a centered contain-fit region of a fresh canvas raster using nearest
// neighbor, clearing the remainder to background. For a destination
// coordinate the source coordinate is floor(d*src/scaled), clamped to the
// last valid index.
func scaleToFit(src *raster.Image, srcW, srcH int) *raster.Image {
	cw, ch := src.W, src.H
	scaledW, scaledH, offX, offY := FitGeometry(srcW, srcH, cw, ch)

	dst := raster.New(cw, ch)
	for dy := 0; dy < scaledH; dy++ {
		sy := dy * srcH / scaledH
		if sy > srcH-1 {
			sy = srcH - 1
		}
		for dx := 0; dx < scaledW; dx++ {
			sx := dx * srcW / scaledW
			if sx > srcW-1 {
				sx = srcW - 1
			}
			dst.Set(offX+dx, offY+dy, src.At(sx, sy))
		}
	}
	return dst
}
