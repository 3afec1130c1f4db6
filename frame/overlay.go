// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/spectraframe/spectraframe/raster"
)

// Overlay box metrics, matching the panel's corner badges.
const (
	overlayPadX   = 6
	overlayPadY   = 4
	overlayMargin = 4

	// The bottom-right badge keeps extra distance from the panel edge
	// where the bezel overlaps the active area.
	overlayMarginRight = 18
)

// drawOverlays renders the status badges into the raster ahead of
// dithering. Badge colors are exact palette entries (white box, black
// text), so quantization reproduces them crisply instead of dithering
// them into the photo.
func (r *Renderer) drawOverlays(img *raster.Image) {
	for _, o := range r.Overlays {
		if o.Text == "" {
			continue
		}
		badge := renderBadge(o.Text)
		b := badge.Bounds()

		var x, y int
		switch o.Corner {
		case BottomLeft:
			x = overlayMargin
		case BottomRight:
			x = img.W - b.Dx() - overlayMarginRight
		}
		y = img.H - b.Dy() - overlayMargin
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}

		copyBadge(img, badge, x, y)
	}
}

// renderBadge draws one rounded white box with centered black text.
func renderBadge(text string) image.Image {
	face := basicfont.Face7x13

	mc := gg.NewContext(1, 1)
	mc.SetFontFace(face)
	textW, textH := mc.MeasureString(text)

	w := int(textW) + 2*overlayPadX
	h := int(textH) + 2*overlayPadY

	dc := gg.NewContext(w, h)
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), 4)
	dc.Fill()
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(text, float64(w)/2, float64(h)/2, 0.5, 0.5)
	return dc.Image()
}

// copyBadge copies the badge into the raster at (x, y), clipped by the
// raster's own bounds checks.
func copyBadge(img *raster.Image, badge image.Image, x, y int) {
	b := badge.Bounds()
	for by := 0; by < b.Dy(); by++ {
		for bx := 0; bx < b.Dx(); bx++ {
			r16, g16, b16, a16 := badge.At(b.Min.X+bx, b.Min.Y+by).RGBA()
			if a16 == 0 {
				continue
			}
			img.SetRGB(x+bx, y+by, uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))
		}
	}
}
