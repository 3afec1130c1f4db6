// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"image"

	"github.com/spectraframe/spectraframe/bitplane"
	"github.com/spectraframe/spectraframe/palette"
)

// Display is the panel contract consumed by the renderer. gdep133c02
// implements it for the physical panel, termsink for terminal previews.
//
// DrawBitmap composites only pixels where the plane has a set bit; clear
// bits are transparent for that color. Combining the five ink planes into
// the physical output is the display's job.
type Display interface {
	// Init powers up the panel. Called once per render cycle.
	Init() error

	// SetRotation sets the logical orientation in quarter turns, 0..3.
	SetRotation(r int)

	// Bounds is the logical canvas under the current rotation.
	Bounds() image.Rectangle

	// FillScreen clears the whole canvas to a palette color.
	FillScreen(c palette.Color) error

	// DrawBitmap composites one ink plane at the given origin.
	DrawBitmap(x, y int, bm *bitplane.Bitmap, c palette.Color) error

	// Display flushes the composed frame to the panel and refreshes it.
	Display() error

	// Hibernate powers the panel down until the next wake.
	Hibernate() error
}

// Corner anchors an overlay on the canvas.
type Corner int

const (
	BottomLeft Corner = iota
	BottomRight
)

// Overlay is a status annotation drawn over the image.
type Overlay struct {
	Text   string
	Corner Corner
}
