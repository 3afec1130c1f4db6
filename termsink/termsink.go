// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termsink implements a frame.Display that renders to a terminal
// using ANSI color codes.
//
// Useful for checking what the panel will show without waiting twenty
// seconds for an ink refresh. The six palette entries are reproduced with
// the blended preview palette, so the print approximates the washed-out
// panel inks rather than the datasheet colors.
package termsink

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/spectraframe/spectraframe/bitplane"
	"github.com/spectraframe/spectraframe/frame"
	"github.com/spectraframe/spectraframe/palette"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width and Height of the emulated canvas.
	Width, Height int

	// Step prints every Step-th pixel per axis; the full panel would not
	// fit any terminal. Defaults to 16.
	Step int

	// Saturation selects the blended preview palette, see palette.Blended.
	Saturation float64

	// Palette overrides the ANSI palette; nil uses ansi256.Default.
	Palette *ansi256.Palette
}

// Dev is a panel emulator that prints to the console. It implements
// frame.Display.
type Dev struct {
	w       io.Writer
	opts    Opts
	ansi    ansi256.Palette
	preview palette.Palette

	rotation int
	// pix holds one palette index per canvas pixel.
	pix []palette.Color
	buf bytes.Buffer
}

var _ frame.Display = &Dev{}

// New returns a Dev printing to stdout.
func New(opts *Opts) *Dev {
	o := *opts
	if o.Step <= 0 {
		o.Step = 16
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       colorable.NewColorableStdout(),
		opts:    o,
		ansi:    *p,
		preview: palette.Blended(o.Saturation),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermSink{%dx%d}", d.opts.Width, d.opts.Height)
}

// Init allocates the emulated canvas.
func (d *Dev) Init() error {
	if d.pix == nil {
		d.pix = make([]palette.Color, d.opts.Width*d.opts.Height)
	}
	return d.FillScreen(palette.White)
}

// SetRotation sets the logical orientation in quarter turns.
func (d *Dev) SetRotation(r int) {
	d.rotation = ((r % 4) + 4) % 4
}

// Bounds returns the logical canvas under the current rotation.
func (d *Dev) Bounds() image.Rectangle {
	if d.rotation%2 == 1 {
		return image.Rect(0, 0, d.opts.Height, d.opts.Width)
	}
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// FillScreen sets the whole canvas to c.
func (d *Dev) FillScreen(c palette.Color) error {
	for i := range d.pix {
		d.pix[i] = c
	}
	return nil
}

func (d *Dev) setPixel(x, y int, c palette.Color) {
	w, h := d.opts.Width, d.opts.Height
	switch d.rotation {
	case 1:
		x, y = w-1-y, x
	case 2:
		x, y = w-1-x, h-1-y
	case 3:
		x, y = y, h-1-x
	}
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	d.pix[y*w+x] = c
}

// DrawBitmap composites one ink plane; clear bits are transparent.
func (d *Dev) DrawBitmap(x, y int, bm *bitplane.Bitmap, c palette.Color) error {
	if d.pix == nil {
		return fmt.Errorf("termsink: not initialized")
	}
	for by := 0; by < bm.H; by++ {
		for bx := 0; bx < bm.W; bx++ {
			if bm.At(bx, by) {
				d.setPixel(x+bx, y+by, c)
			}
		}
	}
	return nil
}

// Display prints the downsampled canvas.
func (d *Dev) Display() error {
	if d.pix == nil {
		return fmt.Errorf("termsink: not initialized")
	}
	d.buf.Reset()
	w, h := d.opts.Width, d.opts.Height
	step := d.opts.Step
	for y := 0; y < h; y += step {
		_, _ = d.buf.WriteString("\033[0m")
		for x := 0; x < w; x += step {
			c := d.preview[d.pix[y*w+x]]
			_, _ = io.WriteString(&d.buf, d.ansi.Block(c.NRGBA()))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Hibernate resets the terminal colors.
func (d *Dev) Hibernate() error {
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}
