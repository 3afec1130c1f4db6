// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdep133c02

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/spectraframe/spectraframe/bitplane"
	"github.com/spectraframe/spectraframe/frame"
	"github.com/spectraframe/spectraframe/palette"
)

// colorCode maps palette entries to the panel's 4-bit color codes.
var colorCode = [palette.NumColors]byte{
	palette.Black:  0x0,
	palette.White:  0x1,
	palette.Yellow: 0x2,
	palette.Red:    0x3,
	palette.Blue:   0x5,
	palette.Green:  0x6,
}

// borderBits returns the border color field of the VCOM/data interval
// register.
func borderBits(c palette.Color) byte {
	return colorCode[c] << 5
}

// Opts holds the display configuration.
type Opts struct {
	Width  int
	Height int

	// Border is the color of the inactive border around the panel.
	Border palette.Color
}

// EPD13in3 is the stock configuration for the 13.3" panel.
var EPD13in3 = Opts{
	Width:  1200,
	Height: 1600,
	Border: palette.White,
}

// Dev is a handle to the panel. It implements frame.Display.
type Dev struct {
	c         conn.Conn
	maxTxSize int

	dc   gpio.PinOut
	rst  gpio.PinOut
	cs   [2]gpio.PinOut
	busy gpio.PinIn

	opts     Opts
	rotation int

	// fb packs two 4-bit pixels per byte, high nibble first.
	fb []byte
}

var _ frame.Display = &Dev{}

// New opens a handle to the panel. cs0 selects the left-half driver IC,
// cs1 the right half; both halves share the data and clock lines.
func New(p spi.Port, dc, rst, cs0, cs1 gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width%4 != 0 {
		return nil, fmt.Errorf("gdep133c02: width %d must be divisible by 4", opts.Width)
	}

	c, err := p.Connect(3000*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("gdep133c02: connecting over spi: %v", err)
	}

	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096 // Conservative default.
	}

	return &Dev{
		c:         c,
		maxTxSize: maxTxSize,
		dc:        dc,
		rst:       rst,
		cs:        [2]gpio.PinOut{cs0, cs1},
		busy:      busy,
		opts:      *opts,
	}, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("GDEP133C02{%dx%d}", d.opts.Width, d.opts.Height)
}

// Halt powers the panel down.
func (d *Dev) Halt() error {
	return d.Hibernate()
}

// Init resets the panel, runs the register init sequence and clears the
// local framebuffer to white.
func (d *Dev) Init() error {
	if err := d.reset(); err != nil {
		return err
	}

	eh := &errorHandler{d: d}
	initPanel(eh, &d.opts)
	if eh.err != nil {
		return eh.err
	}

	if d.fb == nil {
		d.fb = make([]byte, d.opts.Width*d.opts.Height/2)
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

// FillScreen sets every framebuffer pixel to c without refreshing.
func (d *Dev) FillScreen(c palette.Color) error {
	if d.fb == nil {
		return fmt.Errorf("gdep133c02: not initialized")
	}
	packed := colorCode[c]<<4 | colorCode[c]
	for i := range d.fb {
		d.fb[i] = packed
	}
	return nil
}

// setPixel writes one 4-bit pixel at logical coordinates, applying the
// rotation and dropping anything outside the physical panel.
func (d *Dev) setPixel(x, y int, code byte) {
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
	i := (y*w + x) / 2
	if x%2 == 0 {
		d.fb[i] = d.fb[i]&0x0F | code<<4
	} else {
		d.fb[i] = d.fb[i]&0xF0 | code
	}
}

// DrawBitmap composites one ink plane into the framebuffer at (x, y).
// Only set bits are written; clear bits leave the framebuffer untouched.
func (d *Dev) DrawBitmap(x, y int, bm *bitplane.Bitmap, c palette.Color) error {
	if d.fb == nil {
		return fmt.Errorf("gdep133c02: not initialized")
	}
	code := colorCode[c]

	// Walk the plane's raw rows; they are stored bottom-up.
	for flipped := 0; flipped < bm.H; flipped++ {
		py := bm.H - 1 - flipped
		row := bm.Pix[flipped*bm.Stride : (flipped+1)*bm.Stride]
		for bx, b := range row {
			if b == 0 {
				continue
			}
			for bit := 0; bit < 8; bit++ {
				if b&(0x80>>uint(bit)) == 0 {
					continue
				}
				px := bx*8 + bit
				if px >= bm.W {
					break
				}
				d.setPixel(x+px, y+py, code)
			}
		}
	}
	return nil
}

// Display flushes the framebuffer to both driver ICs and refreshes the
// ink. This blocks for the full refresh time.
func (d *Dev) Display() error {
	if d.fb == nil {
		return fmt.Errorf("gdep133c02: not initialized")
	}
	eh := &errorHandler{d: d}
	sendFrame(eh, d.fb, &d.opts)
	refresh(eh)
	return eh.err
}

// Hibernate puts the panel into deep sleep. A hardware reset via Init is
// required before the next draw.
func (d *Dev) Hibernate() error {
	eh := &errorHandler{d: d}
	hibernate(eh)
	return eh.err
}

func (d *Dev) reset() error {
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	d.waitBusy(1 * time.Second)
	return nil
}

// waitBusy blocks until the busy line rises or the timeout expires.
func (d *Dev) waitBusy(timeout time.Duration) {
	if err := d.busy.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return
	}
	d.busy.WaitForEdge(timeout)
}

// errorHandler implements controller on top of the SPI and GPIO lines,
// keeping the first error and turning later calls into no-ops.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) selectChips(m chipMask) {
	if eh.err != nil {
		return
	}
	levels := [2]gpio.Level{gpio.High, gpio.High} // active low
	if m&chipLeft != 0 {
		levels[0] = gpio.Low
	}
	if m&chipRight != 0 {
		levels[1] = gpio.Low
	}
	for i, pin := range eh.d.cs {
		if err := pin.Out(levels[i]); err != nil {
			eh.err = err
			return
		}
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}
	if err := eh.d.dc.Out(gpio.Low); err != nil {
		eh.err = err
		return
	}
	eh.err = eh.d.c.Tx([]byte{cmd}, nil)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}
	if err := eh.d.dc.Out(gpio.High); err != nil {
		eh.err = err
		return
	}
	for len(data) > 0 && eh.err == nil {
		n := len(data)
		if n > eh.d.maxTxSize {
			n = eh.d.maxTxSize
		}
		eh.err = eh.d.c.Tx(data[:n], nil)
		data = data[n:]
	}
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	eh.d.waitBusy(40 * time.Second)
}
