// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdep133c02

import (
	"bytes"
	"image"
	"testing"

	"github.com/spectraframe/spectraframe/bitplane"
	"github.com/spectraframe/spectraframe/palette"
)

func testDev(w, h int) *Dev {
	return &Dev{
		opts: Opts{Width: w, Height: h},
		fb:   make([]byte, w*h/2),
	}
}

func TestFillScreen(t *testing.T) {
	d := testDev(8, 2)
	if err := d.FillScreen(palette.White); err != nil {
		t.Fatalf("FillScreen: %v", err)
	}
	if !bytes.Equal(d.fb, bytes.Repeat([]byte{0x11}, 8)) {
		t.Errorf("fb = %#v, want all 0x11", d.fb)
	}

	if err := d.FillScreen(palette.Red); err != nil {
		t.Fatalf("FillScreen: %v", err)
	}
	if !bytes.Equal(d.fb, bytes.Repeat([]byte{0x33}, 8)) {
		t.Errorf("fb = %#v, want all 0x33", d.fb)
	}
}

func TestDrawBitmapNibblePacking(t *testing.T) {
	d := testDev(8, 2)
	_ = d.FillScreen(palette.White)

	bm := bitplane.New(8, 2)
	bm.Set(0, 0) // even x, high nibble
	bm.Set(3, 1) // odd x, low nibble
	if err := d.DrawBitmap(0, 0, bm, palette.Black); err != nil {
		t.Fatalf("DrawBitmap: %v", err)
	}

	want := []byte{0x01, 0x11, 0x11, 0x11, 0x11, 0x10, 0x11, 0x11}
	if !bytes.Equal(d.fb, want) {
		t.Errorf("fb = %#v, want %#v", d.fb, want)
	}
}

func TestDrawBitmapOffset(t *testing.T) {
	d := testDev(8, 2)
	_ = d.FillScreen(palette.White)

	bm := bitplane.New(2, 1)
	bm.Set(0, 0)
	bm.Set(1, 0)
	if err := d.DrawBitmap(4, 1, bm, palette.Green); err != nil {
		t.Fatalf("DrawBitmap: %v", err)
	}

	// Pixels (4,1) and (5,1) share framebuffer byte (1*8+4)/2 = 6.
	want := []byte{0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x66, 0x11}
	if !bytes.Equal(d.fb, want) {
		t.Errorf("fb = %#v, want %#v", d.fb, want)
	}
}

func TestRotationBounds(t *testing.T) {
	d := testDev(8, 2)
	for _, tc := range []struct {
		rotation int
		want     image.Rectangle
	}{
		{0, image.Rect(0, 0, 8, 2)},
		{1, image.Rect(0, 0, 2, 8)},
		{2, image.Rect(0, 0, 8, 2)},
		{3, image.Rect(0, 0, 2, 8)},
		{4, image.Rect(0, 0, 8, 2)},
		{-1, image.Rect(0, 0, 2, 8)},
	} {
		d.SetRotation(tc.rotation)
		if got := d.Bounds(); got != tc.want {
			t.Errorf("SetRotation(%d): Bounds() = %v, want %v", tc.rotation, got, tc.want)
		}
	}
}

func TestDrawBitmapRotated(t *testing.T) {
	d := testDev(8, 2)
	_ = d.FillScreen(palette.White)
	d.SetRotation(1)

	// Logical (0,0) under one quarter turn lands at physical (7,0).
	bm := bitplane.New(1, 1)
	bm.Set(0, 0)
	if err := d.DrawBitmap(0, 0, bm, palette.Blue); err != nil {
		t.Fatalf("DrawBitmap: %v", err)
	}

	want := []byte{0x11, 0x11, 0x11, 0x15, 0x11, 0x11, 0x11, 0x11}
	if !bytes.Equal(d.fb, want) {
		t.Errorf("fb = %#v, want %#v", d.fb, want)
	}
}

func TestDrawBeforeInit(t *testing.T) {
	d := &Dev{opts: Opts{Width: 8, Height: 2}}
	if err := d.FillScreen(palette.White); err == nil {
		t.Error("FillScreen succeeded without Init")
	}
	if err := d.DrawBitmap(0, 0, bitplane.New(1, 1), palette.Black); err == nil {
		t.Error("DrawBitmap succeeded without Init")
	}
	if err := d.Display(); err == nil {
		t.Error("Display succeeded without Init")
	}
}
