// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package palette

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNearest(t *testing.T) {
	for _, tc := range []struct {
		name    string
		r, g, b int
		want    Color
	}{
		{name: "exact black", r: 0, g: 0, b: 0, want: Black},
		{name: "exact white", r: 255, g: 255, b: 255, want: White},
		{name: "exact yellow", r: 230, g: 230, b: 0, want: Yellow},
		{name: "exact red", r: 204, g: 0, b: 0, want: Red},
		{name: "exact blue", r: 0, g: 51, b: 204, want: Blue},
		{name: "exact green", r: 0, g: 204, b: 0, want: Green},
		{name: "near white", r: 240, g: 250, b: 245, want: White},
		{name: "dark red", r: 120, g: 10, b: 10, want: Red},
		{name: "far below range", r: -300, g: -300, b: -300, want: Black},
		{name: "far above range", r: 900, g: 900, b: 900, want: White},
		{
			// (102,102,0) is equidistant from black, red and green; the
			// scan order makes the lowest index win.
			name: "three way tie",
			r:    102, g: 102, b: 0,
			want: Black,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				if got := Spectra6.Nearest(tc.r, tc.g, tc.b); got != tc.want {
					t.Fatalf("Nearest(%d,%d,%d) = %v, want %v (iteration %d)",
						tc.r, tc.g, tc.b, got, tc.want, i)
				}
			}
		})
	}
}

func TestBlended(t *testing.T) {
	if diff := cmp.Diff(Blended(1), Spectra6); diff != "" {
		t.Errorf("Blended(1) is not the datasheet palette (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(Blended(0), measured); diff != "" {
		t.Errorf("Blended(0) is not the measured palette (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(Blended(-5), Blended(0)); diff != "" {
		t.Errorf("saturation is not clamped below (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(Blended(5), Blended(1)); diff != "" {
		t.Errorf("saturation is not clamped above (-got +want):\n%s", diff)
	}

	// A mid blend must land between the endpoints on every channel.
	half := Blended(0.5)
	for i := 0; i < NumColors; i++ {
		lo, hi := measured[i].R, Spectra6[i].R
		if lo > hi {
			lo, hi = hi, lo
		}
		if half[i].R < lo || half[i].R > hi {
			t.Errorf("Blended(0.5)[%d].R = %d outside [%d, %d]", i, half[i].R, lo, hi)
		}
	}
}

func TestInks(t *testing.T) {
	inks := Inks()
	if len(inks) != 5 {
		t.Fatalf("len(Inks()) = %d, want 5", len(inks))
	}
	for _, c := range inks {
		if c == White {
			t.Errorf("Inks() contains white; white has no bit-plane")
		}
	}
}
