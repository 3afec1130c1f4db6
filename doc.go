// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spectraframe is firmware for a battery-powered picture frame built
// around a 13.3" Spectra 6 e-paper panel (Good Display GDEP133C02).
//
// The rendering pipeline lives in the decode, dither and frame packages:
// images are decoded into a canonical RGB565 raster bounded to the panel
// canvas, scaled to fit, quantized to the six-color ink palette with
// Floyd-Steinberg error diffusion and handed to a display driver as one
// packed bit-plane per ink color.
package spectraframe
