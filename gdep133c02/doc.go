// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gdep133c02 controls a Good Display GDEP133C02 e-paper panel.
//
// The 13.3" Spectra 6 panel is 1200x1600 pixels with six ink colors and is
// split between two driver ICs, each owning one half of the width behind
// its own chip select. Pixels are packed two per byte as 4-bit color codes;
// a full refresh takes on the order of 20 seconds.
//
// The driver composes ink bit-planes into a local framebuffer and flushes
// it in one transfer per driver IC. It implements the frame.Display
// contract.
package gdep133c02
