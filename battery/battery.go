// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package battery converts pack voltage readings into the status string
// shown in the frame's corner overlay.
package battery

import "fmt"

// Pack voltage window of the single LiPo cell behind the voltage divider.
const (
	MaxVoltage = 4.2
	MinVoltage = 3.3

	// DividerRatio scales the ADC reading back to pack voltage.
	DividerRatio = 2.0
)

// FromADC converts an ADC reading in millivolts to pack voltage.
func FromADC(millivolts int) float64 {
	return float64(millivolts) / 1000 * DividerRatio
}

// Percent maps pack voltage linearly onto 0..100, clamped.
func Percent(volts float64) int {
	pct := (volts - MinVoltage) / (MaxVoltage - MinVoltage) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct + 0.5)
}

// Status formats the overlay text. Above the full-charge voltage the cell
// is being charged rather than at a meaningful percentage.
func Status(volts float64) string {
	if volts > MaxVoltage {
		return "Charging"
	}
	return fmt.Sprintf("%d%% (%.2fV)", Percent(volts), volts)
}
