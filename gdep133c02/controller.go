// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdep133c02

import "encoding/binary"

// Commands understood by the panel's driver ICs.
const (
	panelSetting          byte = 0x00
	powerSetting          byte = 0x01
	powerOff              byte = 0x02
	powerOffSequence      byte = 0x03
	powerOn               byte = 0x04
	boosterSoftStart      byte = 0x06
	deepSleep             byte = 0x07
	dataStartTransmission byte = 0x10
	displayRefresh        byte = 0x12
	pllControl            byte = 0x30
	temperatureSensor     byte = 0x41
	vcomDataInterval      byte = 0x50
	tconSetting           byte = 0x60
	resolutionSetting     byte = 0x61
	spiFlashControl       byte = 0x65
	powerSaving           byte = 0xE3
)

// deepSleepCheck must accompany the deep sleep command.
const deepSleepCheck byte = 0xA5

// chipMask selects which driver ICs a transfer addresses.
type chipMask uint8

const (
	chipNone  chipMask = 0
	chipLeft  chipMask = 1 << 0
	chipRight chipMask = 1 << 1
	chipBoth           = chipLeft | chipRight
)

type controller interface {
	selectChips(m chipMask)
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
}

// initPanel sends the power-up register sequence to both driver ICs.
// Values follow the manufacturer's reference sequence for this panel.
func initPanel(ctrl controller, opts *Opts) {
	ctrl.selectChips(chipBoth)

	// Each IC drives half the width.
	tres := make([]byte, 4)
	binary.LittleEndian.PutUint16(tres[0:], uint16(opts.Width/2))
	binary.LittleEndian.PutUint16(tres[2:], uint16(opts.Height))
	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData(tres)

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{0xEF, 0x08})

	ctrl.sendCommand(powerSetting)
	ctrl.sendData([]byte{0x37, 0x00, 0x23, 0x23})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0xC7, 0xC7, 0x1D})

	ctrl.sendCommand(pllControl)
	ctrl.sendData([]byte{0x3C})

	ctrl.sendCommand(temperatureSensor)
	ctrl.sendData([]byte{0x00})

	ctrl.sendCommand(vcomDataInterval)
	ctrl.sendData([]byte{borderBits(opts.Border) | 0x17})

	ctrl.sendCommand(tconSetting)
	ctrl.sendData([]byte{0x22})

	ctrl.sendCommand(spiFlashControl)
	ctrl.sendData([]byte{0x00})

	ctrl.sendCommand(powerSaving)
	ctrl.sendData([]byte{0xAA})

	ctrl.sendCommand(powerOffSequence)
	ctrl.sendData([]byte{0x00})

	ctrl.selectChips(chipNone)
}

// sendFrame streams the packed framebuffer, one half-width per driver IC.
// The buffer holds two pixels per byte, so each IC receives stride/2 bytes
// per row: the left half under CS0 first, then the right half under CS1.
func sendFrame(ctrl controller, fb []byte, opts *Opts) {
	stride := opts.Width / 2 // bytes per full row
	half := stride / 2       // bytes per row per IC

	ctrl.selectChips(chipLeft)
	ctrl.sendCommand(dataStartTransmission)
	for row := 0; row < opts.Height; row++ {
		ctrl.sendData(fb[row*stride : row*stride+half])
	}
	ctrl.selectChips(chipNone)

	ctrl.selectChips(chipRight)
	ctrl.sendCommand(dataStartTransmission)
	for row := 0; row < opts.Height; row++ {
		ctrl.sendData(fb[row*stride+half : (row+1)*stride])
	}
	ctrl.selectChips(chipNone)
}

// refresh powers the source drivers, triggers the ink update and powers
// back off. The refresh itself takes roughly 20 seconds of busy time.
func refresh(ctrl controller) {
	ctrl.selectChips(chipBoth)

	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(displayRefresh)
	ctrl.sendData([]byte{0x00})
	ctrl.waitUntilIdle()

	ctrl.sendCommand(powerOff)
	ctrl.waitUntilIdle()

	ctrl.selectChips(chipNone)
}

// hibernate puts both ICs into deep sleep until the next hardware reset.
func hibernate(ctrl controller) {
	ctrl.selectChips(chipBoth)
	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheck})
	ctrl.selectChips(chipNone)
}
