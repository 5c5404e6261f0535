// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"encoding/binary"
	"image"
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	readBusy()
}

// memSize returns the panel RAM size; horizontally in bytes, vertically in
// pixels.
func memSize(opts *Opts) image.Rectangle {
	return image.Rect(0, 0, (opts.Width+7)/8, opts.Height)
}

func driverOutput(opts *Opts) []byte {
	gates := uint16(opts.Height - 1)
	return []byte{byte(gates), byte(gates >> 8), 0x00}
}

// initDisplay resets the controller and prepares it for full refreshes.
func initDisplay(ctrl controller, opts *Opts) {
	ctrl.readBusy()
	ctrl.sendCommand(swReset)
	ctrl.readBusy()

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData(driverOutput(opts))

	setMemoryArea(ctrl, memSize(opts))

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{0x05})

	// Normal RAM content, source output S8-S167.
	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{0x00, 0x80})

	// Internal temperature sensor.
	ctrl.sendCommand(tempSensorSelect)
	ctrl.sendData([]byte{0x80})

	ctrl.readBusy()
}

// initDisplayFast resets the controller and loads the waveform for fast full
// refreshes by pretending a panel temperature of 100°C.
func initDisplayFast(ctrl controller, opts *Opts) {
	ctrl.sendCommand(swReset)
	ctrl.readBusy()

	ctrl.sendCommand(tempSensorSelect)
	ctrl.sendData([]byte{0x80})

	setMemoryArea(ctrl, memSize(opts))

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{0xb1})
	ctrl.sendCommand(masterActivation)
	ctrl.readBusy()

	ctrl.sendCommand(tempSensorRegWrite)
	ctrl.sendData([]byte{0x64, 0x00})

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{0x91})
	ctrl.sendCommand(masterActivation)
	ctrl.readBusy()
}

// configPartial switches a controller, which must already hold a base image
// in both RAM planes, to partial refreshes.
func configPartial(ctrl controller, opts *Opts) {
	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{0x80})

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData(driverOutput(opts))

	setMemoryArea(ctrl, memSize(opts))
}

// setMemoryArea configures the target drawing area (horizontal is in bytes,
// vertical in pixels).
func setMemoryArea(ctrl controller, area image.Rectangle) {
	startX, endX := uint8(area.Min.X), uint8(area.Max.X-1)
	startY, endY := uint16(area.Min.Y), uint16(area.Max.Y-1)

	startEndY := [4]byte{}
	binary.LittleEndian.PutUint16(startEndY[0:], startY)
	binary.LittleEndian.PutUint16(startEndY[2:], endY)

	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendData([]byte{
		// Y increment, X increment; update address counter in X direction
		0b011,
	})

	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{startX, endX})

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData(startEndY[:4])

	ctrl.sendCommand(setRAMXAddressCounter)
	ctrl.sendData([]byte{startX})

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData(startEndY[:2])
}

// refresh transfers the RAM content to the panel using the waveform of the
// given mode.
func refresh(ctrl controller, mode Mode) {
	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{mode.updateSequence()})
	ctrl.sendCommand(masterActivation)
	ctrl.readBusy()
}

func deepSleep(ctrl controller) {
	// Turn off DC/DC converter, clock, output load and MCU. RAM content is
	// retained.
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendData([]byte{0x01})
}
