// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ErrBusyTimeout is returned when the panel stays busy for longer than
// Opts.BusyTimeout.
var ErrBusyTimeout = errors.New("epd: timed out waiting for the panel")

// errorHandler implements controller on top of a Dev and keeps the first
// error.
type errorHandler struct {
	d   *Dev
	err error
}

// do runs fn unless an earlier step failed.
func (eh *errorHandler) do(fn func() error) {
	if eh.err == nil {
		eh.err = fn()
	}
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	eh.do(func() error { return eh.d.rst.Out(l) })
}

// write sends b with the DC line at dc, framed by the chip select.
func (eh *errorHandler) write(dc gpio.Level, b []byte) {
	eh.do(func() error { return eh.d.dc.Out(dc) })
	eh.do(func() error { return eh.d.cs.Out(gpio.Low) })
	eh.do(func() error { return eh.d.c.Tx(b, nil) })
	eh.do(func() error { return eh.d.cs.Out(gpio.High) })
}

// readBusy polls the busy line until the panel is idle. The line is high
// while a refresh is in progress.
func (eh *errorHandler) readBusy() {
	if eh.err != nil {
		return
	}

	deadline := time.Now().Add(eh.d.opts.busyTimeout())
	for eh.d.busy.Read() == gpio.High {
		if time.Now().After(deadline) {
			eh.err = ErrBusyTimeout
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	eh.write(gpio.Low, []byte{cmd})
}

func (eh *errorHandler) sendData(data []byte) {
	eh.write(gpio.High, data)
}
