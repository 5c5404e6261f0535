// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	driverOutputControl            byte = 0x01
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	tempSensorSelect               byte = 0x18
	tempSensorRegWrite             byte = 0x1A
	masterActivation               byte = 0x20
	displayUpdateControl1          byte = 0x21
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	writeRAMRed                    byte = 0x26
	borderWaveformControl          byte = 0x3C
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

const defaultBusyTimeout = 10 * time.Second

// Mode selects the waveform used to refresh the panel.
type Mode uint8

const (
	// Full flashes the whole panel. It removes ghosting left by partial
	// refreshes.
	Full Mode = iota
	// Fast is a full refresh with a shorter waveform.
	Fast
	// Partial only redraws changed pixels without flashing.
	Partial
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Fast:
		return "fast"
	case Partial:
		return "partial"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// updateSequence returns the displayUpdateControl2 option of the mode.
func (m Mode) updateSequence() byte {
	switch m {
	case Fast:
		return 0xC7
	case Partial:
		return 0xFF
	}
	return 0xF7
}

// planes returns the RAM planes written for the mode. Full refreshes keep
// both planes in sync so a later partial refresh has a base image to diff
// against.
func (m Mode) planes() []byte {
	if m == Partial {
		return []byte{writeRAMBW}
	}
	return []byte{writeRAMBW, writeRAMRed}
}

// Corner describes a corner on the physical device and is used to define the
// origin for drawing operations.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Opts defines the display configuration.
type Opts struct {
	// Physical panel size in pixels.
	Width  int
	Height int
	// Origin of the drawing coordinates. TopRight and BottomLeft rotate the
	// panel by 90 degrees.
	Origin Corner
	// BusyTimeout bounds the wait for a refresh. Defaults to 10 seconds.
	BusyTimeout time.Duration
}

func (o *Opts) busyTimeout() time.Duration {
	if o.BusyTimeout <= 0 {
		return defaultBusyTimeout
	}
	return o.BusyTimeout
}

// EPD2in13 contains the configuration of the 2.13 inch panel.
var EPD2in13 = Opts{
	Width:  122,
	Height: 250,
}

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	bounds image.Rectangle
	buffer *image1bit.VerticalLSB
	mode   Mode

	opts Opts
}

// flipPt returns a new image.Point with the X and Y coordinates exchanged.
func flipPt(pt image.Point) image.Point {
	return image.Point{X: pt.Y, Y: pt.X}
}

// New creates new handler which is used to access the display.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	displaySize := image.Pt(opts.Width, opts.Height)

	// The physical X axis is sized to have one-byte alignment on the (0,0)
	// on-display position after rotation.
	bufferSize := image.Pt((opts.Width+7)/8*8, opts.Height)

	switch opts.Origin {
	case TopLeft, BottomRight:
	case TopRight, BottomLeft:
		displaySize = flipPt(displaySize)
		bufferSize = flipPt(bufferSize)
	default:
		return nil, fmt.Errorf("epd: unknown corner %v", opts.Origin)
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("epd: %w", err)
	}

	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("epd: %w", err)
	}

	d := &Dev{
		c:      c,
		dc:     dc,
		cs:     cs,
		rst:    rst,
		busy:   busy,
		bounds: image.Rectangle{Max: displaySize},
		buffer: image1bit.NewVerticalLSB(image.Rectangle{Max: bufferSize}),
		mode:   Full,
		opts:   *opts,
	}

	// White
	draw.Src.Draw(d.buffer, d.buffer.Bounds(), &image.Uniform{image1bit.On}, image.Point{})

	return d, nil
}

// NewHat creates new handler using the pins of the Waveshare Raspberry Pi
// HAT.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Reset toggles the reset line of the controller.
func (d *Dev) Reset() error {
	eh := errorHandler{d: d}

	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)

	return eh.err
}

// Init resets the display and configures it for the current mode. It must
// be called before drawing and after Sleep.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	if d.mode == Fast {
		initDisplayFast(&eh, &d.opts)
	} else {
		initDisplay(&eh, &d.opts)
	}
	if d.mode == Partial {
		// Without a base image in RAM the first partial refresh has nothing
		// to compare with.
		d.sendBuffer(&eh, Full)
		configPartial(&eh, &d.opts)
	}

	return eh.err
}

// Mode returns the current refresh mode.
func (d *Dev) Mode() Mode {
	return d.mode
}

// SetMode changes the way the following Draw calls refresh the panel.
//
// Switching to Partial uploads the current buffer to both RAM planes as the
// base image without refreshing.
func (d *Dev) SetMode(mode Mode) error {
	if mode > Partial {
		return fmt.Errorf("epd: unknown mode %v", mode)
	}
	if mode == d.mode {
		return nil
	}

	eh := errorHandler{d: d}

	switch mode {
	case Full:
		if err := d.Reset(); err != nil {
			return err
		}
		initDisplay(&eh, &d.opts)
	case Fast:
		initDisplayFast(&eh, &d.opts)
	case Partial:
		eh.rstOut(gpio.Low)
		time.Sleep(time.Millisecond)
		eh.rstOut(gpio.High)
		d.sendBuffer(&eh, Full)
		configPartial(&eh, &d.opts)
	}

	if eh.err != nil {
		return eh.err
	}

	d.mode = mode
	return nil
}

// sendBuffer writes the whole buffer to the planes of mode.
func (d *Dev) sendBuffer(ctrl controller, mode Mode) {
	t := transfer{
		planes:  mode.planes(),
		devSize: d.bounds.Max,
		origin:  d.opts.Origin,
		buffer:  d.buffer,
		dstRect: d.bounds,
	}
	a := t.area()
	for _, plane := range t.planes {
		t.sendPlane(ctrl, plane, &a)
	}
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configured display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw draws the given image to the display. Only the destination area is
// uploaded, then the panel is refreshed using the current mode.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	t := transfer{
		planes:  d.mode.planes(),
		devSize: d.bounds.Max,
		origin:  d.opts.Origin,
		buffer:  d.buffer,
		dstRect: dstRect,
		src:     src,
		srcPts:  srcPts,
	}

	eh := errorHandler{d: d}

	if drawImage(&eh, &t) {
		refresh(&eh, d.mode)
	}

	return eh.err
}

// Clear fills the display with color.
func (d *Dev) Clear(c color.Color) error {
	return d.Draw(d.bounds, &image.Uniform{
		C: image1bit.BitModel.Convert(c).(image1bit.Bit),
	}, image.Point{})
}

// Halt clears the display with a full refresh and puts the controller to
// sleep.
func (d *Dev) Halt() error {
	if err := d.SetMode(Full); err != nil {
		return err
	}
	if err := d.Clear(image1bit.On); err != nil {
		return err
	}
	return d.Sleep()
}

// Sleep makes the controller enter deep sleep mode. It can be woken up by
// calling Init again.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: d}
	deepSleep(&eh)
	return eh.err
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.bounds.Dx(), d.bounds.Dy())
}

var _ display.Drawer = &Dev{}
