// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// recordingPort decodes SPI writes into records using the level of the DC
// pin.
type recordingPort struct {
	dc  *gpiotest.Pin
	got fakeController
}

func (p *recordingPort) String() string { return "recording" }

func (p *recordingPort) Connect(physic.Frequency, spi.Mode, int) (spi.Conn, error) {
	return p, nil
}

func (p *recordingPort) Duplex() conn.Duplex { return conn.Half }

func (p *recordingPort) Tx(w, r []byte) error {
	if p.dc.Read() == gpio.Low {
		p.got.sendCommand(w[0])
	} else {
		p.got.sendData(w)
	}
	return nil
}

func (p *recordingPort) TxPackets([]spi.Packet) error {
	return errors.New("not implemented")
}

// commands returns the command bytes recorded so far.
func (p *recordingPort) commands() []byte {
	var out []byte
	for _, r := range p.got {
		out = append(out, r.cmd)
	}
	return out
}

func newRecordingDev(t *testing.T, opts Opts) (*Dev, *recordingPort, *gpiotest.Pin) {
	t.Helper()

	dc := &gpiotest.Pin{N: "dc"}
	busy := &gpiotest.Pin{N: "busy", EdgesChan: make(chan gpio.Level, 1)}
	p := &recordingPort{dc: dc}

	dev, err := New(p, dc, &gpiotest.Pin{N: "cs"}, &gpiotest.Pin{N: "rst"}, busy, &opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return dev, p, busy
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name             string
		opts             Opts
		wantString       string
		wantBounds       image.Rectangle
		wantBufferBounds image.Rectangle
	}{
		{
			name:       "empty",
			wantString: "epd.Dev{playback, (0), Width: 0, Height: 0}",
		},
		{
			name:             "EPD2in13",
			opts:             EPD2in13,
			wantBounds:       image.Rect(0, 0, 122, 250),
			wantBufferBounds: image.Rect(0, 0, 128, 250),
			wantString:       "epd.Dev{playback, (0), Width: 122, Height: 250}",
		},
		{
			name: "EPD2in13, top right",
			opts: func() Opts {
				opts := EPD2in13
				opts.Origin = TopRight
				return opts
			}(),
			wantBounds:       image.Rect(0, 0, 250, 122),
			wantBufferBounds: image.Rect(0, 0, 250, 128),
			wantString:       "epd.Dev{playback, (0), Width: 250, Height: 122}",
		},
		{
			name: "EPD2in13, bottom left",
			opts: func() Opts {
				opts := EPD2in13
				opts.Origin = BottomLeft
				return opts
			}(),
			wantBounds:       image.Rect(0, 0, 250, 122),
			wantBufferBounds: image.Rect(0, 0, 250, 128),
			wantString:       "epd.Dev{playback, (0), Width: 250, Height: 122}",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev, err := New(&spitest.Playback{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{
				EdgesChan: make(chan gpio.Level, 1),
			}, &tc.opts)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}

			if diff := cmp.Diff(dev.String(), tc.wantString); diff != "" {
				t.Errorf("String() difference (-got +want):\n%s", diff)
			}

			if diff := cmp.Diff(dev.Bounds(), tc.wantBounds); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}

			if diff := cmp.Diff(dev.buffer.Bounds(), tc.wantBufferBounds); diff != "" {
				t.Errorf("buffer.Bounds() difference (-got +want):\n%s", diff)
			}

			if dev.Mode() != Full {
				t.Errorf("Mode() = %v, want %v", dev.Mode(), Full)
			}

			if !dev.buffer.Bounds().Empty() {
				for _, pos := range []image.Point{
					image.Pt(0, 0),
					image.Pt(dev.buffer.Bounds().Max.X-1, dev.buffer.Bounds().Max.Y-1),
					image.Pt(dev.buffer.Bounds().Dx()/2, dev.buffer.Bounds().Dy()/2),
				} {
					if diff := cmp.Diff(dev.buffer.BitAt(pos.X, pos.Y), image1bit.On); diff != "" {
						t.Errorf("buffer.BitAt(%v) difference (-got +want):\n%s", pos, diff)
					}
				}
			}
		})
	}
}

func TestNewUnknownCorner(t *testing.T) {
	opts := EPD2in13
	opts.Origin = BottomLeft + 1

	if _, err := New(&spitest.Playback{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &opts); err == nil {
		t.Error("New() succeeded with an unknown corner")
	}
}

func TestDrawModes(t *testing.T) {
	fullFrame := []byte{
		dataEntryModeSetting, setRAMXAddressStartEndPosition, setRAMYAddressStartEndPosition, setRAMXAddressCounter, setRAMYAddressCounter,
		writeRAMBW,
		dataEntryModeSetting, setRAMXAddressStartEndPosition, setRAMYAddressStartEndPosition, setRAMXAddressCounter, setRAMYAddressCounter,
		writeRAMRed,
	}

	for _, tc := range []struct {
		mode        Mode
		wantPlanes  []byte
		wantRefresh byte
	}{
		{mode: Full, wantPlanes: fullFrame, wantRefresh: 0xf7},
		{mode: Fast, wantPlanes: fullFrame, wantRefresh: 0xc7},
		{
			mode: Partial,
			wantPlanes: []byte{
				dataEntryModeSetting, setRAMXAddressStartEndPosition, setRAMYAddressStartEndPosition, setRAMXAddressCounter, setRAMYAddressCounter,
				writeRAMBW,
			},
			wantRefresh: 0xff,
		},
	} {
		t.Run(tc.mode.String(), func(t *testing.T) {
			dev, p, _ := newRecordingDev(t, EPD2in13)

			if err := dev.SetMode(tc.mode); err != nil {
				t.Fatalf("SetMode() failed: %v", err)
			}
			if dev.Mode() != tc.mode {
				t.Errorf("Mode() = %v, want %v", dev.Mode(), tc.mode)
			}
			p.got = nil

			if err := dev.Draw(dev.Bounds(), &image.Uniform{image1bit.Off}, image.Point{}); err != nil {
				t.Fatalf("Draw() failed: %v", err)
			}

			want := append(append([]byte{}, tc.wantPlanes...), displayUpdateControl2, masterActivation)
			if diff := cmp.Diff(p.commands(), want); diff != "" {
				t.Errorf("Draw() commands difference (-got +want):\n%s", diff)
			}

			refresh := p.got[len(p.got)-2]
			if diff := cmp.Diff(refresh.data, []byte{tc.wantRefresh}); diff != "" {
				t.Errorf("refresh data difference (-got +want):\n%s", diff)
			}

			// The whole panel is black.
			bw := p.got[5]
			if len(bw.data) != 16*250 {
				t.Fatalf("sent %d bytes, want %d", len(bw.data), 16*250)
			}
			for i, b := range bw.data {
				if b != 0 {
					t.Fatalf("byte %d = %#x, want 0", i, b)
				}
			}
		})
	}
}

func TestSetModePartialUploadsBase(t *testing.T) {
	dev, p, _ := newRecordingDev(t, EPD2in13)

	if err := dev.SetMode(Partial); err != nil {
		t.Fatalf("SetMode() failed: %v", err)
	}

	var planes []byte
	for _, c := range p.commands() {
		if c == writeRAMBW || c == writeRAMRed {
			planes = append(planes, c)
		}
	}
	if diff := cmp.Diff(planes, []byte{writeRAMBW, writeRAMRed}); diff != "" {
		t.Errorf("planes difference (-got +want):\n%s", diff)
	}

	// No refresh happens while switching.
	for _, c := range p.commands() {
		if c == masterActivation {
			t.Errorf("SetMode(Partial) triggered a refresh")
		}
	}
}

func TestDrawOutsideIsNoop(t *testing.T) {
	dev, p, _ := newRecordingDev(t, EPD2in13)

	if err := dev.Draw(image.Rect(300, 300, 310, 310), &image.Uniform{image1bit.Off}, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	if len(p.got) != 0 {
		t.Errorf("Draw() outside of the panel sent %d commands", len(p.got))
	}
}

func TestBusyTimeout(t *testing.T) {
	opts := EPD2in13
	opts.BusyTimeout = 20 * time.Millisecond
	dev, p, busy := newRecordingDev(t, opts)

	busy.L = gpio.High

	err := dev.Clear(image1bit.On)
	if !errors.Is(err, ErrBusyTimeout) {
		t.Errorf("Clear() error = %v, want %v", err, ErrBusyTimeout)
	}
	if got := p.got[len(p.got)-1].cmd; got != masterActivation {
		t.Errorf("last command %#x, want %#x", got, masterActivation)
	}
}

func TestSleep(t *testing.T) {
	dev, p, _ := newRecordingDev(t, EPD2in13)

	if err := dev.Sleep(); err != nil {
		t.Fatalf("Sleep() failed: %v", err)
	}

	want := []record{{cmd: deepSleepMode, data: []byte{0x01}}}
	if diff := cmp.Diff([]record(p.got), want, cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("Sleep() difference (-got +want):\n%s", diff)
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{Full: "full", Fast: "fast", Partial: "partial", 7: "Mode(7)"} {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", uint8(m), got, want)
		}
	}
}
