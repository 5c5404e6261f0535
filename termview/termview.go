// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that prints the frame to a
// terminal using ANSI color codes.
//
// Useful while the e-paper panel is still on its way by mail.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Size of the frame in pixels.
	Width, Height int
	// Scale is the edge length in pixels of the square printed as one
	// terminal block. Defaults to 1.
	Scale int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Out defaults to stdout.
	Out io.Writer
	// Home moves the cursor to the top-left corner before each frame so the
	// frame is redrawn in place.
	Home bool

	_ struct{}
}

// Dev prints frames to a terminal.
type Dev struct {
	w       io.Writer
	scale   int
	home    bool
	palette ansi256.Palette

	pixels *image.Gray
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	pixels := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(pixels, pixels.Bounds(), image.White, image.Point{}, draw.Src)

	return &Dev{
		w:       w,
		scale:   scale,
		home:    opts.Home,
		palette: *p,
		pixels:  pixels,
	}
}

func (d *Dev) String() string {
	return "TermView"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.pixels.Bounds()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.pixels, r, src, sp, draw.Src)
	return d.refresh()
}

// cell returns the average gray level of the block at column cx and row cy.
func (d *Dev) cell(cx, cy int) color.Gray {
	b := image.Rect(cx*d.scale, cy*d.scale, (cx+1)*d.scale, (cy+1)*d.scale).Intersect(d.pixels.Bounds())

	sum, n := 0, 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += int(d.pixels.GrayAt(x, y).Y)
			n++
		}
	}
	if n == 0 {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{Y: uint8(sum / n)}
}

func (d *Dev) refresh() error {
	size := d.pixels.Bounds().Size()
	cols := (size.X + d.scale - 1) / d.scale
	rows := (size.Y + d.scale - 1) / d.scale

	d.buf.Reset()
	if d.home {
		_, _ = d.buf.WriteString("\033[H")
	}
	for cy := 0; cy < rows; cy++ {
		_, _ = d.buf.WriteString("\033[0m")
		for cx := 0; cx < cols; cx++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBAModel.Convert(d.cell(cx, cy)).(color.NRGBA)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
