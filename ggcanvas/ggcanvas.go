// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ggcanvas implements canvas.Canvas on top of a gg drawing context.
//
// Unlike canvas.Raster the output is anti-aliased RGBA, which makes it
// suitable for previews and screenshots of a page on a host machine.
package ggcanvas

import (
	"io"

	"github.com/fogleman/gg"

	"github.com/GermanBionicSystems/epcal/canvas"
	"github.com/GermanBionicSystems/epcal/fonts"
)

// Canvas draws into a gg.Context.
type Canvas struct {
	dc    *gg.Context
	fonts *fonts.Set
}

// New returns a Canvas of the given size. A nil fs uses fonts.Default.
func New(width, height int, fs *fonts.Set) *Canvas {
	return NewFromContext(gg.NewContext(width, height), fs)
}

// NewFromContext returns a Canvas drawing into dc.
func NewFromContext(dc *gg.Context, fs *fonts.Set) *Canvas {
	if fs == nil {
		fs = fonts.Default()
	}
	return &Canvas{dc: dc, fonts: fs}
}

// Context returns the underlying drawing context.
func (c *Canvas) Context() *gg.Context {
	return c.dc
}

// EncodePNG writes the current image as PNG to w.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// Clear implements canvas.Canvas.
func (c *Canvas) Clear(col canvas.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

// DrawLine implements canvas.Canvas. Coordinates are shifted to pixel
// centers so one pixel wide lines are not smeared over two pixels.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col canvas.Color, style canvas.LineStyle) {
	c.dc.Push()
	defer c.dc.Pop()

	c.dc.SetColor(col)
	c.dc.SetLineWidth(1)
	c.dc.SetLineCapSquare()
	if style == canvas.Dotted {
		c.dc.SetDash(1, 2)
	}
	c.dc.DrawLine(float64(x0)+0.5, float64(y0)+0.5, float64(x1)+0.5, float64(y1)+0.5)
	c.dc.Stroke()
}

// FillRect implements canvas.Canvas.
func (c *Canvas) FillRect(x0, y0, x1, y1 int, col canvas.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x0), float64(y0), float64(x1-x0+1), float64(y1-y0+1))
	c.dc.Fill()
}

// DrawText implements canvas.Canvas.
func (c *Canvas) DrawText(x, y int, size fonts.Size, text string, fg, bg canvas.Color) {
	m := c.fonts.Metrics(size)
	baseline := float64(y + m.Ascent)
	dotX := float64(x)

	for _, run := range fonts.Split(text) {
		c.dc.SetFontFace(c.fonts.Face(size, run.Wide))
		w, _ := c.dc.MeasureString(run.Text)

		c.dc.SetColor(bg)
		c.dc.DrawRectangle(dotX, float64(y), w, float64(m.Height))
		c.dc.Fill()

		c.dc.SetColor(fg)
		c.dc.DrawString(run.Text, dotX, baseline)
		dotX += w
	}
}

var _ canvas.Canvas = (*Canvas)(nil)
